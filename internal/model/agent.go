package model

import (
	"fmt"
	"time"
)

// AgentRole represents the permission level of a staff user.
type AgentRole string

const (
	RoleAdmin AgentRole = "admin"
	RoleAgent AgentRole = "agent"
)

// ParseAgentRole parses a role string into an AgentRole.
func ParseAgentRole(s string) (AgentRole, error) {
	switch AgentRole(s) {
	case RoleAdmin, RoleAgent:
		return AgentRole(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Presence represents an agent's availability.
type Presence string

const (
	PresenceOnline  Presence = "online"
	PresenceAway    Presence = "away"
	PresenceOffline Presence = "offline"
)

// ParsePresence parses a presence string into a Presence.
func ParsePresence(s string) (Presence, error) {
	switch Presence(s) {
	case PresenceOnline, PresenceAway, PresenceOffline:
		return Presence(s), nil
	}
	return "", fmt.Errorf("unknown presence %q", s)
}

// InviteStatus represents the state of an agent invitation.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteExpired  InviteStatus = "expired"
)

// Agent represents a staff user who can be assigned conversations.
type Agent struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Role         AgentRole    `json:"role"`
	Presence     Presence     `json:"presence"`
	InviteStatus InviteStatus `json:"invite_status"`
	InviteToken  string       `json:"-"`
	TeamID       *string      `json:"team_id"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// InviteAgentRequest is the request to invite a new agent.
type InviteAgentRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
	TeamID string `json:"team_id,omitempty"`
}

// UpdateAgentRequest is the request to update an agent. Only provided fields
// are changed.
type UpdateAgentRequest struct {
	Name     *string `json:"name,omitempty"`
	Role     *string `json:"role,omitempty"`
	Presence *string `json:"presence,omitempty"`
	TeamID   *string `json:"team_id,omitempty"`
}

// AgentFilter narrows an agent listing.
type AgentFilter struct {
	Role         AgentRole
	Presence     Presence
	InviteStatus InviteStatus
	TeamID       string
	Limit        int
	Offset       int
}

// ListAgentsResponse is the response for listing agents.
type ListAgentsResponse struct {
	Agents  []Agent `json:"agents"`
	Total   int     `json:"total"`
	HasMore bool    `json:"has_more"`
}
