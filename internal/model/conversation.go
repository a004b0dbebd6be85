// Package model defines data structures for the support platform.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle state of a conversation.
type Status string

const (
	StatusOpen     Status = "open"
	StatusPending  Status = "pending"
	StatusResolved Status = "resolved"
	StatusClosed   Status = "closed"
)

// ParseStatus parses a status string into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusOpen, StatusPending, StatusResolved, StatusClosed:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// CanTransitionTo reports whether a transition from s to next is allowed.
// Open, pending and resolved move freely between each other and any status
// may close. A closed conversation can only reopen to open.
func (s Status) CanTransitionTo(next Status) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == StatusClosed {
		return next == StatusOpen
	}
	return true
}

// Priority represents the triage urgency of a conversation.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ParsePriority parses a priority string into a Priority.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return Priority(s), nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// Valid reports whether the priority is one of the known values.
func (p Priority) Valid() bool {
	_, err := ParsePriority(string(p))
	return err == nil
}

// MaxSubjectLength is the longest allowed conversation subject, in characters.
const MaxSubjectLength = 200

// Reserved metadata keys. Arbitrary keys are still accepted; these are the
// ones the platform itself reads or writes.
const (
	MetaChannel   = "channel"    // origin channel, e.g. "widget", "email"
	MetaSource    = "source"     // integration that created the conversation
	MetaOriginURL = "origin_url" // page the widget was embedded on
	MetaUserAgent = "user_agent" // visitor user agent at creation time
)

// Conversation represents a support thread between participants.
type Conversation struct {
	ID           string            `json:"id"`
	Participants []string          `json:"participants"`
	Subject      string            `json:"subject,omitempty"`
	Status       Status            `json:"status"`
	Priority     Priority          `json:"priority"`
	AssignedTo   *string           `json:"assigned_to"`
	Tags         []string          `json:"tags"`
	CreatedBy    string            `json:"created_by,omitempty"`
	ClosedAt     *time.Time        `json:"closed_at"`
	ClosedBy     *string           `json:"closed_by"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`

	// Version increments on every write and guards concurrent transitions.
	Version int64 `json:"version"`
}

// Closed reports whether the conversation is in the closed state.
func (c *Conversation) Closed() bool {
	return c.Status == StatusClosed
}

// HasTag reports whether the conversation carries the given tag.
func (c *Conversation) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTags adds the given tags to the conversation, trimming whitespace and
// skipping duplicates and empty strings. Returns true if anything changed.
func (c *Conversation) AddTags(tags []string) bool {
	changed := false
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || c.HasTag(tag) {
			continue
		}
		c.Tags = append(c.Tags, tag)
		changed = true
	}
	return changed
}

// RemoveTags removes the given tags from the conversation. Tags that are not
// present are ignored. Returns true if anything changed.
func (c *Conversation) RemoveTags(tags []string) bool {
	remove := make(map[string]bool, len(tags))
	for _, tag := range tags {
		remove[strings.TrimSpace(tag)] = true
	}

	kept := c.Tags[:0]
	changed := false
	for _, t := range c.Tags {
		if remove[t] {
			changed = true
			continue
		}
		kept = append(kept, t)
	}
	c.Tags = kept
	return changed
}

// CreateConversationRequest is the request to create a new conversation.
type CreateConversationRequest struct {
	Participants []string          `json:"participants"`
	Subject      string            `json:"subject,omitempty"`
	CreatedBy    string            `json:"created_by,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// AssignConversationRequest is the request to assign a conversation to an agent.
type AssignConversationRequest struct {
	AgentID string `json:"agent_id"`
}

// SetStatusRequest is the request to transition a conversation's status.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// SetPriorityRequest is the request to change a conversation's priority.
type SetPriorityRequest struct {
	Priority string `json:"priority"`
}

// TagsRequest carries tags to add to or remove from a conversation.
type TagsRequest struct {
	Tags []string `json:"tags"`
}

// ConversationFilter narrows a conversation listing.
type ConversationFilter struct {
	Status     Status
	Priority   Priority
	AssignedTo string
	Limit      int
	Offset     int
}

// ListConversationsResponse is the response for listing conversations.
type ListConversationsResponse struct {
	Conversations []Conversation `json:"conversations"`
	Total         int            `json:"total"`
	HasMore       bool           `json:"has_more"`
}
