package model

import "time"

// DefaultTeamColor is applied when a team is created without a color.
const DefaultTeamColor = "#3b82f6"

// Team represents a grouping of agents.
type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateTeamRequest is the request to create a team.
type CreateTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color,omitempty"`
}

// UpdateTeamRequest is the request to update a team. The name is fixed at
// creation time; only description and color may change.
type UpdateTeamRequest struct {
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

// ListTeamsResponse is the response for listing teams.
type ListTeamsResponse struct {
	Teams   []Team `json:"teams"`
	Total   int    `json:"total"`
	HasMore bool   `json:"has_more"`
}
