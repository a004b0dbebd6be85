package model

import "time"

// Widget represents the embeddable chat widget configuration owned by a user
// account. One configuration exists per owner.
type Widget struct {
	ID              string    `json:"id"`
	DisplayName     string    `json:"display_name"`
	LogoURL         string    `json:"logo_url"`
	BackgroundColor string    `json:"background_color"`
	UserID          string    `json:"user_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateWidgetRequest is the request to create a widget configuration.
type CreateWidgetRequest struct {
	DisplayName     string `json:"display_name"`
	LogoURL         string `json:"logo_url"`
	BackgroundColor string `json:"background_color"`
}

// UpdateWidgetRequest is the request to update a widget configuration. Only
// provided fields are changed.
type UpdateWidgetRequest struct {
	DisplayName     *string `json:"display_name,omitempty"`
	LogoURL         *string `json:"logo_url,omitempty"`
	BackgroundColor *string `json:"background_color,omitempty"`
}
