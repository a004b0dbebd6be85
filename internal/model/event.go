package model

import "time"

// EventType represents the type of a lifecycle event.
type EventType string

const (
	EventConversationCreated  EventType = "conversation.created"
	EventConversationAssigned EventType = "conversation.assigned"
	EventStatusChanged        EventType = "conversation.status_changed"
	EventPriorityChanged      EventType = "conversation.priority_changed"
	EventConversationTagged   EventType = "conversation.tagged"
	EventAgentInvited         EventType = "agent.invited"
)

// Event is the envelope published for every lifecycle mutation. External
// collaborators (notifications, real-time gateways) consume these; the core
// never blocks on delivery.
type Event struct {
	ID             string            `json:"id"`
	TenantID       string            `json:"tenant_id"`
	Type           EventType         `json:"type"`
	ConversationID string            `json:"conversation_id,omitempty"`
	AgentID        string            `json:"agent_id,omitempty"`
	Actor          string            `json:"actor,omitempty"`
	Payload        map[string]string `json:"payload,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}
