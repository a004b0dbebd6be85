package model

import "time"

// SenderRole represents who authored a message.
type SenderRole string

const (
	SenderVisitor SenderRole = "visitor"
	SenderAgent   SenderRole = "agent"
	SenderSystem  SenderRole = "system"
)

// ParseSenderRole parses a sender role string into a SenderRole.
func ParseSenderRole(s string) (SenderRole, bool) {
	switch SenderRole(s) {
	case SenderVisitor, SenderAgent, SenderSystem:
		return SenderRole(s), true
	}
	return "", false
}

// Message represents a single message in a conversation thread.
type Message struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversation_id"`
	TenantID       string     `json:"tenant_id"`
	SenderID       string     `json:"sender_id"`
	SenderRole     SenderRole `json:"sender_role"`
	Content        string     `json:"content"`
	CreatedAt      time.Time  `json:"created_at"`

	// Sequence is the stream sequence, populated on read.
	Sequence uint64 `json:"sequence,omitempty"`
}

// SendMessageRequest is the request to append a message to a conversation.
type SendMessageRequest struct {
	Content    string `json:"content"`
	SenderRole string `json:"sender_role"`
}

// ListMessagesResponse is the response for listing conversation messages.
type ListMessagesResponse struct {
	Messages     []Message `json:"messages"`
	HasMore      bool      `json:"has_more"`
	LastSequence uint64    `json:"last_sequence"`
}

// SuggestReplyResponse carries an LLM-drafted reply for an agent to review.
type SuggestReplyResponse struct {
	Suggestion string `json:"suggestion"`
	Provider   string `json:"provider"`
	Model      string `json:"model"`
}
