package service

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dev-surajtapkeer/voxora/internal/errs"
	"github.com/dev-surajtapkeer/voxora/internal/model"
	"github.com/dev-surajtapkeer/voxora/internal/store"
	"github.com/dev-surajtapkeer/voxora/pkg/logger"
	"github.com/dev-surajtapkeer/voxora/pkg/metrics"
)

// maxMessageLength bounds message content (~100KB).
const maxMessageLength = 100000

// MessageStream persists and reads the append-only message log of a
// conversation.
type MessageStream interface {
	PublishMessage(ctx context.Context, msg *model.Message) (uint64, error)
	GetMessages(ctx context.Context, tenantID, conversationID string, afterSequence uint64, limit int) ([]model.Message, uint64, bool, error)
}

// MessageService handles conversation messages.
type MessageService struct {
	stream MessageStream
	store  *store.Store
	logger *logger.Logger
}

// NewMessageService creates a new message service.
func NewMessageService(stream MessageStream, st *store.Store, log *logger.Logger) *MessageService {
	return &MessageService{
		stream: stream,
		store:  st,
		logger: log,
	}
}

// Append appends a message to an existing conversation's stream and
// refreshes the conversation's updatedAt.
func (s *MessageService) Append(ctx context.Context, tenantID, conversationID, senderID string, req *model.SendMessageRequest) (*model.Message, error) {
	if req.Content == "" {
		return nil, errs.Validation("content", "cannot be empty")
	}
	if len(req.Content) > maxMessageLength {
		return nil, errs.Validation("content", "exceeds maximum length")
	}
	if !utf8.ValidString(req.Content) {
		return nil, errs.Validation("content", "must be valid UTF-8")
	}

	role, ok := model.ParseSenderRole(req.SenderRole)
	if !ok {
		return nil, errs.Validation("sender_role", "must be visitor, agent or system")
	}

	if _, err := s.store.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	msg := &model.Message{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conversationID,
		TenantID:       tenantID,
		SenderID:       senderID,
		SenderRole:     role,
		Content:        req.Content,
		CreatedAt:      now,
	}

	seq, err := s.stream.PublishMessage(ctx, msg)
	if err != nil {
		return nil, err
	}
	msg.Sequence = seq

	if err := s.store.TouchConversation(ctx, conversationID, now); err != nil {
		return nil, err
	}

	metrics.MessagesTotal.WithLabelValues(tenantID, string(role)).Inc()
	return msg, nil
}

// List retrieves conversation messages after the given sequence.
func (s *MessageService) List(ctx context.Context, tenantID, conversationID string, afterSequence uint64, limit int) (*model.ListMessagesResponse, error) {
	if _, err := s.store.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}

	messages, lastSeq, hasMore, err := s.stream.GetMessages(ctx, tenantID, conversationID, afterSequence, limit)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []model.Message{}
	}

	return &model.ListMessagesResponse{
		Messages:     messages,
		HasMore:      hasMore,
		LastSequence: lastSeq,
	}, nil
}
