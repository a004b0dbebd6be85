// Package service provides business logic for the support platform.
package service

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dev-surajtapkeer/voxora/internal/errs"
	"github.com/dev-surajtapkeer/voxora/internal/model"
	"github.com/dev-surajtapkeer/voxora/internal/store"
	"github.com/dev-surajtapkeer/voxora/pkg/logger"
	"github.com/dev-surajtapkeer/voxora/pkg/metrics"
)

// Publisher publishes lifecycle events for external collaborators.
type Publisher interface {
	Publish(ctx context.Context, event *model.Event) error
}

// ConversationService enforces the conversation lifecycle: status, priority,
// assignment and tag transitions.
type ConversationService struct {
	store  *store.Store
	events Publisher
	logger *logger.Logger
}

// NewConversationService creates a new conversation service.
func NewConversationService(st *store.Store, events Publisher, log *logger.Logger) *ConversationService {
	return &ConversationService{
		store:  st,
		events: events,
		logger: log,
	}
}

// Create creates a new conversation with status open and priority medium.
func (s *ConversationService) Create(ctx context.Context, tenantID string, req *model.CreateConversationRequest) (*model.Conversation, error) {
	participants := dedupe(req.Participants)
	if len(participants) == 0 {
		return nil, errs.Validation("participants", "at least one participant is required")
	}
	if utf8.RuneCountInString(req.Subject) > model.MaxSubjectLength {
		return nil, errs.Validation("subject", "exceeds maximum length")
	}

	now := time.Now().UTC()
	conv := &model.Conversation{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Participants: participants,
		Subject:      req.Subject,
		Status:       model.StatusOpen,
		Priority:     model.PriorityMedium,
		Tags:         []string{},
		CreatedBy:    req.CreatedBy,
		Metadata:     req.Metadata,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
	}

	if err := s.store.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}

	metrics.ConversationsCreated.WithLabelValues(tenantID).Inc()
	s.publish(ctx, &model.Event{
		TenantID:       tenantID,
		Type:           model.EventConversationCreated,
		ConversationID: conv.ID,
		Actor:          req.CreatedBy,
	})

	s.logger.Info("conversation created",
		zap.String("conversation_id", conv.ID),
		zap.String("tenant_id", tenantID),
	)

	return conv, nil
}

// Get retrieves a conversation by ID.
func (s *ConversationService) Get(ctx context.Context, id string) (*model.Conversation, error) {
	return s.store.GetConversation(ctx, id)
}

// List retrieves conversations matching the filter.
func (s *ConversationService) List(ctx context.Context, f model.ConversationFilter) (*model.ListConversationsResponse, error) {
	convs, total, err := s.store.ListConversations(ctx, f)
	if err != nil {
		return nil, err
	}
	return &model.ListConversationsResponse{
		Conversations: convs,
		Total:         total,
		HasMore:       f.Offset+len(convs) < total,
	}, nil
}

// Assign assigns a conversation to an agent. Reassignment overwrites; closed
// conversations cannot be assigned.
func (s *ConversationService) Assign(ctx context.Context, tenantID, conversationID, agentID, actor string) (*model.Conversation, error) {
	if _, err := s.store.GetAgent(ctx, agentID); err != nil {
		return nil, err
	}

	conv, err := s.mutate(ctx, conversationID, func(c *model.Conversation) error {
		if c.Closed() {
			return errs.Conflict("conversation", "closed conversations cannot be assigned")
		}
		c.AssignedTo = &agentID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &model.Event{
		TenantID:       tenantID,
		Type:           model.EventConversationAssigned,
		ConversationID: conv.ID,
		AgentID:        agentID,
		Actor:          actor,
	})

	return conv, nil
}

// SetStatus transitions a conversation's status. Closing stamps closedAt and
// closedBy together; reopening clears both. A closed conversation can only
// move back to open.
func (s *ConversationService) SetStatus(ctx context.Context, tenantID, conversationID string, next model.Status, actor string) (*model.Conversation, error) {
	var from model.Status

	conv, err := s.mutate(ctx, conversationID, func(c *model.Conversation) error {
		from = c.Status
		if !c.Status.CanTransitionTo(next) {
			return &errs.InvalidTransitionError{From: string(c.Status), To: string(next)}
		}

		c.Status = next
		switch {
		case next == model.StatusClosed:
			now := time.Now().UTC()
			c.ClosedAt = &now
			c.ClosedBy = &actor
		case from == model.StatusClosed:
			// Reopening: the closed pair clears as one unit.
			c.ClosedAt = nil
			c.ClosedBy = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTransition(string(from), string(next))
	s.publish(ctx, &model.Event{
		TenantID:       tenantID,
		Type:           model.EventStatusChanged,
		ConversationID: conv.ID,
		Actor:          actor,
		Payload: map[string]string{
			"from": string(from),
			"to":   string(next),
		},
	})

	return conv, nil
}

// SetPriority changes a conversation's priority. Allowed in any status and
// idempotent.
func (s *ConversationService) SetPriority(ctx context.Context, tenantID, conversationID string, priority model.Priority, actor string) (*model.Conversation, error) {
	conv, err := s.mutate(ctx, conversationID, func(c *model.Conversation) error {
		c.Priority = priority
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &model.Event{
		TenantID:       tenantID,
		Type:           model.EventPriorityChanged,
		ConversationID: conv.ID,
		Actor:          actor,
		Payload:        map[string]string{"priority": string(priority)},
	})

	return conv, nil
}

// Tag adds tags to a conversation. Duplicates and empty strings are ignored;
// a call that changes nothing publishes nothing.
func (s *ConversationService) Tag(ctx context.Context, tenantID, conversationID string, tags []string, actor string) (*model.Conversation, error) {
	var changed bool
	conv, err := s.mutate(ctx, conversationID, func(c *model.Conversation) error {
		changed = c.AddTags(tags)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.publish(ctx, &model.Event{
			TenantID:       tenantID,
			Type:           model.EventConversationTagged,
			ConversationID: conv.ID,
			Actor:          actor,
		})
	}

	return conv, nil
}

// Untag removes tags from a conversation. Absent tags are ignored; a call
// that changes nothing publishes nothing.
func (s *ConversationService) Untag(ctx context.Context, tenantID, conversationID string, tags []string, actor string) (*model.Conversation, error) {
	var changed bool
	conv, err := s.mutate(ctx, conversationID, func(c *model.Conversation) error {
		changed = c.RemoveTags(tags)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.publish(ctx, &model.Event{
			TenantID:       tenantID,
			Type:           model.EventConversationTagged,
			ConversationID: conv.ID,
			Actor:          actor,
		})
	}

	return conv, nil
}

// mutate runs a read-modify-write on a conversation guarded by the record
// version, so concurrent transitions serialize per conversation. A single
// lost race is retried once with fresh state.
func (s *ConversationService) mutate(ctx context.Context, id string, fn func(*model.Conversation) error) (*model.Conversation, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		conv, err := s.store.GetConversation(ctx, id)
		if err != nil {
			return nil, err
		}

		expected := conv.Version
		if err := fn(conv); err != nil {
			return nil, err
		}

		conv.UpdatedAt = time.Now().UTC()
		conv.Version = expected + 1

		lastErr = s.store.UpdateConversation(ctx, conv, expected)
		if lastErr == nil {
			return conv, nil
		}
		if !errs.IsConflict(lastErr) {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// publish sends a lifecycle event. Delivery is best effort: a publish
// failure is logged and counted, never surfaced to the mutation's caller.
func (s *ConversationService) publish(ctx context.Context, event *model.Event) {
	event.ID = uuid.Must(uuid.NewV7()).String()
	event.CreatedAt = time.Now().UTC()

	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		metrics.RecordEvent(string(event.Type), "error")
		s.logger.Warn("failed to publish event",
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
		return
	}
	metrics.RecordEvent(string(event.Type), "ok")
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
