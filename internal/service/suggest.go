package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dev-surajtapkeer/voxora/internal/llm"
	"github.com/dev-surajtapkeer/voxora/internal/model"
	"github.com/dev-surajtapkeer/voxora/internal/store"
	"github.com/dev-surajtapkeer/voxora/pkg/logger"
	"github.com/dev-surajtapkeer/voxora/pkg/metrics"
)

// ErrSuggestionsDisabled is returned when no LLM provider is configured.
var ErrSuggestionsDisabled = errors.New("reply suggestions are not configured")

// suggestionContext bounds how many recent messages feed the prompt.
const suggestionContext = 10

// SuggestionService drafts agent replies with an LLM. The suggestion is
// advisory only; nothing is written to the conversation.
type SuggestionService struct {
	llm    llm.Client
	stream MessageStream
	store  *store.Store
	logger *logger.Logger
}

// NewSuggestionService creates a new suggestion service. A nil client
// disables suggestions.
func NewSuggestionService(client llm.Client, stream MessageStream, st *store.Store, log *logger.Logger) *SuggestionService {
	return &SuggestionService{
		llm:    client,
		stream: stream,
		store:  st,
		logger: log,
	}
}

// Suggest drafts a reply for the agent handling the conversation.
func (s *SuggestionService) Suggest(ctx context.Context, tenantID, conversationID string) (*model.SuggestReplyResponse, error) {
	if s.llm == nil {
		return nil, ErrSuggestionsDisabled
	}

	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	history, _, _, err := s.stream.GetMessages(ctx, tenantID, conversationID, 0, suggestionContext)
	if err != nil {
		return nil, err
	}

	messages := []llm.ChatMessage{{
		Role:    "user",
		Content: buildSuggestionPrompt(conv, history),
	}}

	start := time.Now()
	resp, err := s.llm.Complete(ctx, &llm.CompletionRequest{
		Messages:    messages,
		MaxTokens:   512,
		Temperature: 0.3,
	})
	if err != nil {
		metrics.SuggestionDuration.WithLabelValues(s.llm.Name(), "error").Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("suggestion failed: %w", err)
	}
	metrics.SuggestionDuration.WithLabelValues(s.llm.Name(), "ok").Observe(time.Since(start).Seconds())

	return &model.SuggestReplyResponse{
		Suggestion: strings.TrimSpace(resp.Content),
		Provider:   s.llm.Name(),
		Model:      resp.Model,
	}, nil
}

func buildSuggestionPrompt(conv *model.Conversation, history []model.Message) string {
	var b strings.Builder
	b.WriteString("You are a customer support agent. Draft a concise, helpful reply to the customer below. Reply with the message text only.\n\n")
	if conv.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", conv.Subject)
	}
	if len(conv.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(conv.Tags, ", "))
	}
	b.WriteString("\nRecent messages:\n")
	for _, msg := range history {
		fmt.Fprintf(&b, "[%s] %s\n", msg.SenderRole, msg.Content)
	}
	return b.String()
}
