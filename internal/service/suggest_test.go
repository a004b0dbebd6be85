package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-surajtapkeer/voxora/internal/errs"
	"github.com/dev-surajtapkeer/voxora/internal/llm"
	"github.com/dev-surajtapkeer/voxora/internal/model"
	"github.com/dev-surajtapkeer/voxora/pkg/logger"
)

// fakeLLM returns a canned completion and records the last prompt.
type fakeLLM struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeLLM) Complete(_ context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(req.Messages) > 0 {
		f.prompt = req.Messages[0].Content
	}
	return &llm.CompletionResponse{Content: f.reply, Model: "test-model"}, nil
}

func (f *fakeLLM) Name() string { return "fake" }

func TestSuggestReply(t *testing.T) {
	st := newTestStore(t)
	stream := &fakeStream{}
	convs := NewConversationService(st, nil, logger.NewNop())
	msgs := NewMessageService(stream, st, logger.NewNop())
	client := &fakeLLM{reply: "  Thanks for reaching out, let me check that for you.  "}
	svc := NewSuggestionService(client, stream, st, logger.NewNop())
	ctx := context.Background()

	conv := createConversation(t, convs)
	_, err := msgs.Append(ctx, testTenant, conv.ID, "visitor-1", &model.SendMessageRequest{
		Content: "my password reset link is broken", SenderRole: "visitor",
	})
	require.NoError(t, err)

	resp, err := svc.Suggest(ctx, testTenant, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Thanks for reaching out, let me check that for you.", resp.Suggestion)
	assert.Equal(t, "fake", resp.Provider)
	assert.Equal(t, "test-model", resp.Model)

	// The prompt carries the conversation context.
	assert.True(t, strings.Contains(client.prompt, "cannot log in"))
	assert.True(t, strings.Contains(client.prompt, "my password reset link is broken"))
}

func TestSuggestReplyDisabled(t *testing.T) {
	st := newTestStore(t)
	svc := NewSuggestionService(nil, &fakeStream{}, st, logger.NewNop())

	_, err := svc.Suggest(context.Background(), testTenant, "any")
	assert.ErrorIs(t, err, ErrSuggestionsDisabled)
}

func TestSuggestReplyErrors(t *testing.T) {
	st := newTestStore(t)
	stream := &fakeStream{}
	convs := NewConversationService(st, nil, logger.NewNop())
	svc := NewSuggestionService(&fakeLLM{err: errors.New("rate limited")}, stream, st, logger.NewNop())
	ctx := context.Background()

	_, err := svc.Suggest(ctx, testTenant, "missing")
	assert.True(t, errs.IsNotFound(err))

	conv := createConversation(t, convs)
	_, err = svc.Suggest(ctx, testTenant, conv.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "suggestion failed")
}
