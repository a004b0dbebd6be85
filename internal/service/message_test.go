package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-surajtapkeer/voxora/internal/errs"
	"github.com/dev-surajtapkeer/voxora/internal/model"
	"github.com/dev-surajtapkeer/voxora/internal/store"
	"github.com/dev-surajtapkeer/voxora/pkg/logger"
)

// fakeStream is an in-memory MessageStream.
type fakeStream struct {
	messages []model.Message
}

func (f *fakeStream) PublishMessage(_ context.Context, msg *model.Message) (uint64, error) {
	m := *msg
	m.Sequence = uint64(len(f.messages) + 1)
	f.messages = append(f.messages, m)
	return m.Sequence, nil
}

func (f *fakeStream) GetMessages(_ context.Context, _, conversationID string, afterSequence uint64, limit int) ([]model.Message, uint64, bool, error) {
	var out []model.Message
	var last uint64
	more := false
	for _, m := range f.messages {
		if m.ConversationID != conversationID || m.Sequence <= afterSequence {
			continue
		}
		if limit > 0 && len(out) == limit {
			more = true
			break
		}
		out = append(out, m)
		last = m.Sequence
	}
	return out, last, more, nil
}

func newMessageService(t *testing.T) (*MessageService, *ConversationService, *store.Store, *fakeStream) {
	t.Helper()
	st := newTestStore(t)
	stream := &fakeStream{}
	msgs := NewMessageService(stream, st, logger.NewNop())
	convs := NewConversationService(st, nil, logger.NewNop())
	return msgs, convs, st, stream
}

func TestAppendMessage(t *testing.T) {
	msgs, convs, st, _ := newMessageService(t)
	ctx := context.Background()
	conv := createConversation(t, convs)

	before, err := st.GetConversation(ctx, conv.ID)
	require.NoError(t, err)

	msg, err := msgs.Append(ctx, testTenant, conv.ID, "visitor-1", &model.SendMessageRequest{
		Content:    "hello, I need help",
		SenderRole: "visitor",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), msg.Sequence)
	assert.Equal(t, model.SenderVisitor, msg.SenderRole)
	assert.Equal(t, conv.ID, msg.ConversationID)

	// Appending refreshes the conversation's updatedAt.
	after, err := st.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
}

func TestAppendMessageValidation(t *testing.T) {
	msgs, convs, _, _ := newMessageService(t)
	ctx := context.Background()
	conv := createConversation(t, convs)

	var verr *errs.ValidationError

	_, err := msgs.Append(ctx, testTenant, conv.ID, "v", &model.SendMessageRequest{
		Content: "", SenderRole: "visitor",
	})
	assert.ErrorAs(t, err, &verr)

	_, err = msgs.Append(ctx, testTenant, conv.ID, "v", &model.SendMessageRequest{
		Content: strings.Repeat("a", maxMessageLength+1), SenderRole: "visitor",
	})
	assert.ErrorAs(t, err, &verr)

	_, err = msgs.Append(ctx, testTenant, conv.ID, "v", &model.SendMessageRequest{
		Content: "\xff\xfe", SenderRole: "visitor",
	})
	assert.ErrorAs(t, err, &verr)

	_, err = msgs.Append(ctx, testTenant, conv.ID, "v", &model.SendMessageRequest{
		Content: "hi", SenderRole: "robot",
	})
	assert.ErrorAs(t, err, &verr)

	// Messages only append to conversations that exist.
	_, err = msgs.Append(ctx, testTenant, "missing", "v", &model.SendMessageRequest{
		Content: "hi", SenderRole: "visitor",
	})
	assert.True(t, errs.IsNotFound(err))
}

func TestListMessages(t *testing.T) {
	msgs, convs, _, _ := newMessageService(t)
	ctx := context.Background()
	conv := createConversation(t, convs)

	for _, content := range []string{"first", "second", "third"} {
		_, err := msgs.Append(ctx, testTenant, conv.ID, "visitor-1", &model.SendMessageRequest{
			Content: content, SenderRole: "visitor",
		})
		require.NoError(t, err)
	}

	resp, err := msgs.List(ctx, testTenant, conv.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "first", resp.Messages[0].Content)
	assert.True(t, resp.HasMore)
	assert.Equal(t, uint64(2), resp.LastSequence)

	resp, err = msgs.List(ctx, testTenant, conv.ID, resp.LastSequence, 10)
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "third", resp.Messages[0].Content)
	assert.False(t, resp.HasMore)

	_, err = msgs.List(ctx, testTenant, "missing", 0, 10)
	assert.True(t, errs.IsNotFound(err))
}
