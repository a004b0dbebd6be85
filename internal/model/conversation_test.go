package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"open", "pending", "resolved", "closed"} {
		status, err := ParseStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, Status(valid), status)
	}

	for _, invalid := range []string{"", "Open", "archived", "CLOSED"} {
		_, err := ParseStatus(invalid)
		assert.Error(t, err, "expected %q to be rejected", invalid)
	}
}

func TestParsePriority(t *testing.T) {
	for _, valid := range []string{"low", "medium", "high", "urgent"} {
		priority, err := ParsePriority(valid)
		require.NoError(t, err)
		assert.Equal(t, Priority(valid), priority)
	}

	_, err := ParsePriority("critical")
	assert.Error(t, err)
}

func TestStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		// Open, pending and resolved move freely, including to themselves.
		{StatusOpen, StatusPending, true},
		{StatusOpen, StatusResolved, true},
		{StatusOpen, StatusOpen, true},
		{StatusPending, StatusOpen, true},
		{StatusPending, StatusResolved, true},
		{StatusResolved, StatusPending, true},
		{StatusResolved, StatusOpen, true},

		// Any status may close.
		{StatusOpen, StatusClosed, true},
		{StatusPending, StatusClosed, true},
		{StatusResolved, StatusClosed, true},

		// Closed only reopens to open.
		{StatusClosed, StatusOpen, true},
		{StatusClosed, StatusPending, false},
		{StatusClosed, StatusResolved, false},
		{StatusClosed, StatusClosed, false},

		// Unknown values never transition.
		{Status("archived"), StatusOpen, false},
		{StatusOpen, Status("archived"), false},
	}

	for _, tt := range tests {
		got := tt.from.CanTransitionTo(tt.to)
		assert.Equal(t, tt.want, got, "%s -> %s", tt.from, tt.to)
	}
}

func TestConversationAddTags(t *testing.T) {
	conv := &Conversation{Tags: []string{}}

	changed := conv.AddTags([]string{"billing", "urgent"})
	assert.True(t, changed)
	assert.Equal(t, []string{"billing", "urgent"}, conv.Tags)

	// Re-adding an existing tag is a no-op.
	changed = conv.AddTags([]string{"billing"})
	assert.False(t, changed)
	assert.Equal(t, []string{"billing", "urgent"}, conv.Tags)

	// Tags are trimmed; empties are dropped.
	changed = conv.AddTags([]string{"  refund  ", "", "   "})
	assert.True(t, changed)
	assert.Equal(t, []string{"billing", "urgent", "refund"}, conv.Tags)
}

func TestConversationRemoveTags(t *testing.T) {
	conv := &Conversation{Tags: []string{"billing", "urgent", "refund"}}

	changed := conv.RemoveTags([]string{"urgent", "missing"})
	assert.True(t, changed)
	assert.Equal(t, []string{"billing", "refund"}, conv.Tags)

	changed = conv.RemoveTags([]string{"missing"})
	assert.False(t, changed)
}

func TestConversationClosed(t *testing.T) {
	conv := &Conversation{Status: StatusOpen}
	assert.False(t, conv.Closed())

	conv.Status = StatusClosed
	assert.True(t, conv.Closed())
}
