package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dev-surajtapkeer/voxora/internal/model"
	"github.com/dev-surajtapkeer/voxora/internal/store"
	"github.com/dev-surajtapkeer/voxora/pkg/logger"
)

const testTenant = "tenant-1"

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// capturePublisher records published events, or fails every publish when err
// is set.
type capturePublisher struct {
	events []*model.Event
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, event *model.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) types() []model.EventType {
	out := make([]model.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func newAgent(t *testing.T, st *store.Store, email string) *model.Agent {
	t.Helper()
	svc := NewAdminService(st, nil, logger.NewNop())
	agent, err := svc.InviteAgent(context.Background(), testTenant, &model.InviteAgentRequest{
		Name:  "Test Agent",
		Email: email,
	})
	require.NoError(t, err)
	return agent
}

func strPtr(s string) *string { return &s }
