package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-surajtapkeer/voxora/internal/errs"
	"github.com/dev-surajtapkeer/voxora/internal/model"
	"github.com/dev-surajtapkeer/voxora/internal/store"
	"github.com/dev-surajtapkeer/voxora/pkg/logger"
)

func newAdminService(t *testing.T) (*AdminService, *store.Store, *capturePublisher) {
	t.Helper()
	st := newTestStore(t)
	events := &capturePublisher{}
	return NewAdminService(st, events, logger.NewNop()), st, events
}

func TestCreateTeam(t *testing.T) {
	svc, _, _ := newAdminService(t)
	ctx := context.Background()

	team, err := svc.CreateTeam(ctx, &model.CreateTeamRequest{
		Name:        "  Support  ",
		Description: "first line support",
	})
	require.NoError(t, err)
	assert.Equal(t, "Support", team.Name)
	assert.Equal(t, model.DefaultTeamColor, team.Color)

	got, err := svc.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, team.Name, got.Name)

	// Team names are unique.
	_, err = svc.CreateTeam(ctx, &model.CreateTeamRequest{
		Name:        "Support",
		Description: "duplicate",
	})
	assert.True(t, errs.IsConflict(err))
}

func TestCreateTeamValidation(t *testing.T) {
	svc, _, _ := newAdminService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *model.CreateTeamRequest
	}{
		{"empty name", &model.CreateTeamRequest{Description: "d"}},
		{"blank name", &model.CreateTeamRequest{Name: "   ", Description: "d"}},
		{"empty description", &model.CreateTeamRequest{Name: "Sales"}},
		{"bad color", &model.CreateTeamRequest{Name: "Sales", Description: "d", Color: "blue"}},
		{"short hex", &model.CreateTeamRequest{Name: "Sales", Description: "d", Color: "#fff"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTeam(ctx, tt.req)
			var verr *errs.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestUpdateTeam(t *testing.T) {
	svc, _, _ := newAdminService(t)
	ctx := context.Background()

	team, err := svc.CreateTeam(ctx, &model.CreateTeamRequest{
		Name:        "Billing",
		Description: "billing questions",
	})
	require.NoError(t, err)

	got, err := svc.UpdateTeam(ctx, team.ID, &model.UpdateTeamRequest{
		Description: strPtr("billing and refunds"),
		Color:       strPtr("#ff0000"),
	})
	require.NoError(t, err)
	assert.Equal(t, "billing and refunds", got.Description)
	assert.Equal(t, "#ff0000", got.Color)
	assert.Equal(t, "Billing", got.Name)

	// Omitted fields stay put.
	got, err = svc.UpdateTeam(ctx, team.ID, &model.UpdateTeamRequest{
		Color: strPtr("#00ff00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "billing and refunds", got.Description)
	assert.Equal(t, "#00ff00", got.Color)

	_, err = svc.UpdateTeam(ctx, "missing", &model.UpdateTeamRequest{})
	assert.True(t, errs.IsNotFound(err))
}

func TestInviteAgent(t *testing.T) {
	svc, _, events := newAdminService(t)
	ctx := context.Background()

	team, err := svc.CreateTeam(ctx, &model.CreateTeamRequest{
		Name:        "Support",
		Description: "d",
	})
	require.NoError(t, err)

	agent, err := svc.InviteAgent(ctx, testTenant, &model.InviteAgentRequest{
		Name:   "Alice",
		Email:  "Alice@Example.com",
		TeamID: team.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", agent.Email)
	assert.Equal(t, model.RoleAgent, agent.Role)
	assert.Equal(t, model.PresenceOffline, agent.Presence)
	assert.Equal(t, model.InvitePending, agent.InviteStatus)
	assert.NotEmpty(t, agent.InviteToken)
	require.NotNil(t, agent.TeamID)
	assert.Equal(t, team.ID, *agent.TeamID)

	// The invite event carries what a mailer needs.
	require.Len(t, events.events, 1)
	evt := events.events[0]
	assert.Equal(t, model.EventAgentInvited, evt.Type)
	assert.Equal(t, agent.ID, evt.AgentID)
	assert.Equal(t, agent.Email, evt.Payload["email"])
	assert.Equal(t, agent.InviteToken, evt.Payload["token"])

	// Duplicate e-mail conflicts.
	_, err = svc.InviteAgent(ctx, testTenant, &model.InviteAgentRequest{
		Name:  "Alice Again",
		Email: "alice@example.com",
	})
	assert.True(t, errs.IsConflict(err))
}

func TestInviteAgentValidation(t *testing.T) {
	svc, _, _ := newAdminService(t)
	ctx := context.Background()

	var verr *errs.ValidationError

	_, err := svc.InviteAgent(ctx, testTenant, &model.InviteAgentRequest{Email: "a@b.co"})
	assert.ErrorAs(t, err, &verr)

	_, err = svc.InviteAgent(ctx, testTenant, &model.InviteAgentRequest{Name: "A", Email: "not-an-email"})
	assert.ErrorAs(t, err, &verr)

	_, err = svc.InviteAgent(ctx, testTenant, &model.InviteAgentRequest{Name: "A", Email: "a@b.co", Role: "owner"})
	assert.ErrorAs(t, err, &verr)

	// Unknown team rejects the invite outright.
	_, err = svc.InviteAgent(ctx, testTenant, &model.InviteAgentRequest{Name: "A", Email: "a@b.co", TeamID: "missing"})
	assert.True(t, errs.IsNotFound(err))
}

func TestResendInvite(t *testing.T) {
	svc, st, events := newAdminService(t)
	ctx := context.Background()

	agent, err := svc.InviteAgent(ctx, testTenant, &model.InviteAgentRequest{
		Name:  "Bob",
		Email: "bob@example.com",
	})
	require.NoError(t, err)
	original := agent.InviteToken

	resent, err := svc.ResendInvite(ctx, testTenant, agent.ID)
	require.NoError(t, err)
	assert.NotEqual(t, original, resent.InviteToken)
	assert.Equal(t, model.InvitePending, resent.InviteStatus)
	assert.Len(t, events.events, 2)

	// Once accepted, resending conflicts.
	resent.InviteStatus = model.InviteAccepted
	require.NoError(t, st.UpdateAgent(ctx, resent))
	_, err = svc.ResendInvite(ctx, testTenant, agent.ID)
	assert.True(t, errs.IsConflict(err))

	_, err = svc.ResendInvite(ctx, testTenant, "missing")
	assert.True(t, errs.IsNotFound(err))
}

func TestUpdateAgent(t *testing.T) {
	svc, _, _ := newAdminService(t)
	ctx := context.Background()

	team, err := svc.CreateTeam(ctx, &model.CreateTeamRequest{Name: "Support", Description: "d"})
	require.NoError(t, err)

	agent, err := svc.InviteAgent(ctx, testTenant, &model.InviteAgentRequest{
		Name:   "Carol",
		Email:  "carol@example.com",
		TeamID: team.ID,
	})
	require.NoError(t, err)

	got, err := svc.UpdateAgent(ctx, agent.ID, &model.UpdateAgentRequest{
		Presence: strPtr("online"),
		Role:     strPtr("admin"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.PresenceOnline, got.Presence)
	assert.Equal(t, model.RoleAdmin, got.Role)
	assert.Equal(t, "Carol", got.Name)

	// Empty team ID detaches the agent.
	got, err = svc.UpdateAgent(ctx, agent.ID, &model.UpdateAgentRequest{TeamID: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, got.TeamID)

	_, err = svc.UpdateAgent(ctx, agent.ID, &model.UpdateAgentRequest{Presence: strPtr("busy")})
	var verr *errs.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.UpdateAgent(ctx, agent.ID, &model.UpdateAgentRequest{TeamID: strPtr("missing")})
	assert.True(t, errs.IsNotFound(err))
}

func TestDeleteTeamDetachesAgents(t *testing.T) {
	svc, _, _ := newAdminService(t)
	ctx := context.Background()

	team, err := svc.CreateTeam(ctx, &model.CreateTeamRequest{Name: "Support", Description: "d"})
	require.NoError(t, err)
	agent, err := svc.InviteAgent(ctx, testTenant, &model.InviteAgentRequest{
		Name:   "Dave",
		Email:  "dave@example.com",
		TeamID: team.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTeam(ctx, team.ID))

	_, err = svc.GetTeam(ctx, team.ID)
	assert.True(t, errs.IsNotFound(err))

	got, err := svc.GetAgent(ctx, agent.ID)
	require.NoError(t, err)
	assert.Nil(t, got.TeamID)

	assert.True(t, errs.IsNotFound(svc.DeleteTeam(ctx, "missing")))
}

func TestListAgentsFilter(t *testing.T) {
	svc, _, _ := newAdminService(t)
	ctx := context.Background()

	a, err := svc.InviteAgent(ctx, testTenant, &model.InviteAgentRequest{
		Name: "Erin", Email: "erin@example.com", Role: "admin",
	})
	require.NoError(t, err)
	_, err = svc.InviteAgent(ctx, testTenant, &model.InviteAgentRequest{
		Name: "Frank", Email: "frank@example.com",
	})
	require.NoError(t, err)

	resp, err := svc.ListAgents(ctx, model.AgentFilter{Role: model.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, a.ID, resp.Agents[0].ID)

	resp, err = svc.ListAgents(ctx, model.AgentFilter{InviteStatus: model.InvitePending})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
}
