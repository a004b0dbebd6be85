package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dev-surajtapkeer/voxora/internal/errs"
	"github.com/dev-surajtapkeer/voxora/internal/model"
	"github.com/dev-surajtapkeer/voxora/internal/store"
	"github.com/dev-surajtapkeer/voxora/pkg/logger"
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AdminService handles team and agent administration.
type AdminService struct {
	store  *store.Store
	events Publisher
	logger *logger.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(st *store.Store, events Publisher, log *logger.Logger) *AdminService {
	return &AdminService{
		store:  st,
		events: events,
		logger: log,
	}
}

// CreateTeam creates a team. The color defaults when omitted; the name is
// fixed for the lifetime of the team.
func (s *AdminService) CreateTeam(ctx context.Context, req *model.CreateTeamRequest) (*model.Team, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.Validation("name", "is required")
	}
	if len(name) > 100 {
		return nil, errs.Validation("name", "exceeds maximum length")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, errs.Validation("description", "is required")
	}

	color := req.Color
	if color == "" {
		color = model.DefaultTeamColor
	}
	if !hexColorRe.MatchString(color) {
		return nil, errs.Validation("color", "must be a #rrggbb hex color")
	}

	now := time.Now().UTC()
	team := &model.Team{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Name:        name,
		Description: req.Description,
		Color:       color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateTeam(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// GetTeam retrieves a team by ID.
func (s *AdminService) GetTeam(ctx context.Context, id string) (*model.Team, error) {
	return s.store.GetTeam(ctx, id)
}

// ListTeams retrieves teams in insertion order.
func (s *AdminService) ListTeams(ctx context.Context, limit, offset int) (*model.ListTeamsResponse, error) {
	teams, total, err := s.store.ListTeams(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &model.ListTeamsResponse{
		Teams:   teams,
		Total:   total,
		HasMore: offset+len(teams) < total,
	}, nil
}

// UpdateTeam updates a team's description and color.
func (s *AdminService) UpdateTeam(ctx context.Context, id string, req *model.UpdateTeamRequest) (*model.Team, error) {
	team, err := s.store.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, errs.Validation("description", "is required")
		}
		team.Description = *req.Description
	}
	if req.Color != nil {
		if !hexColorRe.MatchString(*req.Color) {
			return nil, errs.Validation("color", "must be a #rrggbb hex color")
		}
		team.Color = *req.Color
	}
	team.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateTeam(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// DeleteTeam deletes a team and detaches its agents.
func (s *AdminService) DeleteTeam(ctx context.Context, id string) error {
	return s.store.DeleteTeam(ctx, id)
}

// InviteAgent creates a pending agent and publishes an invite event.
// Delivery of the invitation e-mail belongs to an external collaborator
// consuming the event stream.
func (s *AdminService) InviteAgent(ctx context.Context, tenantID string, req *model.InviteAgentRequest) (*model.Agent, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errs.Validation("name", "is required")
	}
	if !emailRe.MatchString(req.Email) {
		return nil, errs.Validation("email", "must be a valid address")
	}

	role := model.RoleAgent
	if req.Role != "" {
		parsed, err := model.ParseAgentRole(req.Role)
		if err != nil {
			return nil, errs.Validation("role", err.Error())
		}
		role = parsed
	}

	var teamID *string
	if req.TeamID != "" {
		if _, err := s.store.GetTeam(ctx, req.TeamID); err != nil {
			return nil, err
		}
		teamID = &req.TeamID
	}

	now := time.Now().UTC()
	agent := &model.Agent{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(req.Email),
		Role:         role,
		Presence:     model.PresenceOffline,
		InviteStatus: model.InvitePending,
		InviteToken:  uuid.New().String(),
		TeamID:       teamID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateAgent(ctx, agent); err != nil {
		return nil, err
	}

	s.publishInvite(ctx, tenantID, agent)
	s.logger.Info("agent invited",
		zap.String("agent_id", agent.ID),
		zap.String("email", agent.Email),
	)

	return agent, nil
}

// GetAgent retrieves an agent by ID.
func (s *AdminService) GetAgent(ctx context.Context, id string) (*model.Agent, error) {
	return s.store.GetAgent(ctx, id)
}

// ListAgents retrieves agents matching the filter.
func (s *AdminService) ListAgents(ctx context.Context, f model.AgentFilter) (*model.ListAgentsResponse, error) {
	agents, total, err := s.store.ListAgents(ctx, f)
	if err != nil {
		return nil, err
	}
	return &model.ListAgentsResponse{
		Agents:  agents,
		Total:   total,
		HasMore: f.Offset+len(agents) < total,
	}, nil
}

// UpdateAgent updates an agent. Only provided fields change.
func (s *AdminService) UpdateAgent(ctx context.Context, id string, req *model.UpdateAgentRequest) (*model.Agent, error) {
	agent, err := s.store.GetAgent(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, errs.Validation("name", "is required")
		}
		agent.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		role, err := model.ParseAgentRole(*req.Role)
		if err != nil {
			return nil, errs.Validation("role", err.Error())
		}
		agent.Role = role
	}
	if req.Presence != nil {
		presence, err := model.ParsePresence(*req.Presence)
		if err != nil {
			return nil, errs.Validation("presence", err.Error())
		}
		agent.Presence = presence
	}
	if req.TeamID != nil {
		if *req.TeamID == "" {
			agent.TeamID = nil
		} else {
			if _, err := s.store.GetTeam(ctx, *req.TeamID); err != nil {
				return nil, err
			}
			agent.TeamID = req.TeamID
		}
	}
	agent.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateAgent(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

// DeleteAgent removes an agent.
func (s *AdminService) DeleteAgent(ctx context.Context, id string) error {
	return s.store.DeleteAgent(ctx, id)
}

// ResendInvite rotates the invite token of a pending agent and republishes
// the invite event. Inviting an agent who already accepted conflicts.
func (s *AdminService) ResendInvite(ctx context.Context, tenantID, id string) (*model.Agent, error) {
	agent, err := s.store.GetAgent(ctx, id)
	if err != nil {
		return nil, err
	}
	if agent.InviteStatus == model.InviteAccepted {
		return nil, errs.Conflict("agent", "invitation already accepted")
	}

	agent.InviteToken = uuid.New().String()
	agent.InviteStatus = model.InvitePending
	agent.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateAgent(ctx, agent); err != nil {
		return nil, err
	}

	s.publishInvite(ctx, tenantID, agent)
	return agent, nil
}

func (s *AdminService) publishInvite(ctx context.Context, tenantID string, agent *model.Agent) {
	if s.events == nil {
		return
	}
	event := &model.Event{
		ID:        uuid.Must(uuid.NewV7()).String(),
		TenantID:  tenantID,
		Type:      model.EventAgentInvited,
		AgentID:   agent.ID,
		CreatedAt: time.Now().UTC(),
		Payload: map[string]string{
			"email": agent.Email,
			"name":  agent.Name,
			"token": agent.InviteToken,
		},
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish invite event",
			zap.String("agent_id", agent.ID),
			zap.Error(err),
		)
	}
}
