package store

import (
	"context"
	"time"

	"github.com/dev-surajtapkeer/voxora/internal/errs"
	"github.com/dev-surajtapkeer/voxora/internal/model"
)

type agentRow struct {
	ID           string `gorm:"primaryKey"`
	Name         string
	Email        string `gorm:"uniqueIndex"`
	Role         string
	Presence     string `gorm:"index"`
	InviteStatus string `gorm:"index"`
	InviteToken  string
	TeamID       *string `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (agentRow) TableName() string { return "agents" }

func toAgentRow(a *model.Agent) *agentRow {
	return &agentRow{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		Role:         string(a.Role),
		Presence:     string(a.Presence),
		InviteStatus: string(a.InviteStatus),
		InviteToken:  a.InviteToken,
		TeamID:       a.TeamID,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (r *agentRow) toModel() model.Agent {
	return model.Agent{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Role:         model.AgentRole(r.Role),
		Presence:     model.Presence(r.Presence),
		InviteStatus: model.InviteStatus(r.InviteStatus),
		InviteToken:  r.InviteToken,
		TeamID:       r.TeamID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// CreateAgent persists a new agent. A duplicate e-mail surfaces as
// ConflictError.
func (s *Store) CreateAgent(ctx context.Context, a *model.Agent) error {
	err := s.db.WithContext(ctx).Create(toAgentRow(a)).Error
	if isDuplicate(err) {
		return errs.Conflict("agent", "email already invited")
	}
	return err
}

// GetAgent retrieves an agent by ID.
func (s *Store) GetAgent(ctx context.Context, id string) (*model.Agent, error) {
	var row agentRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "agent", id)
	}
	a := row.toModel()
	return &a, nil
}

// ListAgents retrieves agents matching the filter, newest first.
func (s *Store) ListAgents(ctx context.Context, f model.AgentFilter) ([]model.Agent, int, error) {
	q := s.db.WithContext(ctx).Model(&agentRow{})
	if f.Role != "" {
		q = q.Where("role = ?", string(f.Role))
	}
	if f.Presence != "" {
		q = q.Where("presence = ?", string(f.Presence))
	}
	if f.InviteStatus != "" {
		q = q.Where("invite_status = ?", string(f.InviteStatus))
	}
	if f.TeamID != "" {
		q = q.Where("team_id = ?", f.TeamID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var rows []agentRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	agents := make([]model.Agent, 0, len(rows))
	for i := range rows {
		agents = append(agents, rows[i].toModel())
	}
	return agents, int(total), nil
}

// UpdateAgent writes an agent back.
func (s *Store) UpdateAgent(ctx context.Context, a *model.Agent) error {
	res := s.db.WithContext(ctx).
		Model(&agentRow{}).
		Where("id = ?", a.ID).
		Select("*").
		Omit("id", "email", "created_at").
		Updates(toAgentRow(a))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("agent", a.ID)
	}
	return nil
}

// DeleteAgent removes an agent.
func (s *Store) DeleteAgent(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&agentRow{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("agent", id)
	}
	return nil
}
