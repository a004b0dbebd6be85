package store

import (
	"context"
	"time"

	"github.com/dev-surajtapkeer/voxora/internal/errs"
	"github.com/dev-surajtapkeer/voxora/internal/model"
)

type teamRow struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"size:100;uniqueIndex"`
	Description string
	Color       string `gorm:"size:7"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (teamRow) TableName() string { return "teams" }

func toTeamRow(t *model.Team) *teamRow {
	return &teamRow{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Color:       t.Color,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (r *teamRow) toModel() model.Team {
	return model.Team{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// CreateTeam persists a new team. A duplicate name surfaces as ConflictError.
func (s *Store) CreateTeam(ctx context.Context, t *model.Team) error {
	err := s.db.WithContext(ctx).Create(toTeamRow(t)).Error
	if isDuplicate(err) {
		return errs.Conflict("team", "name already in use")
	}
	return err
}

// GetTeam retrieves a team by ID.
func (s *Store) GetTeam(ctx context.Context, id string) (*model.Team, error) {
	var row teamRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "team", id)
	}
	t := row.toModel()
	return &t, nil
}

// ListTeams retrieves teams in insertion order.
func (s *Store) ListTeams(ctx context.Context, limit, offset int) ([]model.Team, int, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&teamRow{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := s.db.WithContext(ctx).Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	var rows []teamRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	teams := make([]model.Team, 0, len(rows))
	for i := range rows {
		teams = append(teams, rows[i].toModel())
	}
	return teams, int(total), nil
}

// UpdateTeam writes a team back.
func (s *Store) UpdateTeam(ctx context.Context, t *model.Team) error {
	res := s.db.WithContext(ctx).
		Model(&teamRow{}).
		Where("id = ?", t.ID).
		Select("description", "color", "updated_at").
		Updates(toTeamRow(t))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("team", t.ID)
	}
	return nil
}

// DeleteTeam removes a team and detaches its agents.
func (s *Store) DeleteTeam(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&teamRow{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("team", id)
	}
	return s.db.WithContext(ctx).Model(&agentRow{}).
		Where("team_id = ?", id).
		Update("team_id", nil).Error
}
