package store

import (
	"context"
	"time"

	"github.com/dev-surajtapkeer/voxora/internal/errs"
	"github.com/dev-surajtapkeer/voxora/internal/model"
)

type widgetRow struct {
	ID              string `gorm:"primaryKey"`
	DisplayName     string
	LogoURL         string
	BackgroundColor string
	UserID          string `gorm:"uniqueIndex"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (widgetRow) TableName() string { return "widgets" }

func toWidgetRow(w *model.Widget) *widgetRow {
	return &widgetRow{
		ID:              w.ID,
		DisplayName:     w.DisplayName,
		LogoURL:         w.LogoURL,
		BackgroundColor: w.BackgroundColor,
		UserID:          w.UserID,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

func (r *widgetRow) toModel() model.Widget {
	return model.Widget{
		ID:              r.ID,
		DisplayName:     r.DisplayName,
		LogoURL:         r.LogoURL,
		BackgroundColor: r.BackgroundColor,
		UserID:          r.UserID,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// CreateWidget persists a widget configuration. The unique index on user_id
// enforces one configuration per owner; a second create surfaces as
// ConflictError.
func (s *Store) CreateWidget(ctx context.Context, w *model.Widget) error {
	err := s.db.WithContext(ctx).Create(toWidgetRow(w)).Error
	if isDuplicate(err) {
		return errs.Conflict("widget", "owner already has a configuration")
	}
	return err
}

// GetWidgetByUser retrieves the widget configuration owned by userID.
func (s *Store) GetWidgetByUser(ctx context.Context, userID string) (*model.Widget, error) {
	var row widgetRow
	if err := s.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error; err != nil {
		return nil, notFound(err, "widget", userID)
	}
	w := row.toModel()
	return &w, nil
}

// UpdateWidget writes a widget configuration back.
func (s *Store) UpdateWidget(ctx context.Context, w *model.Widget) error {
	res := s.db.WithContext(ctx).
		Model(&widgetRow{}).
		Where("user_id = ?", w.UserID).
		Select("display_name", "logo_url", "background_color", "updated_at").
		Updates(toWidgetRow(w))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("widget", w.UserID)
	}
	return nil
}
