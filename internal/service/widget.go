package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dev-surajtapkeer/voxora/internal/errs"
	"github.com/dev-surajtapkeer/voxora/internal/model"
	"github.com/dev-surajtapkeer/voxora/internal/store"
	"github.com/dev-surajtapkeer/voxora/pkg/logger"
)

// WidgetService manages the per-account embeddable widget configuration.
type WidgetService struct {
	store  *store.Store
	logger *logger.Logger
}

// NewWidgetService creates a new widget service.
func NewWidgetService(st *store.Store, log *logger.Logger) *WidgetService {
	return &WidgetService{store: st, logger: log}
}

// Create creates the widget configuration for an owner. A second create for
// the same owner conflicts; the caller should update instead.
func (s *WidgetService) Create(ctx context.Context, ownerID string, req *model.CreateWidgetRequest) (*model.Widget, error) {
	if strings.TrimSpace(req.DisplayName) == "" {
		return nil, errs.Validation("display_name", "is required")
	}
	if strings.TrimSpace(req.LogoURL) == "" {
		return nil, errs.Validation("logo_url", "is required")
	}
	if strings.TrimSpace(req.BackgroundColor) == "" {
		return nil, errs.Validation("background_color", "is required")
	}

	now := time.Now().UTC()
	widget := &model.Widget{
		ID:              uuid.Must(uuid.NewV7()).String(),
		DisplayName:     req.DisplayName,
		LogoURL:         req.LogoURL,
		BackgroundColor: req.BackgroundColor,
		UserID:          ownerID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.CreateWidget(ctx, widget); err != nil {
		return nil, err
	}
	return widget, nil
}

// Get retrieves the widget configuration owned by ownerID.
func (s *WidgetService) Get(ctx context.Context, ownerID string) (*model.Widget, error) {
	return s.store.GetWidgetByUser(ctx, ownerID)
}

// Update merges the provided fields into the owner's widget configuration,
// leaving the others unchanged.
func (s *WidgetService) Update(ctx context.Context, ownerID string, req *model.UpdateWidgetRequest) (*model.Widget, error) {
	widget, err := s.store.GetWidgetByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		if strings.TrimSpace(*req.DisplayName) == "" {
			return nil, errs.Validation("display_name", "is required")
		}
		widget.DisplayName = *req.DisplayName
	}
	if req.LogoURL != nil {
		if strings.TrimSpace(*req.LogoURL) == "" {
			return nil, errs.Validation("logo_url", "is required")
		}
		widget.LogoURL = *req.LogoURL
	}
	if req.BackgroundColor != nil {
		if strings.TrimSpace(*req.BackgroundColor) == "" {
			return nil, errs.Validation("background_color", "is required")
		}
		widget.BackgroundColor = *req.BackgroundColor
	}
	widget.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateWidget(ctx, widget); err != nil {
		return nil, err
	}
	return widget, nil
}
