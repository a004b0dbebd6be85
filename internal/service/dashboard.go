package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/dev-surajtapkeer/voxora/internal/errs"
	"github.com/dev-surajtapkeer/voxora/internal/model"
	"github.com/dev-surajtapkeer/voxora/internal/store"
	"github.com/dev-surajtapkeer/voxora/pkg/logger"
	"github.com/dev-surajtapkeer/voxora/pkg/metrics"
)

// DashboardService computes the admin dashboard snapshot.
type DashboardService struct {
	store  *store.Store
	logger *logger.Logger
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(st *store.Store, log *logger.Logger) *DashboardService {
	return &DashboardService{store: st, logger: log}
}

// Stats returns a point-in-time dashboard snapshot. Empty collections yield
// a zero-filled snapshot; any query failure surfaces as a single
// DashboardUnavailableError, never as partial numbers.
func (s *DashboardService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	stats, err := s.store.DashboardSnapshot(ctx)
	if err != nil {
		metrics.RecordDashboardQuery("error")
		s.logger.Error("dashboard snapshot failed", zap.Error(err))
		return nil, &errs.DashboardUnavailableError{Err: err}
	}
	metrics.RecordDashboardQuery("ok")
	return stats, nil
}
