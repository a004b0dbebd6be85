package handler

import (
	"net/http"

	"github.com/dev-surajtapkeer/voxora/internal/service"
	"github.com/dev-surajtapkeer/voxora/pkg/logger"
)

// DashboardHandler handles the dashboard snapshot endpoint.
type DashboardHandler struct {
	service *service.DashboardService
	logger  *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(svc *service.DashboardService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{service: svc, logger: log}
}

// Stats handles GET /api/v1/admin/stats/dashboard
//
// Aggregation failure is an explicit 503, never a zero-filled success: the
// dashboard must render an error state rather than impossible numbers.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
