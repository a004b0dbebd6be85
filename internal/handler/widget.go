package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dev-surajtapkeer/voxora/internal/middleware"
	"github.com/dev-surajtapkeer/voxora/internal/model"
	"github.com/dev-surajtapkeer/voxora/internal/service"
	"github.com/dev-surajtapkeer/voxora/pkg/logger"
)

// WidgetHandler handles widget configuration endpoints. The owner is always
// the authenticated caller.
type WidgetHandler struct {
	service *service.WidgetService
	logger  *logger.Logger
}

// NewWidgetHandler creates a new widget handler.
func NewWidgetHandler(svc *service.WidgetService, log *logger.Logger) *WidgetHandler {
	return &WidgetHandler{service: svc, logger: log}
}

// Create handles POST /api/v1/admin/create-widget
func (h *WidgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	widget, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, widget)
}

// Get handles GET /api/v1/admin/widget
func (h *WidgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	widget, err := h.service.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, widget)
}

// Update handles PUT /api/v1/admin/widget
func (h *WidgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	widget, err := h.service.Update(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, widget)
}
