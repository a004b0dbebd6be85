package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dev-surajtapkeer/voxora/internal/middleware"
	"github.com/dev-surajtapkeer/voxora/internal/model"
	"github.com/dev-surajtapkeer/voxora/internal/service"
	"github.com/dev-surajtapkeer/voxora/pkg/logger"
)

// AgentHandler handles agent administration endpoints.
type AgentHandler struct {
	service *service.AdminService
	logger  *logger.Logger
}

// NewAgentHandler creates a new agent handler.
func NewAgentHandler(svc *service.AdminService, log *logger.Logger) *AgentHandler {
	return &AgentHandler{service: svc, logger: log}
}

// List handles GET /api/v1/admin/agents
func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePage(r, 20, 100)

	filter := model.AgentFilter{
		Role:         model.AgentRole(r.URL.Query().Get("role")),
		Presence:     model.Presence(r.URL.Query().Get("presence")),
		InviteStatus: model.InviteStatus(r.URL.Query().Get("invite_status")),
		TeamID:       r.URL.Query().Get("team_id"),
		Limit:        limit,
		Offset:       offset,
	}

	resp, err := h.service.ListAgents(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/admin/agents/:id
func (h *AgentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	agent, err := h.service.GetAgent(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, agent)
}

// Invite handles POST /api/v1/admin/agents/invite
func (h *AgentHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req model.InviteAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	agent, err := h.service.InviteAgent(r.Context(), middleware.GetTenantID(r.Context()), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, agent)
}

// Update handles PUT /api/v1/admin/agents/:id
func (h *AgentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.UpdateAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	agent, err := h.service.UpdateAgent(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, agent)
}

// Delete handles DELETE /api/v1/admin/agents/:id
func (h *AgentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.DeleteAgent(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ResendInvite handles POST /api/v1/admin/agents/:id/resend-invite
func (h *AgentHandler) ResendInvite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	agent, err := h.service.ResendInvite(r.Context(), middleware.GetTenantID(r.Context()), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, agent)
}
