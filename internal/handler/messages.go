package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dev-surajtapkeer/voxora/internal/middleware"
	"github.com/dev-surajtapkeer/voxora/internal/model"
	"github.com/dev-surajtapkeer/voxora/internal/service"
	"github.com/dev-surajtapkeer/voxora/pkg/logger"
)

// MessageHandler handles conversation message endpoints.
type MessageHandler struct {
	messages    *service.MessageService
	suggestions *service.SuggestionService
	logger      *logger.Logger
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(messages *service.MessageService, suggestions *service.SuggestionService, log *logger.Logger) *MessageHandler {
	return &MessageHandler{
		messages:    messages,
		suggestions: suggestions,
		logger:      log,
	}
}

// Send handles POST /api/v1/conversations/:id/messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conversationID := chi.URLParam(r, "id")
	if err := middleware.ValidateID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := h.messages.Append(ctx, middleware.GetTenantID(ctx), conversationID, middleware.GetUserID(ctx), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

// List handles GET /api/v1/conversations/:id/messages
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conversationID := chi.URLParam(r, "id")
	if err := middleware.ValidateID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit, _ := parsePage(r, 50, 200)

	var afterSeq uint64
	if a := r.URL.Query().Get("after"); a != "" {
		parsed, err := strconv.ParseUint(a, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid after parameter")
			return
		}
		afterSeq = parsed
	}

	resp, err := h.messages.List(ctx, middleware.GetTenantID(ctx), conversationID, afterSeq, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Suggest handles POST /api/v1/conversations/:id/suggest
func (h *MessageHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conversationID := chi.URLParam(r, "id")
	if err := middleware.ValidateID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.suggestions.Suggest(ctx, middleware.GetTenantID(ctx), conversationID)
	if err != nil {
		if errors.Is(err, service.ErrSuggestionsDisabled) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
