package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-surajtapkeer/voxora/internal/middleware"
	"github.com/dev-surajtapkeer/voxora/internal/model"
	"github.com/dev-surajtapkeer/voxora/internal/service"
	"github.com/dev-surajtapkeer/voxora/internal/store"
	"github.com/dev-surajtapkeer/voxora/pkg/logger"
)

// withIdentity injects an authenticated caller, standing in for the JWT
// middleware.
func withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), middleware.UserIDKey, "user-1")
		ctx = context.WithValue(ctx, middleware.TenantIDKey, "tenant-1")
		ctx = context.WithValue(ctx, middleware.ScopesKey, []string{middleware.ScopeAdmin})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type testAPI struct {
	router *chi.Mux
	store  *store.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	log := logger.NewNop()
	convSvc := service.NewConversationService(st, nil, log)
	adminSvc := service.NewAdminService(st, nil, log)
	widgetSvc := service.NewWidgetService(st, log)
	dashSvc := service.NewDashboardService(st, log)

	convs := NewConversationHandler(convSvc, log)
	teams := NewTeamHandler(adminSvc, log)
	agents := NewAgentHandler(adminSvc, log)
	widget := NewWidgetHandler(widgetSvc, log)
	dashboard := NewDashboardHandler(dashSvc, log)

	r := chi.NewRouter()
	r.Use(withIdentity)
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/conversations", func(r chi.Router) {
			r.Post("/", convs.Create)
			r.Get("/", convs.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", convs.Get)
				r.Put("/assign", convs.Assign)
				r.Put("/status", convs.SetStatus)
				r.Put("/priority", convs.SetPriority)
				r.Post("/tags", convs.Tag)
				r.Delete("/tags", convs.Untag)
			})
		})
		r.Route("/admin", func(r chi.Router) {
			r.Post("/teams", teams.Create)
			r.Get("/teams", teams.List)
			r.Post("/agents/invite", agents.Invite)
			r.Post("/create-widget", widget.Create)
			r.Get("/widget", widget.Get)
			r.Put("/widget", widget.Update)
			r.Get("/stats/dashboard", dashboard.Stats)
		})
	})

	return &testAPI{router: r, store: st}
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeConversation(t *testing.T, rec *httptest.ResponseRecorder) model.Conversation {
	t.Helper()
	var conv model.Conversation
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&conv))
	return conv
}

func TestConversationEndpoints(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/conversations", model.CreateConversationRequest{
		Participants: []string{"visitor-1"},
		Subject:      "order never arrived",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	conv := decodeConversation(t, rec)
	assert.Equal(t, model.StatusOpen, conv.Status)
	assert.Equal(t, "user-1", conv.CreatedBy)

	rec = api.do(t, http.MethodGet, "/api/v1/conversations/"+conv.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPut, "/api/v1/conversations/"+conv.ID+"/status", model.SetStatusRequest{Status: "closed"})
	require.Equal(t, http.StatusOK, rec.Code)
	closed := decodeConversation(t, rec)
	require.NotNil(t, closed.ClosedBy)
	assert.Equal(t, "user-1", *closed.ClosedBy)

	// Closed conversations refuse any move but reopen.
	rec = api.do(t, http.MethodPut, "/api/v1/conversations/"+conv.ID+"/status", model.SetStatusRequest{Status: "pending"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/conversations?status=open", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list model.ListConversationsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Equal(t, 0, list.Total)
}

func TestConversationBadRequests(t *testing.T) {
	api := newTestAPI(t)

	// Malformed body.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// No participants.
	rec = api.do(t, http.MethodPost, "/api/v1/conversations", model.CreateConversationRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed conversation ID.
	rec = api.do(t, http.MethodGet, "/api/v1/conversations/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown conversation.
	rec = api.do(t, http.MethodGet, "/api/v1/conversations/018e7b39-3c8a-7c2e-9a3f-0242ac120002", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Unknown status value.
	rec = api.do(t, http.MethodGet, "/api/v1/conversations?status=archived", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTagEndpoints(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/conversations", model.CreateConversationRequest{
		Participants: []string{"visitor-1"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	conv := decodeConversation(t, rec)

	rec = api.do(t, http.MethodPost, "/api/v1/conversations/"+conv.ID+"/tags", model.TagsRequest{
		Tags: []string{"billing", "billing", "vip"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	tagged := decodeConversation(t, rec)
	assert.Equal(t, []string{"billing", "vip"}, tagged.Tags)

	rec = api.do(t, http.MethodDelete, "/api/v1/conversations/"+conv.ID+"/tags", model.TagsRequest{
		Tags: []string{"vip"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	untagged := decodeConversation(t, rec)
	assert.Equal(t, []string{"billing"}, untagged.Tags)

	// Empty tag lists are rejected.
	rec = api.do(t, http.MethodPost, "/api/v1/conversations/"+conv.ID+"/tags", model.TagsRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWidgetEndpoints(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/v1/admin/widget", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	createReq := model.CreateWidgetRequest{
		DisplayName:     "Acme Support",
		LogoURL:         "https://cdn.example.com/logo.png",
		BackgroundColor: "#112233",
	}
	rec = api.do(t, http.MethodPost, "/api/v1/admin/create-widget", createReq)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Creating twice for the same owner conflicts.
	rec = api.do(t, http.MethodPost, "/api/v1/admin/create-widget", createReq)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodPut, "/api/v1/admin/widget", map[string]string{
		"display_name": "Acme Help",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var widget model.Widget
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&widget))
	assert.Equal(t, "Acme Help", widget.DisplayName)
	assert.Equal(t, "#112233", widget.BackgroundColor)
}

func TestDashboardEndpoint(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/admin/teams", model.CreateTeamRequest{
		Name:        "Support",
		Description: "first line",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/admin/agents/invite", model.InviteAgentRequest{
		Name:  "Alice",
		Email: "alice@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/admin/stats/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats model.DashboardStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, 1, stats.Overview.TotalTeams)
	assert.Equal(t, 1, stats.Overview.TotalAgents)
	assert.Equal(t, 1, stats.Overview.PendingInvites)

	// A storage failure is a 503 error state, never zeroed numbers.
	require.NoError(t, api.store.Close())
	rec = api.do(t, http.MethodGet, "/api/v1/admin/stats/dashboard", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
