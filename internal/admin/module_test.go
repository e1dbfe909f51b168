package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"autoparts_backend/internal/config"
	apphttp "autoparts_backend/internal/http"
	"autoparts_backend/internal/leads"
	"autoparts_backend/platform/logger"
)

type stubCatalogCounter struct {
	parts    int64
	vehicles int64
}

func (s stubCatalogCounter) CountParts(context.Context) (int64, error)    { return s.parts, nil }
func (s stubCatalogCounter) CountVehicles(context.Context) (int64, error) { return s.vehicles, nil }

type stubLeadCounter struct {
	stats leads.Stats
}

func (s stubLeadCounter) CountByStatus(context.Context) (leads.Stats, error) { return s.stats, nil }

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		AdminToken:  "admin-token",
		OpenAIModel: "gpt-4o-mini",
		SalesAgents: []string{"agent1", "agent2"},
	}
	module := NewModule(cfg,
		stubCatalogCounter{parts: 42, vehicles: 7},
		stubLeadCounter{stats: leads.Stats{Total: 10, New: 4, Assigned: 6}},
		logger.New("test"),
	)

	engine := gin.New()
	v1 := engine.Group("/api/v1")
	module.RegisterRoutes(&apphttp.RouterContext{Engine: engine, V1: v1})
	return engine
}

func TestAdminRequiresBearerToken(t *testing.T) {
	engine := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/config", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/config", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with a wrong token, got %d", w.Code)
	}
}

func TestAdminConfigOmitsSecrets(t *testing.T) {
	engine := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/config", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["openai_model"] != "gpt-4o-mini" {
		t.Fatalf("unexpected model %v", body["openai_model"])
	}
	if body["sales_agents"] != float64(2) {
		t.Fatalf("expected agent count, got %v", body["sales_agents"])
	}
	for key := range body {
		if key == "admin_token" || key == "openai_api_key" {
			t.Fatalf("config response leaked %q", key)
		}
	}
}

func TestAdminStatsAggregatesCounts(t *testing.T) {
	engine := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		TotalParts    int64 `json:"total_parts"`
		TotalVehicles int64 `json:"total_vehicles"`
		TotalLeads    int64 `json:"total_leads"`
		NewLeads      int64 `json:"new_leads"`
		AssignedLeads int64 `json:"assigned_leads"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.TotalParts != 42 || body.TotalVehicles != 7 || body.TotalLeads != 10 {
		t.Fatalf("unexpected stats %+v", body)
	}
}
