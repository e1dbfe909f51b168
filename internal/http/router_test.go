package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"autoparts_backend/platform/logger"
)

type stubHealth struct {
	err error
}

func (s stubHealth) Ping(context.Context) error { return s.err }

type stubModule struct {
	registered bool
}

func (m *stubModule) Name() string { return "stub" }

func (m *stubModule) RegisterRoutes(ctx *RouterContext) {
	m.registered = true
	ctx.V1.GET("/stub", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"module": "stub"})
	})
}

func TestHealthEndpointAlwaysOK(t *testing.T) {
	engine := NewRouter("test", logger.New("test"), stubHealth{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestReadyEndpointReflectsDatabaseHealth(t *testing.T) {
	engine := NewRouter("test", logger.New("test"), stubHealth{})

	req := httptest.NewRequest(http.MethodGet, "/api/ready", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 when the pool pings, got %d", w.Code)
	}

	engine = NewRouter("test", logger.New("test"), stubHealth{err: errors.New("pool down")})
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when the pool is down, got %d", w.Code)
	}
}

func TestModulesRegisterUnderV1(t *testing.T) {
	module := &stubModule{}
	engine := NewRouter("test", logger.New("test"), stubHealth{}, module)

	if !module.registered {
		t.Fatal("expected the module's RegisterRoutes to run")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stub", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from the module route, got %d", w.Code)
	}
}
