package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

func TestHealthHandler_Liveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp := decodeBody(t, rec); resp["status"] != "ok" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestHealthDependenciesHandler_Readiness(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	failing := DependencyCheck{
		Name: "mongodb",
		Ping: func(ctx context.Context) error { return errors.New("no reachable servers") },
	}

	tests := []struct {
		name   string
		checks []DependencyCheck
		code   int
		status string
	}{
		{name: "redis up", checks: []DependencyCheck{RedisCheck(rdb)}, code: http.StatusOK, status: "ok"},
		{name: "no dependencies", code: http.StatusOK, status: "ok"},
		{name: "mongo down", checks: []DependencyCheck{RedisCheck(rdb), failing}, code: http.StatusServiceUnavailable, status: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

			if err := NewHealthDependenciesHandler(tt.checks...).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			resp := decodeBody(t, rec)
			if resp["status"] != tt.status {
				t.Fatalf("unexpected payload: %+v", resp)
			}
			deps, _ := resp["dependencies"].(map[string]any)
			if len(deps) != len(tt.checks) {
				t.Fatalf("expected %d dependencies, got %+v", len(tt.checks), deps)
			}
		})
	}
}
