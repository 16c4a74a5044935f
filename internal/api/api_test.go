package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nardi-nardi/naanews-sub000/internal/api"
	"github.com/nardi-nardi/naanews-sub000/internal/config"
	"github.com/nardi-nardi/naanews-sub000/internal/logger"
)

func newServer(t *testing.T, origins []string, setup func(*gin.Engine)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.ServerConfig{Host: "127.0.0.1", Port: 0, CORSOrigins: origins}
	return api.NewServer(cfg, false, logger.NewNop(), setup).Router()
}

func TestRequestIDMiddleware(t *testing.T) {
	var ctxLogger logger.Logger
	router := newServer(t, nil, func(r *gin.Engine) {
		r.GET("/test", func(c *gin.Context) {
			ctxLogger = logger.FromContext(c.Request.Context(), nil)
			c.String(http.StatusOK, "ok")
		})
	})

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))

		assert.Len(t, w.Header().Get(api.RequestIDHeader), 36)
		assert.NotNil(t, ctxLogger)
	})

	t.Run("preserves inbound id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		req.Header.Set(api.RequestIDHeader, "upstream-abc")
		router.ServeHTTP(w, req)

		assert.Equal(t, "upstream-abc", w.Header().Get(api.RequestIDHeader))
	})

	t.Run("replaces oversized id", func(t *testing.T) {
		oversized := strings.Repeat("x", 200)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		req.Header.Set(api.RequestIDHeader, oversized)
		router.ServeHTTP(w, req)

		got := w.Header().Get(api.RequestIDHeader)
		assert.NotEmpty(t, got)
		assert.NotEqual(t, oversized, got)
	})
}

func TestCORSMiddleware(t *testing.T) {
	setup := func(r *gin.Engine) {
		r.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	}

	tests := []struct {
		name       string
		origins    []string
		origin     string
		method     string
		wantOrigin string
		wantStatus int
	}{
		{"wildcard", []string{"*"}, "https://naanews.id", http.MethodGet, "*", http.StatusOK},
		{"listed origin", []string{"https://naanews.id"}, "https://naanews.id", http.MethodGet, "https://naanews.id", http.StatusOK},
		{"unlisted origin", []string{"https://naanews.id"}, "https://evil.example", http.MethodGet, "", http.StatusOK},
		{"preflight", []string{"*"}, "https://naanews.id", http.MethodOptions, "*", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newServer(t, tt.origins, setup)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/test", http.NoBody)
			req.Header.Set("Origin", tt.origin)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	router := newServer(t, nil, func(r *gin.Engine) {
		r.GET("/panic", func(*gin.Context) { panic("boom") })
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", http.NoBody))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     map[string]api.HealthChecker
		wantStatus api.HealthStatus
		wantCode   int
	}{
		{
			name:       "no checks",
			wantStatus: api.HealthStatusHealthy,
			wantCode:   http.StatusOK,
		},
		{
			name: "seed-only mode",
			checks: map[string]api.HealthChecker{
				"database": api.DatabaseHealthChecker(false, down),
			},
			wantStatus: api.HealthStatusHealthy,
			wantCode:   http.StatusOK,
		},
		{
			name: "database down degrades",
			checks: map[string]api.HealthChecker{
				"database": api.DatabaseHealthChecker(true, down),
				"redis":    api.RedisHealthChecker(ok),
			},
			wantStatus: api.HealthStatusDegraded,
			wantCode:   http.StatusOK,
		},
		{
			name: "unhealthy check",
			checks: map[string]api.HealthChecker{
				"custom": func(context.Context) api.CheckResult {
					return api.CheckResult{Status: api.HealthStatusUnhealthy}
				},
			},
			wantStatus: api.HealthStatusUnhealthy,
			wantCode:   http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newServer(t, nil, func(r *gin.Engine) {
				api.RegisterHealthRoutes(r, api.HealthOptions{
					ServiceName:    "naanews",
					ServiceVersion: "test",
					Checks:         tt.checks,
				})
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
			require.Equal(t, tt.wantCode, w.Code)

			var resp api.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, "naanews", resp.Service)
			assert.Len(t, resp.Checks, len(tt.checks))
		})
	}
}

func TestMetricsRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "naanews_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	router := newServer(t, nil, func(r *gin.Engine) {
		api.RegisterMetricsRoute(r, reg)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "naanews_test_total 1")
}

func TestRateLimitMiddleware(t *testing.T) {
	router := newServer(t, nil, func(r *gin.Engine) {
		admin := r.Group("/admin", api.RateLimitMiddleware(1, 2, logger.NewNop()))
		admin.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	})

	codes := make([]int, 0, 3)
	for range 3 {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/ping", http.NoBody))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
