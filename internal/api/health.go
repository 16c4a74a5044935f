package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthStatus represents the status of a health check.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

const healthCheckTimeout = 2 * time.Second

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  HealthStatus           `json:"status"`
	Service string                 `json:"service"`
	Version string                 `json:"version"`
	Uptime  string                 `json:"uptime,omitempty"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult represents the result of an individual health check.
type CheckResult struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Latency string       `json:"latency,omitempty"`
}

// HealthChecker performs one dependency check.
type HealthChecker func(ctx context.Context) CheckResult

// HealthOptions configures the health endpoint.
type HealthOptions struct {
	ServiceName    string
	ServiceVersion string
	StartTime      time.Time
	Checks         map[string]HealthChecker
}

// RegisterHealthRoutes adds GET and HEAD /health.
func RegisterHealthRoutes(router gin.IRoutes, opts HealthOptions) {
	if opts.StartTime.IsZero() {
		opts.StartTime = time.Now()
	}

	router.GET("/health", healthHandler(opts))
	router.HEAD("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
}

// RegisterMetricsRoute exposes gatherer at GET /metrics.
func RegisterMetricsRoute(router gin.IRoutes, gatherer prometheus.Gatherer) {
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}

func healthHandler(opts HealthOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := HealthResponse{
			Status:  HealthStatusHealthy,
			Service: opts.ServiceName,
			Version: opts.ServiceVersion,
			Uptime:  time.Since(opts.StartTime).Round(time.Second).String(),
		}

		if len(opts.Checks) > 0 {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
			defer cancel()

			response.Checks = make(map[string]CheckResult, len(opts.Checks))
			for name, check := range opts.Checks {
				result := check(ctx)
				response.Checks[name] = result

				if result.Status == HealthStatusUnhealthy {
					response.Status = HealthStatusUnhealthy
				} else if result.Status == HealthStatusDegraded && response.Status == HealthStatusHealthy {
					response.Status = HealthStatusDegraded
				}
			}
		}

		statusCode := http.StatusOK
		if response.Status == HealthStatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, response)
	}
}

// DatabaseHealthChecker checks the document store. The site keeps serving
// seed data without it, so a failure is degraded rather than unhealthy.
// When no store is configured the check reports seed-only mode.
func DatabaseHealthChecker(enabled bool, ping func(context.Context) error) HealthChecker {
	return func(ctx context.Context) CheckResult {
		if !enabled {
			return CheckResult{Status: HealthStatusHealthy, Message: "Seed-only mode"}
		}
		return runCheck(ctx, ping, "Database")
	}
}

// RedisHealthChecker checks Redis. Without it invalidation stays local.
func RedisHealthChecker(ping func(context.Context) error) HealthChecker {
	return func(ctx context.Context) CheckResult {
		return runCheck(ctx, ping, "Redis")
	}
}

func runCheck(ctx context.Context, ping func(context.Context) error, name string) CheckResult {
	start := time.Now()
	err := ping(ctx)
	latency := time.Since(start).String()

	if err != nil {
		return CheckResult{
			Status:  HealthStatusDegraded,
			Message: name + " connection failed",
			Latency: latency,
		}
	}
	return CheckResult{
		Status:  HealthStatusHealthy,
		Message: name + " connection OK",
		Latency: latency,
	}
}
