package bootstrap

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/nardi-nardi/naanews-sub000/internal/api"
	"github.com/nardi-nardi/naanews-sub000/internal/config"
	"github.com/nardi-nardi/naanews-sub000/internal/content"
	"github.com/nardi-nardi/naanews-sub000/internal/events"
	"github.com/nardi-nardi/naanews-sub000/internal/gateway"
	"github.com/nardi-nardi/naanews-sub000/internal/handlers"
	"github.com/nardi-nardi/naanews-sub000/internal/logger"
)

// ServerDeps are the components the HTTP routes need.
type ServerDeps struct {
	Gateway   *gateway.Gateway
	Redis     *redis.Client
	Content   *content.Service
	Publisher *events.Publisher
	Registry  prometheus.Gatherer
}

// SetupHTTPServer creates the server with health, metrics, read and admin routes.
func SetupHTTPServer(cfg *config.Config, deps ServerDeps, log logger.Logger) *api.Server {
	startTime := time.Now()

	checks := map[string]api.HealthChecker{
		"database": api.DatabaseHealthChecker(deps.Gateway.Enabled(), deps.Gateway.Ping),
	}
	if deps.Redis != nil {
		checks["redis"] = api.RedisHealthChecker(func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		})
	}

	var publisher handlers.EventPublisher
	if deps.Publisher != nil {
		publisher = deps.Publisher
	}

	contentHandler := handlers.NewContentHandler(deps.Content, log)
	adminHandler := handlers.NewAdminHandler(deps.Gateway, deps.Content, publisher, log)

	return api.NewServer(cfg.Server, cfg.Debug, log, func(router *gin.Engine) {
		api.RegisterHealthRoutes(router, api.HealthOptions{
			ServiceName:    serviceName,
			ServiceVersion: Version,
			StartTime:      startTime,
			Checks:         checks,
		})
		api.RegisterMetricsRoute(router, deps.Registry)

		v1 := router.Group("/api/v1")
		contentHandler.RegisterRoutes(v1)
		adminHandler.RegisterRoutes(v1.Group("/admin",
			api.RateLimitMiddleware(cfg.Server.AdminRateLimit, cfg.Server.AdminRateBurst, log),
		))
	})
}
