package bootstrap

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/nardi-nardi/naanews-sub000/internal/config"
	"github.com/nardi-nardi/naanews-sub000/internal/gateway"
	"github.com/nardi-nardi/naanews-sub000/internal/logger"
	"github.com/nardi-nardi/naanews-sub000/internal/metrics"
	infraredis "github.com/nardi-nardi/naanews-sub000/internal/redis"
)

// SetupMetrics creates the registry served at /metrics with the process and
// Go runtime collectors plus the naanews instruments.
func SetupMetrics() (*prometheus.Registry, *metrics.Metrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, metrics.New(reg)
}

// SetupGateway creates the lazily connecting store gateway. It never dials;
// the first query does.
func SetupGateway(cfg *config.Config, log logger.Logger, m *metrics.Metrics) *gateway.Gateway {
	if !cfg.Database.Enabled() {
		log.Warn("No database configured, serving seed data only")
	}
	return gateway.New(cfg.Database, log,
		gateway.WithStateListener(func(_, to gateway.State) {
			m.SetCircuitState(int(to))
		}),
	)
}

// SetupRedis connects to Redis when enabled. It returns nil when Redis is
// disabled or unreachable; invalidation then stays local to this process.
func SetupRedis(ctx context.Context, cfg *config.Config, log logger.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}

	client, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn("Redis not available, invalidation fan-out and events disabled",
			logger.Error(err),
		)
		return nil
	}

	log.Info("Redis connected",
		logger.String("redis_address", cfg.Redis.Address),
	)
	return client
}
