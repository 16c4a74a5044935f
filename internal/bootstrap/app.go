// Package bootstrap handles application initialization and lifecycle management
// for the naanews content service.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/nardi-nardi/naanews-sub000/internal/cache"
	"github.com/nardi-nardi/naanews-sub000/internal/content"
	"github.com/nardi-nardi/naanews-sub000/internal/events"
	"github.com/nardi-nardi/naanews-sub000/internal/invalidation"
	"github.com/nardi-nardi/naanews-sub000/internal/loader"
	"github.com/nardi-nardi/naanews-sub000/internal/logger"
)

const serviceName = "naanews"

// Version is overridden at build time with -ldflags.
var Version = "dev"

// Serve runs the content service until ctx is cancelled or the process is
// signalled.
func Serve(ctx context.Context, configPath string) error {
	// Phase 1: Load config and create logger
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	log, err := CreateLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// Phase 2: Metrics, store gateway and optional Redis
	registry, m := SetupMetrics()

	gw := SetupGateway(cfg, log, m)
	defer func() {
		if closeErr := gw.Close(); closeErr != nil {
			log.Error("Failed to close database", logger.Error(closeErr))
		}
	}()

	redisClient := SetupRedis(ctx, cfg, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Phase 3: Cache, loaders and the content service
	broadcaster := invalidation.NewBroadcaster(redisClient, cfg.Redis.Channel, log, m)
	var notifier content.Notifier
	if broadcaster != nil {
		notifier = broadcaster
	}

	c := cache.New(cfg.Cache.TTL, cache.WithMetrics(m), cache.WithLogger(log))
	svc := content.New(loader.New(gw, log, m), c, notifier, log)

	listener, err := broadcaster.Listen(ctx, svc.ApplyInvalidation)
	if err != nil {
		log.Warn("Cache invalidation listener not started", logger.Error(err))
	}
	defer func() { _ = listener.Close() }()

	// Phase 4: Setup and run HTTP server
	server := SetupHTTPServer(cfg, ServerDeps{
		Gateway:   gw,
		Redis:     redisClient,
		Content:   svc,
		Publisher: events.NewPublisher(redisClient, cfg.Redis.Stream, log, m),
		Registry:  registry,
	}, log)

	log.Info("Content service ready",
		logger.String("address", server.Addr()),
		logger.Bool("database_enabled", cfg.Database.Enabled()),
		logger.Bool("redis_enabled", redisClient != nil),
		logger.Duration("cache_ttl", cfg.Cache.TTL),
	)

	if runErr := server.RunWithGracefulShutdown(ctx); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Server exited")
	return nil
}
