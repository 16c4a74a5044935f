package bootstrap

import (
	"context"
	"fmt"

	"github.com/nardi-nardi/naanews-sub000/internal/docstore"
	"github.com/nardi-nardi/naanews-sub000/internal/events"
	"github.com/nardi-nardi/naanews-sub000/internal/gateway"
	"github.com/nardi-nardi/naanews-sub000/internal/invalidation"
	"github.com/nardi-nardi/naanews-sub000/internal/loader"
	"github.com/nardi-nardi/naanews-sub000/internal/logger"
	"github.com/nardi-nardi/naanews-sub000/internal/models"
	"github.com/nardi-nardi/naanews-sub000/internal/seed"
)

// SeedResult counts the documents written per collection.
type SeedResult map[docstore.Collection]int

// Seed writes the built-in datasets into the document store, upserting by id
// or slug, then tells running processes to drop every cached tag.
func Seed(ctx context.Context, configPath string) (SeedResult, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if !cfg.Database.Enabled() {
		return nil, ErrNoDatabase
	}

	log, err := CreateLogger(cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = log.Sync() }()

	gw := gateway.New(cfg.Database, log)
	defer func() { _ = gw.Close() }()

	result, err := writeSeed(ctx, gw)
	if err != nil {
		return result, err
	}
	for coll, n := range result {
		log.Info("Seeded collection",
			logger.String("collection", string(coll)),
			logger.Int("documents", n),
		)
	}

	redisClient := SetupRedis(ctx, cfg, log)
	if redisClient == nil {
		return result, nil
	}
	defer func() { _ = redisClient.Close() }()

	announceSeed(ctx, result,
		invalidation.NewBroadcaster(redisClient, cfg.Redis.Channel, log, nil),
		events.NewPublisher(redisClient, cfg.Redis.Stream, log, nil),
		log,
	)
	return result, nil
}

func writeSeed(ctx context.Context, store loader.Store) (SeedResult, error) {
	result := SeedResult{}
	steps := []struct {
		coll  docstore.Collection
		write func(ctx context.Context, s *docstore.Store) (int, error)
	}{
		{docstore.Feeds, func(ctx context.Context, s *docstore.Store) (int, error) {
			return upsertAll(ctx, s, docstore.Feeds, seed.Feeds(), func(f models.Feed) string { return docstore.IDKey(f.ID) })
		}},
		{docstore.Stories, func(ctx context.Context, s *docstore.Store) (int, error) {
			return upsertAll(ctx, s, docstore.Stories, seed.Stories(), func(st models.Story) string { return docstore.IDKey(st.ID) })
		}},
		{docstore.Books, func(ctx context.Context, s *docstore.Store) (int, error) {
			return upsertAll(ctx, s, docstore.Books, seed.Books(), func(b models.Book) string { return docstore.IDKey(b.ID) })
		}},
		{docstore.Products, func(ctx context.Context, s *docstore.Store) (int, error) {
			return upsertAll(ctx, s, docstore.Products, seed.Products(), func(p models.Product) string { return p.Slug })
		}},
		{docstore.Categories, func(ctx context.Context, s *docstore.Store) (int, error) {
			return upsertAll(ctx, s, docstore.Categories, seed.Categories(), func(c models.ProductCategory) string { return c.Slug })
		}},
		{docstore.Roadmaps, func(ctx context.Context, s *docstore.Store) (int, error) {
			return upsertAll(ctx, s, docstore.Roadmaps, seed.Roadmaps(), func(r models.Roadmap) string { return r.Slug })
		}},
	}

	for _, step := range steps {
		err := store.Query(ctx, func(ctx context.Context, s *docstore.Store) error {
			n, writeErr := step.write(ctx, s)
			result[step.coll] = n
			return writeErr
		})
		if err != nil {
			return result, fmt.Errorf("seed %s: %w", step.coll, err)
		}
	}
	return result, nil
}

func upsertAll[T any](ctx context.Context, s *docstore.Store, coll docstore.Collection, docs []T, key func(T) string) (int, error) {
	for i, doc := range docs {
		if err := s.Upsert(ctx, coll, key(doc), doc); err != nil {
			return i, err
		}
	}
	return len(docs), nil
}

// announceSeed broadcasts invalidation of every tag and appends one seeded
// event per collection. Failures are logged; the data is already written.
func announceSeed(
	ctx context.Context,
	result SeedResult,
	broadcaster *invalidation.Broadcaster,
	publisher *events.Publisher,
	log logger.Logger,
) {
	for _, tag := range models.Tags() {
		if err := broadcaster.Publish(ctx, tag); err != nil {
			log.Warn("Failed to broadcast cache invalidation",
				logger.Tag(tag.String()),
				logger.Error(err),
			)
		}
	}

	for coll, n := range result {
		event := events.ContentEvent{
			EventType: events.ContentSeeded,
			Entity:    string(coll),
			Payload:   map[string]int{"documents": n},
		}
		if err := publisher.Publish(ctx, event); err != nil {
			log.Warn("Failed to publish seed event",
				logger.String("collection", string(coll)),
				logger.Error(err),
			)
		}
	}
}
