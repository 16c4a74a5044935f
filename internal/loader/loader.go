// Package loader reads content entities from the document store and falls
// back to seed data whenever the store cannot give a usable answer.
package loader

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nardi-nardi/naanews-sub000/internal/docstore"
	"github.com/nardi-nardi/naanews-sub000/internal/logger"
	"github.com/nardi-nardi/naanews-sub000/internal/metrics"
)

const (
	sourceStore = "store"
	sourceSeed  = "seed"

	reasonEmpty = "empty_collection"
)

// Store is the gateway contract the loaders depend on.
type Store interface {
	Query(ctx context.Context, fn func(ctx context.Context, store *docstore.Store) error) error
}

type Loader struct {
	store   Store
	logger  logger.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	now     func() time.Time
}

func New(store Store, log logger.Logger, m *metrics.Metrics) *Loader {
	if log == nil {
		log = logger.NewNop()
	}
	return &Loader{
		store:   store,
		logger:  log.With(logger.String("component", "loader")),
		metrics: m,
		tracer:  otel.Tracer("naanews/loader"),
		now:     time.Now,
	}
}

// list is the boundary adapter for collection loads. A LoadError or an empty
// unfiltered result is answered with fallback; an empty filtered result is
// returned as is.
func list[T any](
	ctx context.Context,
	l *Loader,
	entity string,
	filtered bool,
	query func(ctx context.Context) ([]T, error),
	fallback func() []T,
) []T {
	ctx, span := l.tracer.Start(ctx, "loader."+entity,
		trace.WithAttributes(attribute.Bool("loader.filtered", filtered)))
	defer span.End()
	start := l.now()

	items, err := query(ctx)
	switch {
	case err != nil:
		l.recordFallback(span, classify(entity, err))
	case len(items) == 0 && !filtered:
		l.logger.Warn("Collection is empty, serving seed data",
			logger.String("entity", entity),
		)
		l.metrics.Fallback(entity, reasonEmpty)
		span.SetAttributes(attribute.String("loader.fallback", reasonEmpty))
	default:
		span.SetAttributes(attribute.String("loader.source", sourceStore))
		l.metrics.ObserveLoad(entity, sourceStore, l.now().Sub(start))
		return items
	}

	span.SetAttributes(attribute.String("loader.source", sourceSeed))
	items = fallback()
	l.metrics.ObserveLoad(entity, sourceSeed, l.now().Sub(start))
	return items
}

// lookup is the boundary adapter for single-entity loads.
func lookup[T any](
	ctx context.Context,
	l *Loader,
	entity string,
	query func(ctx context.Context) (*T, bool, error),
	fallback func() *T,
) *T {
	ctx, span := l.tracer.Start(ctx, "loader."+entity)
	defer span.End()
	start := l.now()

	item, collectionEmpty, err := query(ctx)
	switch {
	case err != nil:
		l.recordFallback(span, classify(entity, err))
	case item == nil && collectionEmpty:
		l.metrics.Fallback(entity, reasonEmpty)
		span.SetAttributes(attribute.String("loader.fallback", reasonEmpty))
	default:
		span.SetAttributes(attribute.String("loader.source", sourceStore))
		l.metrics.ObserveLoad(entity, sourceStore, l.now().Sub(start))
		return item
	}

	span.SetAttributes(attribute.String("loader.source", sourceSeed))
	item = fallback()
	l.metrics.ObserveLoad(entity, sourceSeed, l.now().Sub(start))
	return item
}

func (l *Loader) recordFallback(span trace.Span, err *LoadError) {
	fields := []logger.Field{
		logger.String("entity", err.Entity),
		logger.String("reason", err.Kind.String()),
		logger.Error(err.Err),
	}
	if err.Kind == StoreUnavailable {
		l.logger.Debug("Document store unavailable, serving seed data", fields...)
	} else {
		l.logger.Warn("Store read failed, serving seed data", fields...)
	}
	l.metrics.Fallback(err.Entity, err.Kind.String())
	span.RecordError(err)
	span.SetAttributes(attribute.String("loader.fallback", err.Kind.String()))
}

// findAll runs one Find and decodes every document. Any bad document fails
// the whole load.
func findAll[T any](
	ctx context.Context,
	l *Loader,
	entity string,
	coll docstore.Collection,
	filter docstore.Filter,
	decode func(string) (T, error),
) ([]T, error) {
	var raws []string
	err := l.store.Query(ctx, func(ctx context.Context, store *docstore.Store) error {
		var findErr error
		raws, findErr = store.Find(ctx, coll, filter)
		return findErr
	})
	if err != nil {
		return nil, classify(entity, err)
	}
	return decodeAll(entity, raws, decode)
}

func decodeAll[T any](entity string, raws []string, decode func(string) (T, error)) ([]T, error) {
	items := make([]T, 0, len(raws))
	for i, raw := range raws {
		item, err := decode(raw)
		if err != nil {
			return nil, decodeError(entity, i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// findByKey fetches one document. When it is missing, the collection is
// counted so the caller can tell "not found" from "not yet populated".
func findByKey[T any](
	ctx context.Context,
	l *Loader,
	entity string,
	coll docstore.Collection,
	key string,
	decode func(string) (T, error),
) (*T, bool, error) {
	var (
		raw   string
		found bool
		count int64
	)
	err := l.store.Query(ctx, func(ctx context.Context, store *docstore.Store) error {
		var findErr error
		raw, findErr = store.FindOne(ctx, coll, key)
		if findErr == nil {
			found = true
			return nil
		}
		if !errors.Is(findErr, docstore.ErrNotFound) {
			return findErr
		}
		count, findErr = store.Count(ctx, coll)
		return findErr
	})
	if err != nil {
		return nil, false, classify(entity, err)
	}
	if !found {
		return nil, count == 0, nil
	}

	item, err := decode(raw)
	if err != nil {
		return nil, false, decodeError(entity, 0, err)
	}
	return &item, false, nil
}
