package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nardi-nardi/naanews-sub000/internal/logger"
	"github.com/nardi-nardi/naanews-sub000/internal/metrics"
)

// asyncPublishTimeout is the context timeout for async publish operations.
const asyncPublishTimeout = 5 * time.Second

// Publisher appends content events to a Redis stream. A nil *Publisher is a
// valid no-op, used when Redis is disabled.
type Publisher struct {
	client  *redis.Client
	stream  string
	log     logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewPublisher returns nil if client is nil.
func NewPublisher(client *redis.Client, stream string, log logger.Logger, m *metrics.Metrics) *Publisher {
	if client == nil {
		return nil
	}
	if stream == "" {
		stream = DefaultStream
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Publisher{
		client:  client,
		stream:  stream,
		log:     log,
		metrics: m,
		now:     time.Now,
	}
}

// Publish sends an event to the stream, filling EventID and Timestamp when unset.
func (p *Publisher) Publish(ctx context.Context, event ContentEvent) error {
	if p == nil || p.client == nil {
		return nil
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"event_type": string(event.EventType),
			"entity":     event.Entity,
			"event":      string(payload),
		},
	})

	if publishErr := result.Err(); publishErr != nil {
		p.log.Error("Failed to publish content event",
			logger.String("event_type", string(event.EventType)),
			logger.String("entity", event.Entity),
			logger.Error(publishErr),
		)
		return fmt.Errorf("publish to stream: %w", publishErr)
	}

	p.metrics.EventPublished(event.Entity, event.EventType.Action())
	p.log.Debug("Published content event",
		logger.String("event_type", string(event.EventType)),
		logger.String("entity", event.Entity),
		logger.String("key", event.Key),
		logger.String("stream_id", result.Val()),
	)
	return nil
}

// PublishAsync publishes without blocking the caller. Errors are logged.
func (p *Publisher) PublishAsync(event ContentEvent) {
	if p == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		defer cancel()

		if err := p.Publish(ctx, event); err != nil {
			p.log.Error("Async publish failed",
				logger.String("event_type", string(event.EventType)),
				logger.String("entity", event.Entity),
				logger.Error(err),
			)
		}
	}()
}
