// Package invalidation fans cache tag invalidations out to every naanews
// process over a Redis pub/sub channel.
package invalidation

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nardi-nardi/naanews-sub000/internal/logger"
	"github.com/nardi-nardi/naanews-sub000/internal/metrics"
	"github.com/nardi-nardi/naanews-sub000/internal/models"
)

// DefaultChannel is the pub/sub channel for invalidation messages.
const DefaultChannel = "naanews:cache-invalidate"

// Message is published once per invalidated tag.
type Message struct {
	Tag    models.Tag `json:"tag"`
	Origin string     `json:"origin"`
	SentAt time.Time  `json:"sent_at"`
}

// Broadcaster publishes and receives invalidations. A nil *Broadcaster is a
// valid no-op, used when Redis is disabled.
type Broadcaster struct {
	client  *redis.Client
	channel string
	origin  string
	log     logger.Logger
	metrics *metrics.Metrics
}

// NewBroadcaster returns nil if client is nil. Each broadcaster gets a unique
// origin so a process ignores its own messages.
func NewBroadcaster(client *redis.Client, channel string, log logger.Logger, m *metrics.Metrics) *Broadcaster {
	if client == nil {
		return nil
	}
	if channel == "" {
		channel = DefaultChannel
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Broadcaster{
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
		log:     log.With(logger.String("component", "invalidation")),
		metrics: m,
	}
}

func (b *Broadcaster) Origin() string {
	if b == nil {
		return ""
	}
	return b.origin
}

// Publish announces that tag was invalidated.
func (b *Broadcaster) Publish(ctx context.Context, tag models.Tag) error {
	if b == nil {
		return nil
	}

	payload, err := json.Marshal(Message{Tag: tag, Origin: b.origin, SentAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal invalidation: %w", err)
	}
	if err = b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish invalidation: %w", err)
	}

	b.metrics.BroadcastSent()
	return nil
}

// Listener applies invalidations received from other processes until closed.
type Listener struct {
	pubsub *redis.PubSub
	done   chan struct{}
	once   sync.Once
}

// Listen subscribes to the channel and calls apply for every tag announced by
// another process. The subscription is active when Listen returns.
func (b *Broadcaster) Listen(ctx context.Context, apply func(models.Tag)) (*Listener, error) {
	if b == nil {
		return nil, nil
	}

	pubsub := b.client.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	l := &Listener{pubsub: pubsub, done: make(chan struct{})}
	go func() {
		defer close(l.done)
		for msg := range pubsub.Channel() {
			b.handle(msg.Payload, apply)
		}
	}()

	b.log.Info("Listening for cache invalidations", logger.String("channel", b.channel))
	return l, nil
}

func (b *Broadcaster) handle(payload string, apply func(models.Tag)) {
	var msg Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		b.log.Warn("Ignoring malformed invalidation message", logger.Error(err))
		return
	}
	if msg.Origin == b.origin {
		return
	}
	tag, ok := models.ParseTag(string(msg.Tag))
	if !ok {
		b.log.Warn("Ignoring invalidation for unknown tag", logger.Tag(string(msg.Tag)))
		return
	}

	b.metrics.BroadcastReceived()
	apply(tag)
	b.log.Debug("Applied remote invalidation",
		logger.Tag(string(tag)),
		logger.String("origin", msg.Origin),
	)
}

// Close unsubscribes and waits for the receive loop to finish.
func (l *Listener) Close() error {
	if l == nil {
		return nil
	}
	var err error
	l.once.Do(func() {
		err = l.pubsub.Close()
		<-l.done
	})
	return err
}
