package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nardi-nardi/naanews-sub000/internal/events"
	"github.com/nardi-nardi/naanews-sub000/internal/logger"
)

func newClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewPublisher_NilClient(t *testing.T) {
	assert.Nil(t, events.NewPublisher(nil, "", nil, nil))
}

func TestPublisher_NilReceiverIsNoOp(t *testing.T) {
	var pub *events.Publisher

	assert.NoError(t, pub.Publish(context.Background(), events.ContentEvent{EventType: events.ContentCreated}))
	assert.NotPanics(t, func() { pub.PublishAsync(events.ContentEvent{}) })
}

func TestPublisher_PublishAppendsToStream(t *testing.T) {
	client := newClient(t)
	pub := events.NewPublisher(client, "", logger.NewNop(), nil)

	err := pub.Publish(context.Background(), events.ContentEvent{
		EventType: events.ContentCreated,
		Entity:    "feeds",
		Key:       "7",
		Payload:   map[string]any{"title": "Baru"},
	})
	require.NoError(t, err)

	msgs, err := client.XRange(context.Background(), events.DefaultStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "CONTENT_CREATED", msgs[0].Values["event_type"])
	assert.Equal(t, "feeds", msgs[0].Values["entity"])

	raw, ok := msgs[0].Values["event"].(string)
	require.True(t, ok)
	var decoded events.ContentEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.NotEqual(t, uuid.Nil, decoded.EventID)
	assert.False(t, decoded.Timestamp.IsZero())
	assert.Equal(t, "7", decoded.Key)
}

func TestPublisher_PublishAsync(t *testing.T) {
	client := newClient(t)
	pub := events.NewPublisher(client, "admin-events", logger.NewNop(), nil)

	pub.PublishAsync(events.ContentEvent{EventType: events.ContentDeleted, Entity: "books", Key: "2"})

	require.Eventually(t, func() bool {
		n, err := client.XLen(context.Background(), "admin-events").Result()
		return err == nil && n == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEventType_Action(t *testing.T) {
	assert.Equal(t, "created", events.ContentCreated.Action())
	assert.Equal(t, "seeded", events.ContentSeeded.Action())
	assert.Equal(t, "unknown", events.EventType("OTHER").Action())
}
