package invalidation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nardi-nardi/naanews-sub000/internal/logger"
	"github.com/nardi-nardi/naanews-sub000/internal/models"
)

type tagRecorder struct {
	mu   sync.Mutex
	tags []models.Tag
}

func (r *tagRecorder) apply(tag models.Tag) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags = append(r.tags, tag)
}

func (r *tagRecorder) snapshot() []models.Tag {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Tag(nil), r.tags...)
}

func newClient(t *testing.T, mr *miniredis.Miniredis) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestBroadcaster_DeliversToOtherProcesses(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	writer := NewBroadcaster(newClient(t, mr), "", logger.NewNop(), nil)
	reader := NewBroadcaster(newClient(t, mr), "", logger.NewNop(), nil)

	var fromWriter, fromSelf tagRecorder
	readerListener, err := reader.Listen(ctx, fromWriter.apply)
	require.NoError(t, err)
	t.Cleanup(func() { _ = readerListener.Close() })

	writerListener, err := writer.Listen(ctx, fromSelf.apply)
	require.NoError(t, err)
	t.Cleanup(func() { _ = writerListener.Close() })

	require.NoError(t, writer.Publish(ctx, models.TagFeeds))
	require.NoError(t, writer.Publish(ctx, models.TagBooks))

	require.Eventually(t, func() bool { return len(fromWriter.snapshot()) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []models.Tag{models.TagFeeds, models.TagBooks}, fromWriter.snapshot())
	assert.Empty(t, fromSelf.snapshot(), "a process ignores its own broadcasts")
}

func TestBroadcaster_IgnoresBadMessages(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	client := newClient(t, mr)

	b := NewBroadcaster(client, "custom", logger.NewNop(), nil)
	var got tagRecorder
	listener, err := b.Listen(ctx, got.apply)
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	require.NoError(t, client.Publish(ctx, "custom", "not json").Err())
	require.NoError(t, client.Publish(ctx, "custom", `{"tag":"users","origin":"other"}`).Err())
	require.NoError(t, client.Publish(ctx, "custom", `{"tag":"roadmaps","origin":"other"}`).Err())

	require.Eventually(t, func() bool { return len(got.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []models.Tag{models.TagRoadmaps}, got.snapshot())
}

func TestBroadcaster_NilIsNoOp(t *testing.T) {
	var b *Broadcaster

	assert.Nil(t, NewBroadcaster(nil, "", nil, nil))
	assert.NoError(t, b.Publish(context.Background(), models.TagFeeds))

	l, err := b.Listen(context.Background(), func(models.Tag) {})
	assert.NoError(t, err)
	assert.NoError(t, l.Close())
}

func TestListener_CloseIsIdempotent(t *testing.T) {
	mr := miniredis.RunT(t)
	b := NewBroadcaster(newClient(t, mr), "", logger.NewNop(), nil)

	l, err := b.Listen(context.Background(), func(models.Tag) {})
	require.NoError(t, err)

	assert.NoError(t, l.Close())
	assert.NoError(t, l.Close())
}
