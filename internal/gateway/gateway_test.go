package gateway

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nardi-nardi/naanews-sub000/internal/config"
	"github.com/nardi-nardi/naanews-sub000/internal/docstore"
	"github.com/nardi-nardi/naanews-sub000/internal/logger"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		URL:             "postgres://test",
		QueryTimeout:    time.Second,
		ConnectTimeout:  time.Second,
		ConnectAttempts: 1,
		BreakerFailures: 2,
		BreakerCooldown: time.Minute,
	}
}

func mockOpener(t *testing.T, calls *atomic.Int32) (Opener, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return func(context.Context, config.DatabaseConfig) (*sqlx.DB, error) {
		calls.Add(1)
		return sqlx.NewDb(db, "postgres"), nil
	}, mock
}

func failingOpener(calls *atomic.Int32) Opener {
	return func(context.Context, config.DatabaseConfig) (*sqlx.DB, error) {
		calls.Add(1)
		return nil, errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	}
}

func noop(context.Context, *docstore.Store) error { return nil }

func TestGateway_NoDSNIsUnavailable(t *testing.T) {
	var calls atomic.Int32
	cfg := testConfig()
	cfg.URL = ""

	g := New(cfg, logger.NewNop(), WithOpener(failingOpener(&calls)))

	err := g.Query(context.Background(), noop)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, g.Enabled())
	assert.Equal(t, int32(0), calls.Load(), "seed-only mode never dials")
}

func TestGateway_ConnectsLazilyOnce(t *testing.T) {
	var calls atomic.Int32
	open, mock := mockOpener(t, &calls)
	g := New(testConfig(), logger.NewNop(), WithOpener(open))

	assert.Equal(t, int32(0), calls.Load())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM feeds`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM feeds`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	for range 2 {
		err := g.Query(context.Background(), func(ctx context.Context, store *docstore.Store) error {
			n, err := store.Count(ctx, docstore.Feeds)
			assert.Equal(t, int64(2), n)
			return err
		})
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), calls.Load())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGateway_ConnectFailureOpensCircuit(t *testing.T) {
	var calls atomic.Int32
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	var transitions []string

	g := New(testConfig(), logger.NewNop(),
		WithOpener(failingOpener(&calls)),
		WithClock(clock.Now),
		WithStateListener(func(_, to State) { transitions = append(transitions, to.String()) }),
	)

	for range 2 {
		require.ErrorIs(t, g.Query(context.Background(), noop), ErrUnavailable)
	}
	assert.Equal(t, StateOpen, g.State())
	assert.Equal(t, int32(2), calls.Load())

	// open circuit sheds without dialing
	require.ErrorIs(t, g.Query(context.Background(), noop), ErrUnavailable)
	assert.Equal(t, int32(2), calls.Load())

	clock.Advance(2 * time.Minute)
	require.ErrorIs(t, g.Query(context.Background(), noop), ErrUnavailable)
	assert.Equal(t, int32(3), calls.Load(), "one probe after cool-down")
	assert.Equal(t, StateOpen, g.State())
	assert.Equal(t, []string{"open", "half-open", "open"}, transitions)
}

func TestGateway_RecoversAfterProbe(t *testing.T) {
	var failing atomic.Bool
	failing.Store(true)
	var calls atomic.Int32
	good, _ := mockOpener(t, &calls)
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}

	open := func(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
		if failing.Load() {
			return nil, errors.New("connection refused")
		}
		return good(ctx, cfg)
	}
	g := New(testConfig(), logger.NewNop(), WithOpener(open), WithClock(clock.Now))

	for range 2 {
		require.ErrorIs(t, g.Query(context.Background(), noop), ErrUnavailable)
	}
	require.Equal(t, StateOpen, g.State())

	failing.Store(false)
	clock.Advance(2 * time.Minute)

	require.NoError(t, g.Query(context.Background(), noop))
	assert.Equal(t, StateClosed, g.State())
}

func TestGateway_QueryTimeoutIsUnavailable(t *testing.T) {
	var calls atomic.Int32
	open, _ := mockOpener(t, &calls)
	cfg := testConfig()
	cfg.QueryTimeout = 20 * time.Millisecond
	g := New(cfg, logger.NewNop(), WithOpener(open))

	err := g.Query(context.Background(), func(ctx context.Context, _ *docstore.Store) error {
		<-ctx.Done()
		return ctx.Err()
	})

	require.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGateway_QueryErrorPassesThrough(t *testing.T) {
	var calls atomic.Int32
	open, _ := mockOpener(t, &calls)
	g := New(testConfig(), logger.NewNop(), WithOpener(open))

	err := g.Query(context.Background(), func(context.Context, *docstore.Store) error {
		return docstore.ErrNotFound
	})

	require.ErrorIs(t, err, docstore.ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, StateClosed, g.State())
}

func TestGateway_RetriesConnect(t *testing.T) {
	var calls atomic.Int32
	good, _ := mockOpener(t, &calls)
	var attempts atomic.Int32

	open := func(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
		if attempts.Add(1) == 1 {
			return nil, errors.New("connection reset by peer")
		}
		return good(ctx, cfg)
	}
	cfg := testConfig()
	cfg.ConnectAttempts = 2
	g := New(cfg, logger.NewNop(), WithOpener(open))

	require.NoError(t, g.Query(context.Background(), noop))
	assert.Equal(t, int32(2), attempts.Load())
}

// stallingOpener blocks until its context ends, like a dial to a host that
// never answers.
func stallingOpener(calls *atomic.Int32) Opener {
	return func(ctx context.Context, _ config.DatabaseConfig) (*sqlx.DB, error) {
		calls.Add(1)
		<-ctx.Done()
		return nil, ctx.Err()
	}
}

func TestGateway_ConcurrentCallersShareOneConnect(t *testing.T) {
	var calls atomic.Int32
	cfg := testConfig()
	cfg.ConnectTimeout = 200 * time.Millisecond
	cfg.BreakerFailures = 3
	g := New(cfg, logger.NewNop(), WithOpener(stallingOpener(&calls)))

	const callers = 6
	var (
		wg      sync.WaitGroup
		start   = make(chan struct{})
		mu      sync.Mutex
		worst   time.Duration
		results = make([]error, callers)
	)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			began := time.Now()
			results[i] = g.Query(context.Background(), noop)
			elapsed := time.Since(began)

			mu.Lock()
			worst = max(worst, elapsed)
			mu.Unlock()
		}()
	}
	close(start)
	wg.Wait()

	for _, err := range results {
		assert.ErrorIs(t, err, ErrUnavailable)
	}
	assert.Equal(t, int32(1), calls.Load(), "one dial for all waiting callers")
	assert.Less(t, worst, 2*cfg.ConnectTimeout)
	assert.Equal(t, StateOpen, g.State())

	began := time.Now()
	require.ErrorIs(t, g.Query(context.Background(), noop), ErrUnavailable)
	assert.Less(t, time.Since(began), cfg.ConnectTimeout, "open circuit sheds immediately")
	assert.Equal(t, int32(1), calls.Load())
}

func TestGateway_CallerStopsWaitingOnOwnDeadline(t *testing.T) {
	var calls atomic.Int32
	good, _ := mockOpener(t, &calls)
	release := make(chan struct{})

	open := func(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
		select {
		case <-release:
			return good(ctx, cfg)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	cfg := testConfig()
	cfg.ConnectTimeout = 5 * time.Second
	g := New(cfg, logger.NewNop(), WithOpener(open))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	began := time.Now()
	err := g.Query(ctx, noop)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(began), time.Second)

	// the shared connect outlives the caller that started it
	close(release)
	require.Eventually(t, func() bool { return g.current() != nil }, time.Second, 5*time.Millisecond)
	require.NoError(t, g.Query(context.Background(), noop))
	assert.Equal(t, int32(1), calls.Load())
}

func TestRetry_StopsOnContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var n int
	err := retry(ctx, 3, func(context.Context) error {
		n++
		return errors.New("boom")
	})

	require.Error(t, err)
	assert.Equal(t, 0, n)
}
