// Package gateway gives loaders and admin handlers a shared, lazily connected
// handle to the document store, and turns connectivity problems into
// ErrUnavailable.
package gateway

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" //nolint:blankimports // PostgreSQL driver
	"golang.org/x/sync/singleflight"

	"github.com/nardi-nardi/naanews-sub000/internal/config"
	"github.com/nardi-nardi/naanews-sub000/internal/docstore"
	"github.com/nardi-nardi/naanews-sub000/internal/logger"
)

// ErrUnavailable reports that the document store cannot serve the request:
// not configured, unreachable, timed out, or shed by the circuit breaker.
var ErrUnavailable = errors.New("document store unavailable")

const (
	defaultQueryTimeout   = 3 * time.Second
	defaultConnectTimeout = 5 * time.Second
)

// Opener establishes a verified connection pool.
type Opener func(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error)

type Option func(*Gateway)

// WithOpener replaces the PostgreSQL opener, mainly for tests.
func WithOpener(open Opener) Option {
	return func(g *Gateway) { g.open = open }
}

// WithClock sets the clock used by the circuit breaker.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// WithStateListener is called on every breaker transition.
func WithStateListener(fn func(from, to State)) Option {
	return func(g *Gateway) { g.onState = fn }
}

type Gateway struct {
	cfg     config.DatabaseConfig
	logger  logger.Logger
	open    Opener
	now     func() time.Time
	onState func(from, to State)
	breaker *breaker

	connects singleflight.Group
	mu       sync.Mutex
	store    *docstore.Store
}

func New(cfg config.DatabaseConfig, log logger.Logger, opts ...Option) *Gateway {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = defaultQueryTimeout
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	g := &Gateway{
		cfg:    cfg,
		logger: log.With(logger.String("component", "gateway")),
		open:   openPostgres,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.breaker = newBreaker(cfg.BreakerFailures, cfg.BreakerCooldown, g.now)
	g.breaker.onChange = func(from, to State) {
		g.logger.Warn("Document store circuit changed state",
			logger.String("from", from.String()),
			logger.String("to", to.String()),
		)
		if g.onState != nil {
			g.onState(from, to)
		}
	}
	return g
}

// Enabled reports whether a store is configured at all.
func (g *Gateway) Enabled() bool {
	return g.cfg.URL != ""
}

// State returns the circuit breaker state.
func (g *Gateway) State() State {
	return g.breaker.currentState()
}

// Query runs fn against the shared store under the configured query timeout.
// Connectivity failures and timeouts come back wrapping ErrUnavailable; any
// other error from fn is returned unchanged.
func (g *Gateway) Query(ctx context.Context, fn func(ctx context.Context, store *docstore.Store) error) error {
	if !g.Enabled() {
		return fmt.Errorf("%w: no database configured", ErrUnavailable)
	}
	if !g.breaker.allow() {
		return fmt.Errorf("%w: circuit open", ErrUnavailable)
	}

	store, err := g.handle(ctx)
	if err != nil {
		g.breaker.recordFailure()
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	qctx, cancel := context.WithTimeout(ctx, g.cfg.QueryTimeout)
	defer cancel()

	err = fn(qctx, store)
	switch {
	case err == nil:
		g.breaker.recordSuccess()
		return nil
	case errors.Is(qctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded):
		g.breaker.recordFailure()
		return fmt.Errorf("%w: query timed out after %s: %w", ErrUnavailable, g.cfg.QueryTimeout, err)
	case isConnectivity(err):
		g.breaker.recordFailure()
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	default:
		// the store answered, so it is healthy even if the query was bad
		g.breaker.recordSuccess()
		return err
	}
}

// Ping verifies the store answers within the query timeout.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.Query(ctx, func(ctx context.Context, store *docstore.Store) error {
		return store.Ping(ctx)
	})
}

// Close releases the pool. Only process shutdown calls it.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.store == nil {
		return nil
	}
	err := g.store.DB().Close()
	g.store = nil
	return err
}

// handle returns the memoized store, connecting on first use. Concurrent
// callers share one connect attempt bounded by ConnectTimeout, and each stops
// waiting when its own context ends. A failed attempt is not memoized.
func (g *Gateway) handle(ctx context.Context) (*docstore.Store, error) {
	if store := g.current(); store != nil {
		return store, nil
	}

	ch := g.connects.DoChan("connect", func() (any, error) {
		if store := g.current(); store != nil {
			return store, nil
		}
		return g.connect(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*docstore.Store), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("connect: %w", ctx.Err())
	}
}

func (g *Gateway) current() *docstore.Store {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.store
}

func (g *Gateway) connect(ctx context.Context) (*docstore.Store, error) {
	cctx, cancel := context.WithTimeout(ctx, g.cfg.ConnectTimeout)
	defer cancel()

	var db *sqlx.DB
	err := retry(cctx, g.cfg.ConnectAttempts, func(ctx context.Context) error {
		var openErr error
		db, openErr = g.open(ctx, g.cfg)
		return openErr
	})
	if err != nil {
		g.logger.Warn("Document store connection failed", logger.Error(err))
		return nil, fmt.Errorf("connect: %w", err)
	}

	store := docstore.New(db)
	g.mu.Lock()
	g.store = store
	g.mu.Unlock()

	g.logger.Info("Document store connection established",
		logger.Int("max_open_conns", g.cfg.MaxOpenConns),
	)
	return store, nil
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}
	return db, nil
}

func isConnectivity(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
