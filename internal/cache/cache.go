// Package cache is a process-wide, tag-aware read-through cache for loader
// functions. Entries live for a fixed TTL or until their tag is invalidated.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nardi-nardi/naanews-sub000/internal/logger"
	"github.com/nardi-nardi/naanews-sub000/internal/metrics"
)

const (
	// DefaultTTL applies when New is given a non-positive TTL.
	DefaultTTL = 300 * time.Second

	// pruneThreshold is the map size at which stores sweep expired entries.
	pruneThreshold = 1024
)

type entry struct {
	value    any
	storedAt time.Time
	tag      string
	gen      uint64
}

type Option func(*Cache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

func WithLogger(log logger.Logger) Option {
	return func(c *Cache) { c.logger = log }
}

// Cache maps keys to immutable loaded values. Each tag carries a generation
// counter; a load started under an older generation is never stored.
type Cache struct {
	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Metrics
	logger  logger.Logger
	group   singleflight.Group

	mu      sync.Mutex
	entries map[string]*entry
	gens    map[string]uint64
}

func New(ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		ttl:     ttl,
		now:     time.Now,
		logger:  logger.NewNop(),
		entries: make(map[string]*entry),
		gens:    make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the freshness window.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Invalidate drops every entry under tag. When it returns, the next read of
// any key under tag runs its loader, even if a load was in flight.
func (c *Cache) Invalidate(tag string) int {
	c.mu.Lock()
	c.gens[tag]++
	dropped := 0
	for key, e := range c.entries {
		if e.tag == tag {
			delete(c.entries, key)
			dropped++
		}
	}
	c.mu.Unlock()

	c.metrics.Invalidated(tag)
	c.logger.Debug("Cache tag invalidated",
		logger.Tag(tag),
		logger.Int("dropped", dropped),
	)
	return dropped
}

// Stats is a point-in-time view of the cache contents.
type Stats struct {
	TTL         string            `json:"ttl"`
	Entries     int               `json:"entries"`
	Fresh       int               `json:"fresh"`
	ByTag       map[string]int    `json:"by_tag"`
	Generations map[string]uint64 `json:"generations"`
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	stats := Stats{
		TTL:         c.ttl.String(),
		Entries:     len(c.entries),
		ByTag:       make(map[string]int),
		Generations: make(map[string]uint64, len(c.gens)),
	}
	for _, e := range c.entries {
		stats.ByTag[e.tag]++
		if c.fresh(e, now) {
			stats.Fresh++
		}
	}
	for tag, gen := range c.gens {
		stats.Generations[tag] = gen
	}
	return stats
}

func (c *Cache) fresh(e *entry, now time.Time) bool {
	return now.Sub(e.storedAt) < c.ttl
}

// lookup returns a fresh value for key, or the tag generation a miss must
// load under.
func (c *Cache) lookup(key, tag string) (any, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && c.fresh(e, c.now()) {
		return e.value, e.gen, true
	}
	return nil, c.gens[tag], false
}

// store keeps value unless tag was invalidated after the load began.
func (c *Cache) store(key, tag string, gen uint64, value any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[tag] != gen {
		return false
	}
	now := c.now()
	if len(c.entries) >= pruneThreshold {
		for k, e := range c.entries {
			if !c.fresh(e, now) {
				delete(c.entries, k)
			}
		}
	}
	c.entries[key] = &entry{value: value, storedAt: now, tag: tag, gen: gen}
	return true
}

// get serves key from the cache or runs load once for all concurrent callers.
// load receives a context detached from the caller's cancellation so an
// aborted request cannot fail a load other callers are waiting on.
func get[T any](ctx context.Context, c *Cache, name, key, tag string, load func(context.Context) T) T {
	cached, gen, ok := c.lookup(key, tag)
	if ok {
		c.metrics.CacheHit(name)
		value, _ := cached.(T)
		return value
	}
	c.metrics.CacheMiss(name)

	flight := key + "@" + strconv.FormatUint(gen, 10)

	v, _, _ := c.group.Do(flight, func() (any, error) {
		value := load(context.WithoutCancel(ctx))
		if !c.store(key, tag, gen, value) {
			c.metrics.LoadDiscarded(tag)
			c.logger.Debug("Discarded load finished after invalidation",
				logger.String("key", key),
				logger.Tag(tag),
			)
		}
		return value, nil
	})
	value, _ := v.(T)
	return value
}

// Wrap0 caches a loader without arguments under name.
func Wrap0[T any](c *Cache, name, tag string, fn func(context.Context) T) func(context.Context) T {
	return func(ctx context.Context) T {
		return get(ctx, c, name, name, tag, fn)
	}
}

// Wrap1 caches a one-argument loader. The key is name plus the argument.
func Wrap1[A comparable, T any](c *Cache, name, tag string, fn func(context.Context, A) T) func(context.Context, A) T {
	return func(ctx context.Context, a A) T {
		key := Key(name, a)
		return get(ctx, c, name, key, tag, func(ctx context.Context) T {
			return fn(ctx, a)
		})
	}
}

// Key builds the cache key for name called with args.
func Key(name string, args ...any) string {
	key := name
	for _, a := range args {
		key += fmt.Sprintf("|%#v", a)
	}
	return key
}
