// Package redis builds the Redis client shared by invalidation fan-out and the
// content event stream.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/nardi-nardi/naanews-sub000/internal/config"
)

// ClientName identifies naanews connections in CLIENT LIST.
const ClientName = "naanews"

// ErrEmptyAddress is returned when Redis is enabled without an address.
var ErrEmptyAddress = errors.New("redis address is required")

// NewClient connects to cfg.Address and verifies it answers PING within the
// dial timeout. The caller owns the returned client.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyAddress
	}

	client := redis.NewClient(options(cfg))

	pingCtx, cancel := context.WithTimeout(ctx, client.Options().DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Address, err)
	}
	return client, nil
}

// options maps the service config onto client options. Pub/sub listeners hold
// one connection each, so the pool is left at the library default.
func options(cfg config.RedisConfig) *redis.Options {
	opts := &redis.Options{
		Addr:       cfg.Address,
		Password:   cfg.Password,
		DB:         cfg.DB,
		ClientName: ClientName,
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
		opts.ReadTimeout = cfg.DialTimeout
		opts.WriteTimeout = cfg.DialTimeout
	}
	return opts
}
