// Package config loads naanews configuration from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/nardi-nardi/naanews-sub000/internal/logger"
)

const (
	defaultServerPort      = 8060
	defaultServerTimeout   = 30 * time.Second
	defaultAdminRateLimit  = 10
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
	defaultQueryTimeout    = 3 * time.Second
	defaultConnectTimeout  = 5 * time.Second
	defaultConnectAttempts = 2
	defaultBreakerFailures = 3
	defaultBreakerCooldown = 30 * time.Second
	defaultCacheTTL        = 300 * time.Second
	defaultRedisAddress    = "localhost:6379"
	defaultRedisChannel    = "naanews:cache-invalidate"
	defaultRedisStream     = "content-events"
	defaultRedisDial       = 2 * time.Second
	defaultMigrationsPath  = "file://migrations"
)

type Config struct {
	Debug    bool           `env:"APP_DEBUG" yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  logger.Config  `yaml:"logging"`
}

type ServerConfig struct {
	Host         string        `env:"SERVER_HOST"  yaml:"host"`
	Port         int           `env:"SERVER_PORT"  yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" yaml:"cors_origins"`

	// AdminRateLimit is the admin API budget in requests per second.
	AdminRateLimit int `yaml:"admin_rate_limit"`
	AdminRateBurst int `yaml:"admin_rate_burst"`
}

// DatabaseConfig describes the document store. An empty URL runs the site on
// seed data only.
type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"             yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	QueryTimeout    time.Duration `env:"DATABASE_QUERY_TIMEOUT"   yaml:"query_timeout"`
	ConnectTimeout  time.Duration `env:"DATABASE_CONNECT_TIMEOUT" yaml:"connect_timeout"`
	ConnectAttempts int           `yaml:"connect_attempts"`
	BreakerFailures int           `yaml:"breaker_failures"`
	BreakerCooldown time.Duration `yaml:"breaker_cooldown"`
	MigrationsPath  string        `env:"MIGRATIONS_PATH"          yaml:"migrations_path"`
}

// Enabled reports whether a persistent store is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

type CacheConfig struct {
	TTL time.Duration `env:"CACHE_TTL" yaml:"ttl"`
}

// RedisConfig enables cross-process invalidation and mutation events.
type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED"  yaml:"enabled"`
	Address  string `env:"REDIS_ADDRESS"  yaml:"address"`
	Password string `env:"REDIS_PASSWORD" yaml:"password"`
	DB       int    `env:"REDIS_DB"       yaml:"db"`
	Channel  string `yaml:"channel"`
	Stream   string `yaml:"stream"`

	DialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT" yaml:"dial_timeout"`
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("server.port must be between 1 and 65535")
	}
	if c.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be positive")
	}
	if c.Database.QueryTimeout <= 0 {
		return errors.New("database.query_timeout must be positive")
	}
	if c.Redis.Enabled && c.Redis.Address == "" {
		return errors.New("redis.address is required when redis is enabled")
	}
	return nil
}

// Load reads path, applies env overrides and defaults, and validates.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("load environment files: %w", err)
	}

	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	if err := applyEnv(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}
	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultServerTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultServerTimeout
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Server.AdminRateLimit == 0 {
		cfg.Server.AdminRateLimit = defaultAdminRateLimit
	}
	if cfg.Server.AdminRateBurst == 0 {
		cfg.Server.AdminRateBurst = cfg.Server.AdminRateLimit
	}

	db := &cfg.Database
	if db.MaxOpenConns == 0 {
		db.MaxOpenConns = defaultMaxOpenConns
	}
	if db.MaxIdleConns == 0 {
		db.MaxIdleConns = defaultMaxIdleConns
	}
	if db.ConnMaxLifetime == 0 {
		db.ConnMaxLifetime = defaultConnMaxLifetime
	}
	if db.QueryTimeout == 0 {
		db.QueryTimeout = defaultQueryTimeout
	}
	if db.ConnectTimeout == 0 {
		db.ConnectTimeout = defaultConnectTimeout
	}
	if db.ConnectAttempts == 0 {
		db.ConnectAttempts = defaultConnectAttempts
	}
	if db.BreakerFailures == 0 {
		db.BreakerFailures = defaultBreakerFailures
	}
	if db.BreakerCooldown == 0 {
		db.BreakerCooldown = defaultBreakerCooldown
	}
	if db.MigrationsPath == "" {
		db.MigrationsPath = defaultMigrationsPath
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = defaultCacheTTL
	}

	if cfg.Redis.Address == "" {
		cfg.Redis.Address = defaultRedisAddress
	}
	if cfg.Redis.Channel == "" {
		cfg.Redis.Channel = defaultRedisChannel
	}
	if cfg.Redis.Stream == "" {
		cfg.Redis.Stream = defaultRedisStream
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = defaultRedisDial
	}

	cfg.Logging.SetDefaults()
	if cfg.Debug {
		cfg.Logging.Level = "debug"
		cfg.Logging.Development = true
	}
}
