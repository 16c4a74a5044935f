package bootstrap

import (
	"fmt"

	"github.com/nardi-nardi/naanews-sub000/internal/config"
	"github.com/nardi-nardi/naanews-sub000/internal/logger"
)

// LoadConfig loads and validates configuration from path.
func LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// CreateLogger creates a logger instance from configuration.
func CreateLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(
		logger.String("service", serviceName),
		logger.String("version", Version),
	), nil
}
