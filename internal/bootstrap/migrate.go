package bootstrap

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/nardi-nardi/naanews-sub000/internal/logger"
)

// Migration directions accepted by Migrate.
const (
	MigrateUp   = "up"
	MigrateDown = "down"
)

// ErrNoDatabase is returned by commands that need a configured database.
var ErrNoDatabase = errors.New("database.url is not configured")

// Migrate applies or rolls back every migration under the configured path.
func Migrate(configPath, direction string) error {
	if direction != MigrateUp && direction != MigrateDown {
		return fmt.Errorf("invalid direction %q (must be %q or %q)", direction, MigrateUp, MigrateDown)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	if !cfg.Database.Enabled() {
		return ErrNoDatabase
	}

	log, err := CreateLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	m, err := migrate.New(cfg.Database.MigrationsPath, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if direction == MigrateUp {
		err = m.Up()
	} else {
		err = m.Down()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("No migrations to apply", logger.String("direction", direction))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration %s: %w", direction, err)
	}

	version, dirty, versionErr := m.Version()
	fields := []logger.Field{logger.String("direction", direction)}
	if versionErr == nil {
		fields = append(fields, logger.Int("version", int(version)), logger.Bool("dirty", dirty))
	}
	log.Info("Migration completed", fields...)
	return nil
}
