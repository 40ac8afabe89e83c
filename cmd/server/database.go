package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/platform/sqlite"
)

// Database drivers accepted in configuration.
const (
	driverPostgres = "postgres"
	driverSQLite   = "sqlite"
)

// setupAppDatabase opens and verifies the configured database.
func setupAppDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.Driver {
	case driverPostgres:
		db, err = postgres.Open(ctx, cfg.URL)
	case driverSQLite:
		db, err = sqlite.Open(ctx, cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Database connection established", slog.String("driver", cfg.Driver))
	return db, nil
}

// migrateDatabase runs a goose command with the migrations embedded for driver.
func migrateDatabase(ctx context.Context, db *sql.DB, driver, command string, logger *slog.Logger) error {
	var err error
	switch driver {
	case driverPostgres:
		err = postgres.Migrate(ctx, db, command, logger)
	case driverSQLite:
		err = sqlite.Migrate(ctx, db, command, logger)
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("migration %q failed: %w", command, err)
	}
	return nil
}
