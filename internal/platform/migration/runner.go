// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration wraps golang-migrate for the YaMDb schema.
//
// The API server applies pending migrations on startup; yamdbctl exposes the
// same operations for manual use (up, down one step, version).
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers the "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Status describes the schema version recorded in the database.
type Status struct {
	Version uint
	Dirty   bool
	// Empty is true when no migration has ever been applied.
	Empty bool
}

// RunUp applies all pending UP migrations.
func RunUp(dsn, migrationsPath string, logger *slog.Logger) error {
	return withMigrator(dsn, migrationsPath, logger, func(migrator *migrate.Migrate) error {
		before, err := readStatus(migrator)
		if err != nil {
			return err
		}
		if before.Dirty {
			return fmt.Errorf("migration: database is dirty at version %d (manual intervention required)", before.Version)
		}

		logger.Info("migration_started", slog.Uint64("current_version", uint64(before.Version)))

		if err := migrator.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				logger.Info("migration_already_up_to_date")
				return nil
			}
			return fmt.Errorf("migration: up failed: %w", err)
		}

		after, err := readStatus(migrator)
		if err != nil {
			return err
		}
		logger.Info("migration_successful",
			slog.Uint64("from_version", uint64(before.Version)),
			slog.Uint64("to_version", uint64(after.Version)),
		)
		return nil
	})
}

// StepDown reverts the most recently applied migration.
func StepDown(dsn, migrationsPath string, logger *slog.Logger) error {
	return withMigrator(dsn, migrationsPath, logger, func(migrator *migrate.Migrate) error {
		if err := migrator.Steps(-1); err != nil {
			if errors.Is(err, migrate.ErrNoChange) || errors.Is(err, migrate.ErrNilVersion) {
				logger.Info("migration_nothing_to_revert")
				return nil
			}
			return fmt.Errorf("migration: down failed: %w", err)
		}
		logger.Info("migration_reverted")
		return nil
	})
}

// Version reports the schema version currently recorded in the database.
func Version(dsn, migrationsPath string, logger *slog.Logger) (Status, error) {
	var status Status
	err := withMigrator(dsn, migrationsPath, logger, func(migrator *migrate.Migrate) error {
		var err error
		status, err = readStatus(migrator)
		return err
	})
	return status, err
}

func withMigrator(dsn, migrationsPath string, logger *slog.Logger, run func(*migrate.Migrate) error) error {
	migrator, err := migrate.New("file://"+migrationsPath, toPgx5DSN(dsn))
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer func() {
		sourceErr, dbErr := migrator.Close()
		if sourceErr != nil {
			logger.Error("migration_source_close_failed", slog.Any("error", sourceErr))
		}
		if dbErr != nil {
			logger.Error("migration_db_close_failed", slog.Any("error", dbErr))
		}
	}()

	migrator.Log = &migrateLogger{logger: logger}
	return run(migrator)
}

func readStatus(migrator *migrate.Migrate) (Status, error) {
	version, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{Empty: true}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("migration: failed to read version: %w", err)
	}
	return Status{Version: version, Dirty: dirty}, nil
}

// toPgx5DSN rewrites postgres:// and postgresql:// URLs to the pgx5:// scheme
// expected by the golang-migrate pgx/v5 driver.
func toPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger *slog.Logger
}

func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *migrateLogger) Verbose() bool {
	return false
}
