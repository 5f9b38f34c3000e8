// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/yamdb/internal/platform/migration"
)

// migrateCmd groups the schema commands
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long: `Manage the database schema.

Subcommands:
  up       - Apply pending migrations
  down     - Roll back the latest migration
  version  - Show the applied schema version`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := databaseSettings()
		if err != nil {
			return err
		}
		if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, newLogger()); err != nil {
			return err
		}
		return printVersion(cmd, cfg.DatabaseURL, cfg.MigrationPath)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the latest migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := databaseSettings()
		if err != nil {
			return err
		}
		if err := migration.StepDown(cfg.DatabaseURL, cfg.MigrationPath, newLogger()); err != nil {
			return err
		}
		return printVersion(cmd, cfg.DatabaseURL, cfg.MigrationPath)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the applied schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := databaseSettings()
		if err != nil {
			return err
		}
		return printVersion(cmd, cfg.DatabaseURL, cfg.MigrationPath)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
}

func printVersion(cmd *cobra.Command, dsn, path string) error {
	status, err := migration.Version(dsn, path, newLogger())
	if err != nil {
		return err
	}
	cmd.Println(formatStatus(status))
	return nil
}

func formatStatus(status migration.Status) string {
	switch {
	case status.Empty:
		return "schema version: none"
	case status.Dirty:
		return fmt.Sprintf("schema version: %d (dirty)", status.Version)
	default:
		return fmt.Sprintf("schema version: %d", status.Version)
	}
}
