// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taibuivan/yamdb/internal/platform/config"
	"github.com/taibuivan/yamdb/internal/platform/constants"
)

var (
	// Global flags, each overriding its environment variable
	databaseURL   string
	migrationPath string
	verbose       bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "yamdbctl",
	Short: "Operator tool for the YaMDb API",
	Long: `yamdbctl manages the YaMDb database outside the API server.

Settings are read from DATABASE_URL and MIGRATION_PATH (a local .env file is
honoured), and can be overridden with flags.`,
	Version:       constants.AppVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (default $DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&migrationPath, "migrations", "", "Directory of SQL migrations (default $MIGRATION_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every step")

	rootCmd.AddCommand(migrateCmd, userCmd)
}

// databaseSettings merges flags over the environment.
func databaseSettings() (*config.DatabaseConfig, error) {
	if databaseURL != "" {
		if err := os.Setenv("DATABASE_URL", databaseURL); err != nil {
			return nil, err
		}
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		return nil, err
	}
	if migrationPath != "" {
		cfg.MigrationPath = migrationPath
	}
	return cfg, nil
}

// newLogger writes text logs to stderr, at debug level with --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
