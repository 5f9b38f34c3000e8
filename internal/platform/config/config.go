// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file,
when present, is loaded into the process environment first.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Mailer) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Mail drivers understood by [Config.MailDriver].
const (
	MailDriverSMTP = "smtp"
	MailDriverLog  = "log"
)

// # Configuration Schema

// Config holds all runtime configuration for the YaMDb API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis), holds refresh sessions
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// Cryptographic keys for access token signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required,notEmpty"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required,notEmpty"`

	// Token lifetimes
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"180m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"24h"`

	// RotateCodeOnExchange invalidates a confirmation code after its first successful use.
	RotateCodeOnExchange bool `env:"AUTH_ROTATE_CODE_ON_EXCHANGE" envDefault:"false"`

	// Outbound mail
	MailDriver   string        `env:"MAIL_DRIVER"   envDefault:"log"`
	SMTPHost     string        `env:"SMTP_HOST"     envDefault:"localhost"`
	SMTPPort     int           `env:"SMTP_PORT"     envDefault:"25"`
	SMTPUsername string        `env:"SMTP_USERNAME"`
	SMTPPassword string        `env:"SMTP_PASSWORD"`
	SMTPSender   string        `env:"SMTP_SENDER"   envDefault:"YaMDb <no-reply@yamdb.local>"`
	SMTPTimeout  time.Duration `env:"SMTP_TIMEOUT"  envDefault:"5s"`

	// Per-IP token bucket
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"100"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"150"`

	// Cross-Origin Resource Sharing
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
//
// Variables found in a '.env' file in the working directory are applied first
// but never override values already present in the environment.
func Load() (*Config, error) {

	// A missing .env file is the normal case outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.MailDriver != MailDriverSMTP && cfg.MailDriver != MailDriverLog {
		return nil, fmt.Errorf("config: unsupported MAIL_DRIVER %q", cfg.MailDriver)
	}

	// The log driver writes confirmation codes in clear
	if cfg.IsProduction() && cfg.MailDriver == MailDriverLog {
		return nil, fmt.Errorf("config: MAIL_DRIVER %q is not allowed in production", MailDriverLog)
	}

	return cfg, nil
}

// DatabaseConfig is the subset of [Config] needed by operator tooling.
type DatabaseConfig struct {
	DatabaseURL   string `env:"DATABASE_URL,required,notEmpty"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
}

// LoadDatabase parses only the database settings, so yamdbctl runs without
// Redis or signing keys configured.
func LoadDatabase() (*DatabaseConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	cfg := &DatabaseConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the extra CORS origins accepted outside development.
func (c *Config) AllowedOrigins() []string {
	return c.ExtraOrigins
}
