// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Config holds all server configuration.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string

	// DBPath is the SQLite database file path. Parent directories are
	// created on startup.
	DBPath string

	// JWTSecret signs session tokens. Required; there is no safe default.
	JWTSecret string

	// TokenDuration is the lifetime of issued session tokens.
	TokenDuration time.Duration

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from environment variables, applying defaults for
// everything except the JWT secret.
func Load() (*Config, error) {
	tokenDuration, err := time.ParseDuration(getEnv("TOKEN_DURATION", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_DURATION: %w", err)
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBPath:        getEnv("DB_PATH", "data/fairshare.db"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenDuration: tokenDuration,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 bytes")
	}
	if c.TokenDuration <= 0 {
		return errors.New("TOKEN_DURATION must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
