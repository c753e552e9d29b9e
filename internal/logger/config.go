package logger

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of the logger's environment variables.
const EnvPrefix = "ASSERTENV_LOG"

// Config holds logger configuration
type Config struct {
	Level  string `envconfig:"LEVEL" default:"warn"`     // "debug", "info", "warn" or "error"
	Format string `envconfig:"FORMAT" default:"console"` // "console" or "json"
	Caller bool   `envconfig:"CALLER"`                   // Include caller information
}

// ConfigFromEnv creates a logger configuration from ASSERTENV_LOG_LEVEL,
// ASSERTENV_LOG_FORMAT and ASSERTENV_LOG_CALLER.
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("logger config: %w", err)
	}

	cfg.Level = strings.ToLower(cfg.Level)
	cfg.Format = strings.ToLower(cfg.Format)

	// Set but empty behaves like unset.
	if cfg.Level == "" {
		cfg.Level = "warn"
	}
	if cfg.Format == "" {
		cfg.Format = "console"
	}

	return cfg, nil
}

// IsDevelopment returns true if the logger is configured for development mode
func (c *Config) IsDevelopment() bool {
	return c.Format != "json"
}
