// Package config loads ideagraph settings from a TOML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/meikuraledutech/ideagraph/layout"
)

// Config holds ideagraph configuration.
type Config struct {
	Backend BackendConfig  `toml:"backend"`
	Layout  layout.Options `toml:"layout"`
	Server  ServerConfig   `toml:"server"`
	Log     LogConfig      `toml:"log"`
}

// BackendConfig points the client at a roadmap backend.
type BackendConfig struct {
	URL string `toml:"url" validate:"required,url"`
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration `toml:"timeout" validate:"min=0"`
}

// ServerConfig controls the reference backend.
type ServerConfig struct {
	Addr string `toml:"addr" validate:"required"`
	// DatabaseURL selects the PostgreSQL gallery. Empty keeps it in memory.
	DatabaseURL   string `toml:"database_url"`
	Fixtures      string `toml:"fixtures"`
	AllowedOrigin string `toml:"allowed_origin"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `toml:"level" validate:"oneof=debug info warn error"`
	Development bool   `toml:"development"`
}

var validate = validator.New()

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{URL: "http://localhost:8000"},
		Layout:  layout.DefaultOptions(),
		Server: ServerConfig{
			Addr:          ":8000",
			AllowedOrigin: "http://localhost:5173",
		},
		Log: LogConfig{Level: "info", Development: true},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and canonicalizes the layout direction.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	d, err := layout.ParseDirection(string(c.Layout.Direction))
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Layout.Direction = d
	return nil
}

func (c *Config) applyEnv() {
	c.Backend.URL = getEnv("IDEAGRAPH_BACKEND_URL", c.Backend.URL)
	c.Backend.Timeout = getEnvDuration("IDEAGRAPH_BACKEND_TIMEOUT", c.Backend.Timeout)

	c.Layout.Direction = layout.Direction(getEnv("IDEAGRAPH_LAYOUT_DIRECTION", string(c.Layout.Direction)))

	c.Server.Addr = getEnv("IDEAGRAPH_ADDR", c.Server.Addr)
	c.Server.DatabaseURL = getEnv("DATABASE_URL", c.Server.DatabaseURL)
	c.Server.Fixtures = getEnv("IDEAGRAPH_FIXTURES", c.Server.Fixtures)
	c.Server.AllowedOrigin = getEnv("IDEAGRAPH_ALLOWED_ORIGIN", c.Server.AllowedOrigin)

	c.Log.Level = getEnv("IDEAGRAPH_LOG_LEVEL", c.Log.Level)
	c.Log.Development = getEnvBool("IDEAGRAPH_LOG_DEVELOPMENT", c.Log.Development)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return value == "yes"
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
