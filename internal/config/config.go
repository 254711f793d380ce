package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/abelbrown/tracewatch/internal/tracing"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvLevel     = "TRACEWATCH_LEVEL"
	EnvMaxEvents = "TRACEWATCH_MAX_EVENTS"
)

// Config is the persistent application configuration
type Config struct {
	// Ring buffer capacity
	MaxEvents int `json:"max_events"`

	// Initial collection threshold, e.g. "info" or "trace"
	Level string `json:"level"`

	// UI poll interval in milliseconds
	RefreshMs int `json:"refresh_ms"`

	// Synthetic workload driven by cmd/tracewatch
	Demo DemoConfig `json:"demo"`
}

// DemoConfig controls the built-in event producers
type DemoConfig struct {
	Producers  int     `json:"producers"`
	RatePerSec float64 `json:"rate_per_sec"` // Per producer; 0 disables
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MaxEvents: tracing.DefaultMaxEvents,
		Level:     "info",
		RefreshMs: 100,
		Demo: DemoConfig{
			Producers:  4,
			RatePerSec: 20,
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tracewatch", "config.json")
}

// Load reads config from path, or returns defaults when the file does not
// exist. Fields absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes config to path
func (c *Config) Save(path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from environment variables. Unparseable values
// are reported and leave the field untouched.
func (c *Config) ApplyEnv() error {
	var errs []error
	if v := os.Getenv(EnvLevel); v != "" {
		if _, err := tracing.ParseLevel(v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvLevel, err))
		} else {
			c.Level = v
		}
	}
	if v := os.Getenv(EnvMaxEvents); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvMaxEvents, err))
		} else {
			c.MaxEvents = n
		}
	}
	return errors.Join(errs...)
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error
	if c.MaxEvents <= 0 {
		errs = append(errs, fmt.Errorf("max_events must be positive, got %d", c.MaxEvents))
	}
	if _, err := tracing.ParseLevel(c.Level); err != nil {
		errs = append(errs, fmt.Errorf("level: %w", err))
	}
	if c.RefreshMs <= 0 {
		errs = append(errs, fmt.Errorf("refresh_ms must be positive, got %d", c.RefreshMs))
	}
	if c.Demo.Producers < 0 {
		errs = append(errs, fmt.Errorf("demo.producers must not be negative, got %d", c.Demo.Producers))
	}
	if c.Demo.RatePerSec < 0 {
		errs = append(errs, fmt.Errorf("demo.rate_per_sec must not be negative, got %g", c.Demo.RatePerSec))
	}
	return errors.Join(errs...)
}

// LevelValue returns the parsed Level, falling back to info.
func (c *Config) LevelValue() tracing.Level {
	l, err := tracing.ParseLevel(c.Level)
	if err != nil {
		return tracing.LevelInfo
	}
	return l
}

// RefreshInterval returns RefreshMs as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshMs) * time.Millisecond
}
