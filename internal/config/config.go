// Package config provides YAML-based configuration for the appstorage
// CLI, with environment variable expansion.
package config

import (
	"fmt"
	"log/slog"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Config is the CLI configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error. Empty disables logging.
	LogLevel string `yaml:"log_level"`
	// DefaultRoot names the root used when --root is not given.
	DefaultRoot string `yaml:"default_root"`
	// Roots maps additional root names to base directories. The names
	// local, roaming and temp are built in and cannot be redefined.
	Roots map[string]string `yaml:"roots"`
	// Limits bounds raw storage usage.
	Limits LimitsConfig `yaml:"limits"`
}

// LimitsConfig bounds raw storage usage. Zero disables a bound.
type LimitsConfig struct {
	MaxConcurrentOps int64   `yaml:"max_concurrent_ops"`
	OpsPerSec        float64 `yaml:"ops_per_sec"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DefaultRoot: "local",
		Roots:       map[string]string{},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.In("", "debug", "info", "warn", "error")),
		validation.Field(&c.DefaultRoot, validation.Required),
	)
	if err != nil {
		return err
	}
	for name, base := range c.Roots {
		if err := validation.Validate(name, validation.Required, validation.NotIn("local", "roaming", "temp")); err != nil {
			return fmt.Errorf("root %q: %w", name, err)
		}
		if err := validation.Validate(base, validation.Required); err != nil {
			return fmt.Errorf("root %q: base path: %w", name, err)
		}
	}
	return c.Limits.Validate()
}

// Validate validates the limits.
func (c *LimitsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxConcurrentOps, validation.Min(int64(0))),
		validation.Field(&c.OpsPerSec, validation.Min(float64(0))),
	)
}

// Level converts LogLevel into a slog.Level. Empty maps to a level
// high enough to silence everything.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.Level(1000)
	}
}

// Load loads configuration from a YAML file with environment variable
// expansion and validates the result into target.
func Load(filename string, target *Config) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	if err := target.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
