// Package config provides configuration management for strata.
// It loads settings from environment variables with the STRATA_ prefix,
// optionally layered over a YAML file, and provides sensible defaults for
// all configuration options.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/scrypster/strata/pkg/validation"
)

// Config holds all configuration settings for strata.
type Config struct {
	Validation ValidationConfig `yaml:"validation"`
	Intake     IntakeConfig     `yaml:"intake"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ValidationConfig controls how records are checked.
type ValidationConfig struct {
	Strict     bool `yaml:"strict"`      // Check pathDepth and children agreement (default: false)
	CollectAll bool `yaml:"collect_all"` // Report every violation per record (default: false)
	Tagged     bool `yaml:"tagged"`      // Dispatch entities on their type tag (default: true)
}

// IntakeConfig controls batch processing.
type IntakeConfig struct {
	Workers               int           `yaml:"workers"`                 // Concurrent validations (default: 4)
	RatePerSecond         float64       `yaml:"rate_per_second"`         // Records per second, 0 = unlimited (default: 0)
	Burst                 int           `yaml:"burst"`                   // Rate limiter burst (default: 1)
	MaxConsecutiveRejects uint32        `yaml:"max_consecutive_rejects"` // Trip a source after this many rejections in a row, 0 = never (default: 0)
	SourceCooldown        time.Duration `yaml:"source_cooldown"`         // How long a tripped source stays closed (default: 30s)
}

// LoggingConfig contains logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: info)
	Format string `yaml:"format"` // console or json (default: console)
}

// LoadConfig loads configuration from environment variables with sensible defaults.
// All environment variables use the STRATA_ prefix.
func LoadConfig() (*Config, error) {
	cfg := Defaults()
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigFile loads a YAML file over the defaults, then applies
// environment variables on top. Environment variables always win.
// An empty path behaves like LoadConfig.
func LoadConfigFile(path string) (*Config, error) {
	if path == "" {
		return LoadConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Validation: ValidationConfig{
			Strict:     false,
			CollectAll: false,
			Tagged:     true,
		},
		Intake: IntakeConfig{
			Workers:               4,
			RatePerSecond:         0,
			Burst:                 1,
			MaxConsecutiveRejects: 0,
			SourceCooldown:        30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks that every setting is in range.
func (c *Config) Validate() error {
	var errs []error
	if c.Intake.Workers < 1 {
		errs = append(errs, fmt.Errorf("intake.workers must be at least 1, got %d", c.Intake.Workers))
	}
	if c.Intake.RatePerSecond < 0 {
		errs = append(errs, fmt.Errorf("intake.rate_per_second must not be negative, got %v", c.Intake.RatePerSecond))
	}
	if c.Intake.Burst < 1 {
		errs = append(errs, fmt.Errorf("intake.burst must be at least 1, got %d", c.Intake.Burst))
	}
	if c.Intake.SourceCooldown < 0 {
		errs = append(errs, fmt.Errorf("intake.source_cooldown must not be negative, got %s", c.Intake.SourceCooldown))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q is not one of console, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// ValidationOptions converts the validation settings for the validator.
func (c *Config) ValidationOptions() validation.Options {
	return validation.Options{
		CollectAll: c.Validation.CollectAll,
		Strict:     c.Validation.Strict,
	}
}

// applyEnv overrides cfg with any STRATA_ environment variables that are set.
func applyEnv(cfg *Config) {
	cfg.Validation.Strict = getEnvBool("STRATA_STRICT", cfg.Validation.Strict)
	cfg.Validation.CollectAll = getEnvBool("STRATA_COLLECT_ALL", cfg.Validation.CollectAll)
	cfg.Validation.Tagged = getEnvBool("STRATA_TAGGED", cfg.Validation.Tagged)

	cfg.Intake.Workers = getEnvInt("STRATA_WORKERS", cfg.Intake.Workers)
	cfg.Intake.RatePerSecond = getEnvFloat("STRATA_RATE_PER_SECOND", cfg.Intake.RatePerSecond)
	cfg.Intake.Burst = getEnvInt("STRATA_RATE_BURST", cfg.Intake.Burst)
	cfg.Intake.MaxConsecutiveRejects = getEnvUint32("STRATA_MAX_CONSECUTIVE_REJECTS", cfg.Intake.MaxConsecutiveRejects)
	cfg.Intake.SourceCooldown = getEnvDuration("STRATA_SOURCE_COOLDOWN", cfg.Intake.SourceCooldown)

	cfg.Logging.Level = getEnv("STRATA_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("STRATA_LOG_FORMAT", cfg.Logging.Format)
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value.
// If the environment variable exists but cannot be parsed as an integer,
// it returns the default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvUint32 retrieves an unsigned 32-bit environment variable or returns a
// default value. Negative or oversized values keep the default.
func getEnvUint32(key string, defaultValue uint32) uint32 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseUint(value, 10, 32); err == nil {
			return uint32(n)
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns a default value.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable (e.g. "45s") or returns a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value.
// It recognizes "true", "1", "yes" as true and "false", "0", "no" as false (case-insensitive).
// If the environment variable exists but cannot be parsed as a boolean,
// it returns the default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch value {
		case "true", "1", "yes", "True", "TRUE", "Yes", "YES":
			return true
		case "false", "0", "no", "False", "FALSE", "No", "NO":
			return false
		}
	}
	return defaultValue
}
