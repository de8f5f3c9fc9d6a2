// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the Medley client.
//
// Configuration is loaded from a single file specified by:
//   - MEDLEY_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. This ensures deterministic,
// auditable configuration with no hidden overrides.
//
// The config file may contain environment-specific sections (development,
// staging, production) that override base values when the environment matches.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the master configuration for the Medley client.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// Backend configures the marketplace gateway connection.
	Backend BackendConfig `yaml:"backend"`

	// Logging configures where structured log output goes.
	Logging LoggingConfig `yaml:"logging"`

	// EnvironmentOverrides contains per-environment overrides.
	// These are applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Backend *BackendConfig `yaml:"backend,omitempty"`
	Logging *LoggingConfig `yaml:"logging,omitempty"`
}

// BackendConfig configures the marketplace gateway connection.
type BackendConfig struct {
	// URL is the gateway base URL, e.g. https://api.medley.live.
	// Ignored when Demo is true.
	URL string `yaml:"url"`

	// Timeout bounds each gateway request.
	// Default: 30s
	Timeout string `yaml:"timeout"`

	// Demo runs against the built-in in-memory backend instead of a
	// gateway. Default: true (development), false otherwise.
	Demo bool `yaml:"demo"`
}

// LoggingConfig configures where structured log output goes.
type LoggingConfig struct {
	// Output is the log file path. Empty means stderr; the TUI
	// redirects stderr logging into its own log pane.
	Output string `yaml:"output"`

	// Level is the minimum record level: debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`
}

// Default returns the default configuration.
// These defaults are used as a base before loading the config file.
// They exist primarily to ensure all fields have sensible zero-values,
// not as a fallback - the config file is required.
func Default() *Config {
	return &Config{
		Environment: Development,
		Backend: BackendConfig{
			URL:     "http://localhost:8943",
			Timeout: "30s",
			Demo:    true,
		},
		Logging: LoggingConfig{
			Output: "",
			Level:  "info",
		},
	}
}

// Load loads configuration from the MEDLEY_CONFIG environment variable.
//
// This is the only way to load configuration without an explicit path.
// There are no fallbacks or defaults - if MEDLEY_CONFIG is not set, this fails.
// This ensures deterministic, auditable configuration with no hidden overrides.
func Load() (*Config, error) {
	configPath := os.Getenv("MEDLEY_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("MEDLEY_CONFIG environment variable not set; " +
			"set it to the path of your medley.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables do not
// override config values - this ensures deterministic, auditable configuration.
// The only expansion performed is ${HOME} and similar path variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	// Apply environment-specific overrides (development/staging/production sections in the file).
	cfg.applyEnvironmentOverrides()

	// Expand ${HOME} and similar variables in paths for portability.
	cfg.expandVariables()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, c)
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		// Production default: never the demo backend.
		if overrides == nil {
			overrides = &ConfigOverrides{
				Backend: &BackendConfig{
					Demo: false,
				},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Backend != nil {
		if overrides.Backend.URL != "" {
			c.Backend.URL = overrides.Backend.URL
		}
		if overrides.Backend.Timeout != "" {
			c.Backend.Timeout = overrides.Backend.Timeout
		}
		// Demo is a bool, so we always apply it from overrides.
		c.Backend.Demo = overrides.Backend.Demo
	}

	if overrides.Logging != nil {
		if overrides.Logging.Output != "" {
			c.Logging.Output = overrides.Logging.Output
		}
		if overrides.Logging.Level != "" {
			c.Logging.Level = overrides.Logging.Level
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Logging.Output = expandVars(c.Logging.Output, vars)
	if c.Logging.Output != "" {
		c.Logging.Output = filepath.Clean(c.Logging.Output)
	}
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// RequestTimeout parses the backend timeout.
func (c *Config) RequestTimeout() (time.Duration, error) {
	timeout, err := time.ParseDuration(c.Backend.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid backend.timeout %q: %w", c.Backend.Timeout, err)
	}
	if timeout <= 0 {
		return 0, fmt.Errorf("backend.timeout must be positive, got %s", timeout)
	}
	return timeout, nil
}

// LogLevel maps the configured logging level onto slog. Unknown values
// fall back to info; Validate reports them as errors.
func (c *Config) LogLevel() slog.Level {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if !c.Backend.Demo && c.Backend.URL == "" {
		errs = append(errs, fmt.Errorf("backend.url is required unless backend.demo is set"))
	}

	if _, err := c.RequestTimeout(); err != nil {
		errs = append(errs, err)
	}

	levels := []string{"debug", "info", "warn", "error"}
	if !contains(levels, c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level must be one of: %v", levels))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
