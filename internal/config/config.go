// Package config loads optional tool configuration from .ralph/config.yaml.
// Every field has a default; a missing file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/thruflo/ralph/internal/state"
)

// Default values for Config.
const (
	DefaultMaxIterations = 0
	DefaultLogLevel      = "warn"
)

// Config represents the .ralph/config.yaml file.
type Config struct {
	// StateFile is the loop state file path, relative to the working
	// directory unless absolute.
	StateFile string `yaml:"state_file"`
	// MaxIterations is the default iteration cap applied by `ralph start`
	// when no --max-iterations flag is given. Zero means unlimited.
	MaxIterations int `yaml:"max_iterations"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		StateFile:     state.DefaultStateFile,
		MaxIterations: DefaultMaxIterations,
		LogLevel:      DefaultLogLevel,
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// LoadConfig reads and parses .ralph/config.yaml from the given base path.
// If the file doesn't exist, returns default config. Applies defaults for
// any missing fields.
func LoadConfig(basePath string) (*Config, error) {
	configPath := filepath.Join(basePath, ".ralph", "config.yaml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ValidateConfig checks that all config values are valid.
func ValidateConfig(cfg *Config) error {
	if cfg.StateFile == "" {
		return ValidationError{Field: "state_file", Message: "required field is empty"}
	}
	if cfg.MaxIterations < 0 {
		return ValidationError{Field: "max_iterations", Message: "must be non-negative"}
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return ValidationError{Field: "log_level", Message: "must be one of debug, info, warn, error"}
	}
	return nil
}
