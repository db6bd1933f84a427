// Package config loads the tool configuration from an optional YAML file
// layered with EVERION_-prefixed environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// ConfigFileName is looked up in the working directory.
const ConfigFileName = "everion.yaml"

// Config represents the complete tool configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
}

// LoggingConfig contains logging configuration. Defaults live in Default,
// not in envconfig tags, so an unset env var never clobbers a file value.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required"`
}

// PathsConfig contains the default input and output directories.
type PathsConfig struct {
	InputDir  string `yaml:"input_dir" envconfig:"INPUT_DIR" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
}

// Load builds the configuration in three layers with increasing
// precedence: built-in defaults, then the optional config file, then
// EVERION_-prefixed environment variables. The result is validated.
func Load() (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(ConfigFileName); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
		}
	}

	// envconfig only touches fields whose env var is actually set.
	if err := envconfig.Process("EVERION", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in configuration used when no file or
// environment overrides exist.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/everion.log",
		},
		Paths: PathsConfig{
			InputDir:  "data/raw",
			OutputDir: "data/processed",
		},
	}
}
