// Package config provides configuration management for thema using Viper for
// flexible configuration loading from files, environment variables, and
// command-line flags.
//
// The configuration system supports YAML files and environment variable
// overrides with the THEMA_ prefix. It manages the content definition
// directory, the document store location, and logging options.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Definitions DefinitionsConfig `yaml:"definitions"`
	Store       StoreConfig       `yaml:"store"`
	Logging     LoggingConfig     `yaml:"logging"`

	// Roles is the set of role names users may be granted.
	Roles []string `yaml:"roles"`
}

type DefinitionsConfig struct {
	// Path is the directory holding content-type definition YAML files.
	Path string `yaml:"path"`
	// Watch enables hot reload of definitions on file change.
	Watch bool `yaml:"watch"`
}

type StoreConfig struct {
	// Path is the SQLite database file backing the document session.
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Definitions.Path == "" {
		config.Definitions.Path = "./definitions"
	}

	if config.Store.Path == "" {
		config.Store.Path = "./thema.db"
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "text"
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks configuration values for obvious misuse before any
// component consumes them.
func Validate(config *Config) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := validatePath(config.Definitions.Path); err != nil {
		return fmt.Errorf("invalid definitions path: %w", err)
	}

	if err := validatePath(config.Store.Path); err != nil {
		return fmt.Errorf("invalid store path: %w", err)
	}

	switch config.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", config.Logging.Level)
	}

	switch config.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", config.Logging.Format)
	}

	return nil
}

func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	cleaned := filepath.Clean(path)
	if strings.Contains(cleaned, "..") {
		return fmt.Errorf("path %q contains directory traversal", path)
	}

	return nil
}
