package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./definitions", config.Definitions.Path)
	assert.Equal(t, "./thema.db", config.Store.Path)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "text", config.Logging.Format)
}

func TestLoadFromViper(t *testing.T) {
	viper.Reset()
	viper.Set("definitions.path", "./content-types")
	viper.Set("definitions.watch", true)
	viper.Set("store.path", "./data/site.db")
	viper.Set("logging.level", "debug")

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./content-types", config.Definitions.Path)
	assert.True(t, config.Definitions.Watch)
	assert.Equal(t, "./data/site.db", config.Store.Path)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty definitions path",
			mutate:  func(c *Config) { c.Definitions.Path = "" },
			wantErr: "definitions path",
		},
		{
			name:    "traversal in store path",
			mutate:  func(c *Config) { c.Store.Path = "../../etc/passwd" },
			wantErr: "store path",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "log level",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{
				Definitions: DefinitionsConfig{Path: "./definitions"},
				Store:       StoreConfig{Path: "./thema.db"},
				Logging:     LoggingConfig{Level: "info", Format: "text"},
			}
			tt.mutate(config)

			err := Validate(config)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateNil(t *testing.T) {
	assert.Error(t, Validate(nil))
}
