// Package cmd provides the command-line interface for thema with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration with clear precedence:
//	1. Command-line flags (--config, --log-level, etc.) - highest priority
//	2. THEMA_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (THEMA_STORE_PATH, etc.)
//	4. Configuration files (.thema.yml) - lowest priority
//
// Environment Variables:
//
//	THEMA_CONFIG_FILE: Path to custom configuration file
//	THEMA_DEFINITIONS_PATH: Override the content definition directory
//	THEMA_STORE_PATH: Override the document store location
//	And more following the THEMA_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/thema/internal/config"
	"github.com/conneroisu/thema/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "thema",
	Short: "Content shape and user management toolkit",
	Long: `Thema manages content-type definitions, resolves template alternates
for part shapes, and administers users in a document store.

Quick Start:
  thema definitions               List content-type definitions
  thema alternates                Resolve alternates for a part shape
  thema users create              Create a user
  thema users find                Look up a user

Documentation: https://github.com/conneroisu/thema`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .thema.yml, can also use THEMA_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. THEMA_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .thema.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("THEMA_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".thema")
	}

	viper.SetEnvPrefix("THEMA")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing or malformed config file falls back to defaults.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig resolves the effective configuration for a command run.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the command logger from the effective configuration.
func newLogger(cfg *config.Config) logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Format: cfg.Logging.Format,
	})
}
