// Package config provides bootstrap configuration for the vmxd daemon
// using Viper.
//
// This is the daemon's own startup configuration (logging, manifest
// source), distinct from the persisted settings registry: registry
// values are user-visible state with validation and scope routing,
// while these knobs only shape how the process comes up.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/thoreinstein/vmx/internal/platform"
)

// Config is the daemon's bootstrap configuration.
type Config struct {
	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// LogFormat selects text or json output.
	LogFormat string `mapstructure:"log_format"`

	// ManifestPath optionally points at a local simplestreams manifest
	// to preload at startup.
	ManifestPath string `mapstructure:"manifest_path"`
}

// Init initializes Viper with defaults and environment support.
// Call this once at daemon startup before accessing config values.
func Init(caps platform.Capabilities) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(caps.DaemonConfigHome())

	// VMXD_LOG_LEVEL, VMXD_MANIFEST_PATH, ...
	viper.SetEnvPrefix("VMXD")
	viper.AutomaticEnv()

	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("manifest_path", "")
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// An explicitly requested file must exist.
			if path != "" {
				return nil, fmt.Errorf("config file not found at %s: %w", path, err)
			}
		} else {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
