// Package config resolves all external configuration once at process start
// into an immutable struct passed explicitly into constructors. The pipeline
// never reads environment state directly.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultModel is used for every stage unless overridden. The router and
// extractor stay on this cheap tier regardless; only the response stage model
// is externally overridable.
const DefaultModel = "gpt-4o-mini"

// Config holds all application configuration for relay.
// It is loaded from ~/.relay/config.yaml and overridden by RELAY_* environment
// variables (RELAY_API_KEY, RELAY_RESPONSE_MODEL, ...).
type Config struct {
	// APIKey authenticates against the generation backend. Required;
	// absence is a fatal startup error, never a pipeline error.
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty"`

	// Endpoint overrides the generation backend base URL. Empty uses the
	// client default; any OpenAI-compatible server works.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`

	// RouterModel is the model for classification and query extraction,
	// invoked at temperature zero.
	RouterModel string `mapstructure:"router_model" yaml:"router_model"`

	// ResponseModel is the model for final response generation.
	ResponseModel string `mapstructure:"response_model" yaml:"response_model"`

	// SearchAPIKey enables the Tavily search backend. Empty falls back to
	// the canned searcher, which keeps the pipeline runnable offline.
	SearchAPIKey string `mapstructure:"search_api_key" yaml:"search_api_key,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		RouterModel:   DefaultModel,
		ResponseModel: DefaultModel,
		LogLevel:      "info",
	}
}

// Load reads configuration from the default location (~/.relay/config.yaml)
// and merges environment variables over it.
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return LoadFromPath(filepath.Join(homeDir, ".relay", "config.yaml"))
}

// LoadFromPath reads configuration from a specific file path and merges
// environment variables over it. A missing file is created with defaults so
// users have something to edit.
func LoadFromPath(path string) (*Config, error) {
	path = expandPath(path)

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeConfigFile(path, Default()); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Environment overrides, e.g. RELAY_API_KEY, RELAY_RESPONSE_MODEL.
	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := Default()
	v.SetDefault("api_key", "")
	v.SetDefault("endpoint", "")
	v.SetDefault("router_model", defaults.RouterModel)
	v.SetDefault("response_model", defaults.ResponseModel)
	v.SetDefault("search_api_key", "")
	v.SetDefault("log_level", defaults.LogLevel)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for fatal problems. Called once at
// startup; a failure here exits the process before any session exists.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api_key is required (set RELAY_API_KEY)")
	}
	if c.RouterModel == "" {
		return fmt.Errorf("router_model cannot be empty")
	}
	if c.ResponseModel == "" {
		return fmt.Errorf("response_model cannot be empty")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level '%s', must be one of: debug, info, warn, error", c.LogLevel)
	}
	return nil
}

// writeConfigFile writes a Config to a YAML file. Secrets are omitempty, so a
// default file never contains placeholder credentials.
func writeConfigFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// expandPath expands ~ to the user's home directory in a path string.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
