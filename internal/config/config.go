// Package config handles configuration for the graph sync engine and its
// CLI: store credentials with environment defaults, optional YAML config
// files, and struct validation.
package config

import (
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/RSAC-Labs/Quantickle-sub006/internal/neo4j"
	"github.com/RSAC-Labs/Quantickle-sub006/internal/types"
)

// Environment variables supplying store credential defaults.
const (
	EnvStoreURL      = "GRAPH_STORE_URL"
	EnvStoreDatabase = "GRAPH_STORE_DATABASE"
	EnvStoreUsername = "GRAPH_STORE_USERNAME"
	EnvStorePassword = "GRAPH_STORE_PASSWORD"
)

// Config is the root configuration.
type Config struct {
	Store StoreConfig `mapstructure:"store" validate:"required"`
	Log   LogConfig   `mapstructure:"log"`
}

// StoreConfig holds the transactional endpoint credentials. Any empty field
// falls back to its environment variable, then to the built-in default.
type StoreConfig struct {
	URL      string `mapstructure:"url" validate:"omitempty,url"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// LogConfig controls CLI logging.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns the built-in defaults: a local store over the
// standard HTTP port.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			URL:      "http://localhost:7474",
			Database: "neo4j",
			Username: "neo4j",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Credentials resolves the per-call credentials: explicit config first,
// then environment, then built-in default.
func (s StoreConfig) Credentials() neo4j.Credentials {
	defaults := DefaultConfig().Store
	return neo4j.Credentials{
		URL:      firstNonEmpty(s.URL, os.Getenv(EnvStoreURL), defaults.URL),
		Database: firstNonEmpty(s.Database, os.Getenv(EnvStoreDatabase), defaults.Database),
		Username: firstNonEmpty(s.Username, os.Getenv(EnvStoreUsername), defaults.Username),
		Password: firstNonEmpty(s.Password, os.Getenv(EnvStorePassword), defaults.Password),
	}
}

// Validate checks the configuration against its struct tags.
func Validate(cfg *Config) error {
	if cfg == nil {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "config cannot be nil")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return types.WrapError(types.CONFIG_VALIDATION_FAILED, "invalid configuration", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
