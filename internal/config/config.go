// Package config loads the isoguard service configuration from config.toml,
// an optional per-environment overlay, and ISOGUARD_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/isoguard/isoguard/pkg/database"
	"github.com/isoguard/isoguard/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvIsoguardEnv             = "ISOGUARD_ENV"
	EnvIsoguardShutdownTimeout = "ISOGUARD_SHUTDOWN_TIMEOUT"
	EnvIsoguardVersion         = "ISOGUARD_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "ISOGUARD_DB_HOST",
	Port:            "ISOGUARD_DB_PORT",
	Name:            "ISOGUARD_DB_NAME",
	User:            "ISOGUARD_DB_USER",
	Password:        "ISOGUARD_DB_PASSWORD",
	SSLMode:         "ISOGUARD_DB_SSL_MODE",
	MaxOpenConns:    "ISOGUARD_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "ISOGUARD_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "ISOGUARD_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "ISOGUARD_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "ISOGUARD_STORAGE_CONTAINER_NAME",
	ConnectionString: "ISOGUARD_STORAGE_CONNECTION_STRING",
}

// Config is the root configuration for the isoguard service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Analysis        AnalysisConfig  `toml:"analysis"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the ISOGUARD_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvIsoguardEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return duration(c.ShutdownTimeout)
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Analysis.Merge(&overlay.Analysis)
}

func (c *Config) finalize() error {
	setString(&c.ShutdownTimeout, "30s", EnvIsoguardShutdownTimeout)
	setString(&c.Version, "0.1.0", EnvIsoguardVersion)
	if err := checkDuration("shutdown_timeout", c.ShutdownTimeout); err != nil {
		return err
	}

	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Analysis.Finalize(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvIsoguardEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
