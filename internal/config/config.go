// Package config loads runtime settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Backends.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// Config is the full runtime configuration.
type Config struct {
	Port          string        `yaml:"port"`
	Backend       string        `yaml:"backend"`
	DatabaseURL   string        `yaml:"database_url"`
	SQLitePath    string        `yaml:"sqlite_path"`
	UserID        string        `yaml:"user_id"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
	VerboseWrites bool          `yaml:"verbose_writes"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Port:         "8080",
		SQLitePath:   "tasktree.db",
		WriteTimeout: 10 * time.Second,
	}
}

// Load reads path (skipped when empty), applies environment overrides and
// resolves the backend. A named file that does not exist is an error.
// With no backend named and no database URL, the memory backend is used.
func Load(path string) (*Config, error) {
	return LoadWithFallback(path, BackendMemory)
}

// LoadWithFallback is Load with a different backend for the case where
// neither the file nor the environment picks one.
func LoadWithFallback(path, fallback string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()

	if cfg.Backend == "" {
		cfg.Backend = fallback
		if cfg.DatabaseURL != "" {
			cfg.Backend = BackendPostgres
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("TASKTREE_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("TASKTREE_SQLITE_PATH"); v != "" {
		c.SQLitePath = v
	}
	if v := os.Getenv("TASKTREE_USER_ID"); v != "" {
		c.UserID = v
	}
}

// Validate checks that the chosen backend has what it needs.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: postgres backend needs database_url")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("config: sqlite backend needs sqlite_path")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if c.WriteTimeout <= 0 {
		return errors.New("config: write_timeout must be positive")
	}
	return nil
}
