// Package config provides configuration loading and structs for the matchmaker service.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/matchmaker/internal/matching"
)

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Matching MatchingConfig `yaml:"matching"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig selects the recommendation store.
type StorageConfig struct {
	Driver       string `yaml:"driver"`
	DatabasePath string `yaml:"database_path"`
}

// CatalogConfig holds the supplier catalog settings.
type CatalogConfig struct {
	SuppliersPath string `yaml:"suppliers_path"`
	Watch         bool   `yaml:"watch"`
}

// MatchingConfig holds scoring weights and engine limits.
type MatchingConfig struct {
	matching.Config `yaml:",inline"`
	DefaultLimit    int           `yaml:"default_limit"`
	MaxLimit        int           `yaml:"max_limit"`
	Workers         int           `yaml:"workers"`
	MatchTimeout    time.Duration `yaml:"match_timeout"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled   *bool  `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// EnabledOrDefault returns whether /metrics is served; defaults to true when unset.
func (m *MetricsConfig) EnabledOrDefault() bool {
	if m.Enabled != nil {
		return *m.Enabled
	}
	return true
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	if cfg.Catalog.SuppliersPath != "" {
		cfg.Catalog.SuppliersPath = expandPath(cfg.Catalog.SuppliersPath, configDir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot run with. Weights that do not sum to 1.0
// are not rejected here; the ranker reports them at startup.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Storage.Driver {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("unknown storage driver: %q", c.Storage.Driver)
	}
	if t := c.Matching.RecommendThreshold; t < 0 || t > 1 {
		return fmt.Errorf("recommend_threshold must be within [0,1], got %v", t)
	}
	if c.Matching.DefaultLimit > c.Matching.MaxLimit {
		return fmt.Errorf("default_limit %d exceeds max_limit %d", c.Matching.DefaultLimit, c.Matching.MaxLimit)
	}
	if c.Matching.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Matching.Workers)
	}
	return nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) || path == ":memory:" {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
