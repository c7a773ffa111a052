package config

import "time"

// DefaultDatabasePath is where recommendations are stored when no path is configured.
const DefaultDatabasePath = "/usr/local/var/matchmaker/data/db/recommendations.db"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "sqlite"
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = DefaultDatabasePath
	}
	cfg.Matching.Config.ApplyDefaults()
	if cfg.Matching.DefaultLimit == 0 {
		cfg.Matching.DefaultLimit = 5
	}
	if cfg.Matching.MaxLimit == 0 {
		cfg.Matching.MaxLimit = 50
	}
	if cfg.Matching.MatchTimeout == 0 {
		cfg.Matching.MatchTimeout = 10 * time.Second
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "matchmaker"
	}
	// Enabled defaults to true when unset (nil).
	if cfg.Metrics.Enabled == nil {
		t := true
		cfg.Metrics.Enabled = &t
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
