package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "test.db"
matching:
  recommend_threshold: 0.6
  match_timeout: 3s
  workers: 4
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Server.Addr() != "127.0.0.1:9000" {
		t.Errorf("Addr() = %s", cfg.Server.Addr())
	}
	if cfg.Storage.DatabasePath == "" || cfg.Storage.Driver != "sqlite" {
		t.Errorf("unexpected storage config: %+v", cfg.Storage)
	}
	if cfg.Matching.RecommendThreshold != 0.6 {
		t.Errorf("recommend_threshold = %v, want 0.6", cfg.Matching.RecommendThreshold)
	}
	if cfg.Matching.MatchTimeout != 3*time.Second {
		t.Errorf("match_timeout = %v, want 3s", cfg.Matching.MatchTimeout)
	}
	if cfg.Matching.Workers != 4 {
		t.Errorf("workers = %d, want 4", cfg.Matching.Workers)
	}
	if cfg.Matching.Weights.Category != 0.25 {
		t.Errorf("weights should default when none are set, got %+v", cfg.Matching.Weights)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_debugTrue(t *testing.T) {
	cfg, err := Load(writeConfig(t, "debug: true\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
}

func TestLoad_weights(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
matching:
  weights:
    category: 0.5
    location: 0.5
`))
	if err != nil {
		t.Fatal(err)
	}
	w := cfg.Matching.Weights
	if w.Category != 0.5 || w.Location != 0.5 || w.Price != 0 {
		t.Errorf("explicit weights should be kept as given, got %+v", w)
	}
	if err := w.Validate(); err != nil {
		t.Errorf("weights should be valid: %v", err)
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	path := writeConfig(t, `
storage:
  database_path: "./data/db/recommendations.db"
catalog:
  suppliers_path: "./catalog/suppliers.xlsx"
  watch: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Dir(path)
	wantDB := filepath.Join(dir, "data", "db", "recommendations.db")
	if cfg.Storage.DatabasePath != wantDB {
		t.Errorf("database_path = %s, want %s", cfg.Storage.DatabasePath, wantDB)
	}
	wantCatalog := filepath.Join(dir, "catalog", "suppliers.xlsx")
	if cfg.Catalog.SuppliersPath != wantCatalog {
		t.Errorf("suppliers_path = %s, want %s", cfg.Catalog.SuppliersPath, wantCatalog)
	}
	if !cfg.Catalog.Watch {
		t.Error("catalog watch should be true")
	}
}

func TestLoad_emptyCatalogPathStaysEmpty(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  port: 8081\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Catalog.SuppliersPath != "" {
		t.Errorf("suppliers_path = %q, want empty", cfg.Catalog.SuppliersPath)
	}
}

func TestLoad_errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"broken yaml", "server: [\n"},
		{"bad port", "server:\n  port: 70000\n"},
		{"unknown driver", "storage:\n  driver: postgres\n"},
		{"threshold above one", "matching:\n  recommend_threshold: 1.5\n"},
		{"default above max", "matching:\n  default_limit: 60\n  max_limit: 10\n"},
		{"negative workers", "matching:\n  workers: -1\n"},
		{"bad duration", "matching:\n  match_timeout: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Errorf("Load should fail for %q", tt.content)
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load should fail for a missing file")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host: got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Storage.DatabasePath != DefaultDatabasePath {
		t.Errorf("default storage: got %+v", cfg.Storage)
	}
	if cfg.Matching.DefaultLimit != 5 || cfg.Matching.MaxLimit != 50 {
		t.Errorf("default limits: got %d/%d", cfg.Matching.DefaultLimit, cfg.Matching.MaxLimit)
	}
	if cfg.Matching.RecommendThreshold != 0.7 {
		t.Errorf("default recommend_threshold: got %v", cfg.Matching.RecommendThreshold)
	}
	if cfg.Matching.MatchTimeout != 10*time.Second {
		t.Errorf("default match_timeout: got %v", cfg.Matching.MatchTimeout)
	}
	if cfg.Matching.Workers != 0 {
		t.Errorf("workers should stay 0 (one per CPU), got %d", cfg.Matching.Workers)
	}
	if cfg.Metrics.Namespace != "matchmaker" || !cfg.Metrics.EnabledOrDefault() {
		t.Errorf("default metrics: got %+v", cfg.Metrics)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestMetricsConfig_EnabledOrDefault(t *testing.T) {
	t.Run("nil_returns_true", func(t *testing.T) {
		m := &MetricsConfig{}
		if got := m.EnabledOrDefault(); !got {
			t.Errorf("EnabledOrDefault() = %v, want true", got)
		}
	})
	t.Run("false_returns_false", func(t *testing.T) {
		f := false
		m := &MetricsConfig{Enabled: &f}
		if got := m.EnabledOrDefault(); got {
			t.Errorf("EnabledOrDefault() = %v, want false", got)
		}
	})
}

func TestExpandPath(t *testing.T) {
	if got := expandPath(":memory:", "/etc"); got != ":memory:" {
		t.Errorf("expandPath(:memory:) = %s", got)
	}
	if got := expandPath("/abs/db", "/etc"); got != "/abs/db" {
		t.Errorf("expandPath(/abs/db) = %s", got)
	}
	if got := expandPath("./db", "/etc/matchmaker"); got != "/etc/matchmaker/db" {
		t.Errorf("expandPath(./db) = %s", got)
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := Default()
	cfg.Server.Port = 9090
	cfg.Storage = StorageConfig{Driver: "memory", DatabasePath: "/tmp/db"}
	cfg.Matching.MatchTimeout = 2 * time.Second
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("loaded port: got %d", loaded.Server.Port)
	}
	if loaded.Storage.Driver != "memory" {
		t.Errorf("loaded driver: got %s", loaded.Storage.Driver)
	}
	if loaded.Matching.MatchTimeout != 2*time.Second {
		t.Errorf("loaded match_timeout: got %v", loaded.Matching.MatchTimeout)
	}
	if loaded.Matching.Weights != cfg.Matching.Weights {
		t.Errorf("loaded weights: got %+v", loaded.Matching.Weights)
	}
}
