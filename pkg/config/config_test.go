package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/practicemap/practicemap/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Catalog == "" {
		t.Error("default catalog path empty")
	}
	if cfg.Server.Listen != ":8080" {
		t.Errorf("listen = %q", cfg.Server.Listen)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("cache backend = %q", cfg.Cache.Backend)
	}
	if cfg.State.DebounceMS <= 0 {
		t.Error("debounce must default to a positive value")
	}
}

func TestLoadAppliesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
catalog = "/srv/catalog.json"

[server]
listen = ":9999"

[cache]
backend = "redis"
redis_addr = "redis:6379"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Catalog != "/srv/catalog.json" {
		t.Errorf("catalog = %q", cfg.Catalog)
	}
	if cfg.Server.Listen != ":9999" {
		t.Errorf("listen = %q", cfg.Server.Listen)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "redis:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}

	// Unset fields keep their defaults.
	if cfg.Server.ShareTTLHours != Default().Server.ShareTTLHours {
		t.Errorf("share ttl = %d, want default", cfg.Server.ShareTTLHours)
	}
	if cfg.Mongo.Database != "practicemap" {
		t.Errorf("mongo database = %q", cfg.Mongo.Database)
	}
}

func TestLoadExplicitMissingPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("catalog = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidConfig)
	}
}
