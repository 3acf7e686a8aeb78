// Package config loads practicemap configuration from a TOML file.
//
// Configuration is optional: every field has a default, flags override file
// values, and a missing file is not an error. The file lives at
// ~/.config/practicemap/config.toml unless a path is given explicitly.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/practicemap/practicemap/pkg/errors"
)

// Config is the full application configuration.
type Config struct {
	// Catalog is the path to the authored catalog JSON file.
	Catalog string `toml:"catalog"`

	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Mongo  MongoConfig  `toml:"mongo"`
	State  StateConfig  `toml:"state"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Listen string `toml:"listen"`
	// ShareTTLHours bounds how long share links stay resolvable.
	ShareTTLHours int `toml:"share_ttl_hours"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", or "none".
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir"`
	RedisAddr  string `toml:"redis_addr"`
	TTLMinutes int    `toml:"ttl_minutes"`
}

// MongoConfig configures the optional MongoDB catalog backend.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
	// Name selects the catalog document within the database.
	Name string `toml:"name"`
}

// StateConfig configures local adoption-state persistence.
type StateConfig struct {
	Path string `toml:"path"`
	// DebounceMS coalesces bursts of toggles into one write.
	DebounceMS int `toml:"debounce_ms"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Catalog: "catalog.json",
		Server: ServerConfig{
			Listen:        ":8080",
			ShareTTLHours: 24 * 30,
		},
		Cache: CacheConfig{
			Backend:    "file",
			TTLMinutes: 60,
		},
		Mongo: MongoConfig{
			Database: "practicemap",
			Name:     "default",
		},
		State: StateConfig{
			DebounceMS: 500,
		},
	}
}

// DefaultPath returns ~/.config/practicemap/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "practicemap", "config.toml"), nil
}

// Load reads configuration from path, applying it over the defaults.
//
// An empty path means the default location; a missing file at the default
// location yields the defaults, while a missing file at an explicit path is
// an error (the user asked for it).
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file %s does not exist", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return cfg, nil
}
