// Package config loads the application configuration from an optional YAML
// file, with environment variables taking precedence over file values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen"`

	// DatabasePath is the SQLite database file location.
	DatabasePath string `yaml:"database_path"`

	// StaticDir holds the frontend files served at the root path.
	StaticDir string `yaml:"static_dir"`

	Sync SyncConfig `yaml:"sync"`
}

// SyncConfig tunes the calendar sync pipeline.
type SyncConfig struct {
	// IntervalMin is the scheduled batch sync interval in minutes.
	IntervalMin int `yaml:"interval_min"`

	// FetchTimeoutSec bounds a single feed fetch.
	FetchTimeoutSec int `yaml:"fetch_timeout_sec"`

	// Workers bounds how many feeds a batch syncs concurrently.
	Workers int `yaml:"workers"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Listen:       ":8080",
		DatabasePath: "./data/apartment-booking.db",
		StaticDir:    "./static",
		Sync: SyncConfig{
			IntervalMin:     15,
			FetchTimeoutSec: 30,
			Workers:         4,
		},
	}
}

// Load reads the configuration file at path (if it exists) on top of the
// defaults, then applies environment overrides. A missing file is not an
// error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Fall through to env overrides.
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	cfg.applyEnv()

	if cfg.Sync.IntervalMin <= 0 {
		cfg.Sync.IntervalMin = 15
	}
	if cfg.Sync.FetchTimeoutSec <= 0 {
		cfg.Sync.FetchTimeoutSec = 30
	}
	if cfg.Sync.Workers <= 0 {
		cfg.Sync.Workers = 4
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Listen = getEnv("LISTEN_ADDR", c.Listen)
	c.DatabasePath = getEnv("DATABASE_PATH", c.DatabasePath)
	c.StaticDir = getEnv("STATIC_DIR", c.StaticDir)
	c.Sync.IntervalMin = getEnvInt("SYNC_INTERVAL_MIN", c.Sync.IntervalMin)
	c.Sync.FetchTimeoutSec = getEnvInt("SYNC_FETCH_TIMEOUT_SEC", c.Sync.FetchTimeoutSec)
	c.Sync.Workers = getEnvInt("SYNC_WORKERS", c.Sync.Workers)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
