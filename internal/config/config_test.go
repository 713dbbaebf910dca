package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, 15, cfg.Sync.IntervalMin)
	assert.Equal(t, 4, cfg.Sync.Workers)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"listen: \":9090\"\nsync:\n  interval_min: 5\n  workers: 2\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, 5, cfg.Sync.IntervalMin)
	assert.Equal(t, 2, cfg.Sync.Workers)
	// Unset keys keep their defaults.
	assert.Equal(t, 30, cfg.Sync.FetchTimeoutSec)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \":9090\"\n"), 0o644))

	t.Setenv("LISTEN_ADDR", ":7070")
	t.Setenv("SYNC_WORKERS", "8")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Listen)
	assert.Equal(t, 8, cfg.Sync.Workers)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadClampsNonPositiveSyncValues(t *testing.T) {
	t.Setenv("SYNC_INTERVAL_MIN", "-1")
	t.Setenv("SYNC_FETCH_TIMEOUT_SEC", "0")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Sync.IntervalMin)
	assert.Equal(t, 30, cfg.Sync.FetchTimeoutSec)
}
