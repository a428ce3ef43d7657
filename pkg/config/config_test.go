package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockjs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`output: out.js
log_level: debug
color: false
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out.js", cfg.Output)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.NotNil(t, cfg.Color)
	assert.False(t, *cfg.Color)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockjs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadIfPresentMissingFile(t *testing.T) {
	cfg, err := LoadIfPresent(filepath.Join(t.TempDir(), "lockjs.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "", cfg.Output)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Nil(t, cfg.Color)
}

// Partial files keep the defaults for everything they leave out.
func TestPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockjs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: dist/app.js\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dist/app.js", cfg.Output)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Nil(t, cfg.Color)
}
