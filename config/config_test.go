package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, "http://localhost:8000", c.BaseURL)
	assert.Equal(t, "ws://localhost:8000", c.WSBaseURL)
	assert.Equal(t, 15, c.RequestTimeoutSec)
	assert.Equal(t, 0, c.RateLimitPerMinute)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "8000", c.DevServerPort)
	assert.Equal(t, "release", c.GinMode)
	assert.NotEmpty(t, c.PrefsPath)
}

func TestLoadEnvOverrides(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("DEEPLINK_BASE_URL", "https://api.example.com")
	t.Setenv("DEEPLINK_LOG_LEVEL", "debug")
	t.Setenv("DEEPLINK_REQUEST_TIMEOUT_SEC", "30")
	t.Setenv("DEEPLINK_RATE_LIMIT_PER_MINUTE", "120")

	c := Load()
	assert.Equal(t, "https://api.example.com", c.BaseURL)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 30, c.RequestTimeoutSec)
	assert.Equal(t, 120, c.RateLimitPerMinute)
	// Untouched fields keep their defaults.
	assert.Equal(t, "ws://localhost:8000", c.WSBaseURL)
}

func TestLoadMalformedIntOverride(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("DEEPLINK_REQUEST_TIMEOUT_SEC", "soon")
	assert.Equal(t, 15, Load().RequestTimeoutSec)
}

func TestLoadFilePrecedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	body := `{"base_url": "http://from-file:9000", "log_level": "warn"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.json"), []byte(body), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	Reset()
	t.Cleanup(Reset)

	// Environment wins over the file; the file wins over defaults.
	t.Setenv("DEEPLINK_LOG_LEVEL", "error")

	c := Load()
	assert.Equal(t, "http://from-file:9000", c.BaseURL)
	assert.Equal(t, "error", c.LogLevel)
	assert.Equal(t, 15, c.RequestTimeoutSec)
}

func TestGetCaches(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first := Get()
	t.Setenv("DEEPLINK_BASE_URL", "http://too-late:1234")
	assert.Equal(t, first.BaseURL, Get().BaseURL)
}
