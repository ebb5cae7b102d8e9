package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultAPIBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 60, cfg.API.RateLimit)
	assert.Equal(t, 30, cfg.Sync.ProbeIntervalSeconds)
	assert.True(t, cfg.Sync.AutoSync)
	assert.NotEmpty(t, cfg.BaseDir)
}

func TestLoadFromEnv(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("STORYCAT_BASE_DIR", tmpDir)
	t.Setenv("STORYCAT_API_URL", "https://staging.example/v1")
	t.Setenv("STORYCAT_API_RATE_LIMIT", "120")
	t.Setenv("STORYCAT_AUTO_SYNC", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, tmpDir, cfg.BaseDir)
	assert.Equal(t, "https://staging.example/v1", cfg.API.BaseURL)
	assert.Equal(t, 120, cfg.API.RateLimit)
	assert.False(t, cfg.Sync.AutoSync)
}

func TestLoad_InvalidRateLimitIgnored(t *testing.T) {
	t.Setenv("STORYCAT_BASE_DIR", t.TempDir())
	t.Setenv("STORYCAT_API_RATE_LIMIT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.API.RateLimit)
}

func TestLoad_CreatesDirectories(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "storycat-home")
	t.Setenv("STORYCAT_BASE_DIR", baseDir)

	cfg, err := Load()
	require.NoError(t, err)

	paths := GetPaths(cfg)
	assert.DirExists(t, baseDir)
	assert.DirExists(t, paths.Logs)
}

func TestGetPaths(t *testing.T) {
	cfg := &Config{BaseDir: "/data/storycat"}
	paths := GetPaths(cfg)

	assert.Equal(t, filepath.Join("/data/storycat", "storycat.db"), paths.Database)
	assert.Equal(t, filepath.Join("/data/storycat", "config.yaml"), paths.Config)
	assert.Equal(t, filepath.Join("/data/storycat", "logs"), paths.Logs)
}
