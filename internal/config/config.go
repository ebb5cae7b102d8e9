// Package config handles application configuration management.
package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	// Base directory for all Storycat data (~/.storycat)
	BaseDir string

	// Story API settings
	API APIConfig

	// Connectivity probing
	Sync SyncConfig
}

// APIConfig holds Story API settings.
type APIConfig struct {
	// BaseURL of the Story API, without trailing slash.
	BaseURL string

	// RateLimit is requests per minute. Zero selects the client default.
	RateLimit int
}

// SyncConfig holds sync engine settings.
type SyncConfig struct {
	// ProbeIntervalSeconds between connectivity checks.
	ProbeIntervalSeconds int

	// AutoSync drains pending work at startup when online.
	AutoSync bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if url := os.Getenv("STORYCAT_API_URL"); url != "" {
		cfg.API.BaseURL = url
	}

	if dir := os.Getenv("STORYCAT_BASE_DIR"); dir != "" {
		cfg.BaseDir = dir
	}

	if v := os.Getenv("STORYCAT_API_RATE_LIMIT"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			cfg.API.RateLimit = limit
		}
	}

	if v := os.Getenv("STORYCAT_AUTO_SYNC"); v != "" {
		cfg.Sync.AutoSync = v != "false"
	}

	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ensureDirectories creates required directories if they don't exist.
func ensureDirectories(cfg *Config) error {
	dirs := []string{
		cfg.BaseDir,
		GetPaths(cfg).Logs,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
