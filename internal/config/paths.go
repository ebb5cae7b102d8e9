package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Paths contains commonly used file paths.
type Paths struct {
	Database string // Main SQLite database
	Config   string // Config file
	Logs     string // Log directory
}

// GetPaths returns all commonly used paths based on config.
func GetPaths(cfg *Config) Paths {
	return Paths{
		Database: filepath.Join(cfg.BaseDir, "storycat.db"),
		Config:   filepath.Join(cfg.BaseDir, "config.yaml"),
		Logs:     filepath.Join(cfg.BaseDir, "logs"),
	}
}

// DefaultBaseDir returns the default base directory (~/.storycat),
// falling back to the XDG data home when no home directory resolves.
func DefaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(xdg.DataHome, "storycat")
	}
	return filepath.Join(home, ".storycat")
}
