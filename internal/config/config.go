// ABOUTME: YAML configuration for store, import, and archive locations.
// ABOUTME: Missing config files fall back to XDG defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lberg/macrolog/internal/storage"
	"gopkg.in/yaml.v3"
)

// Config stores tool configuration.
type Config struct {
	// DBPath is the SQLite store location. Supports ~ expansion.
	// Defaults to ~/.local/share/macrolog/macrolog.db.
	DBPath string `yaml:"db_path,omitempty"`

	// ImportsDir is where exports are dropped for ingestion.
	ImportsDir string `yaml:"imports_dir,omitempty"`

	// ArchiveDir is where ingested files are moved. Empty disables
	// archival.
	ArchiveDir string `yaml:"archive_dir,omitempty"`
}

// DefaultPath returns the default config file location following XDG.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "macrolog", "config.yaml")
}

// Load reads the config file at path, or the default location when path
// is empty. A missing file yields the zero config, not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// GetDBPath returns the configured store path with ~ expanded, defaulting
// to the standard XDG data directory.
func (c *Config) GetDBPath() string {
	if c.DBPath == "" {
		return storage.DefaultDBPath()
	}
	return ExpandPath(c.DBPath)
}

// GetArchiveDir returns the configured archive directory with ~ expanded,
// or empty when archival is disabled.
func (c *Config) GetArchiveDir() string {
	return ExpandPath(c.ArchiveDir)
}

// GetImportsDir returns the configured imports directory with ~ expanded.
func (c *Config) GetImportsDir() string {
	return ExpandPath(c.ImportsDir)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
