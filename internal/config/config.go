package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is looked up next to the project file.
const ConfigFileName = "routecheck.toml"

// Config controls the surfaces around the engine. Everything has a usable
// default; a routecheck.toml next to the project overrides it.
type Config struct {
	// ManifestPath points at the authoring tool's group manifest. Relative
	// paths resolve against the project file's directory.
	ManifestPath string `toml:"manifest"`

	// FreshnessMS overrides the scan cache window, in milliseconds.
	FreshnessMS int `toml:"freshness_ms"`

	// History enables recording validation runs.
	History bool `toml:"history"`

	// HistoryDB overrides where run history is kept.
	HistoryDB string `toml:"history_db"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ManifestPath: "groups.toml",
		History:      true,
	}
}

// Load reads the config next to a project file, falling back to defaults
// when none exists.
func Load(projectPath string) (Config, error) {
	cfg := Default()
	dir := filepath.Dir(projectPath)

	path := filepath.Join(dir, ConfigFileName)
	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}

	if !filepath.IsAbs(cfg.ManifestPath) {
		cfg.ManifestPath = filepath.Join(dir, cfg.ManifestPath)
	}
	if cfg.HistoryDB == "" {
		cfg.HistoryDB = filepath.Join(dir, ".routecheck", "history.db")
	} else if !filepath.IsAbs(cfg.HistoryDB) {
		cfg.HistoryDB = filepath.Join(dir, cfg.HistoryDB)
	}
	return cfg, nil
}

// Freshness returns the configured cache window, or 0 to use the engine
// default.
func (c Config) Freshness() time.Duration {
	if c.FreshnessMS <= 0 {
		return 0
	}
	return time.Duration(c.FreshnessMS) * time.Millisecond
}

// ProjectPath returns the project path from the ROUTECHECK_PROJECT env var,
// falling back to the given default.
func ProjectPath(fallback string) string {
	if env := os.Getenv("ROUTECHECK_PROJECT"); env != "" {
		return env
	}
	return fallback
}
