// Package config holds settings for the recipebox command-line client.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the recipebox CLI.
//
// Fields:
//   - ServerURL: base URL of the RecipeBox REST API.
//   - SessionFile: where the token pair from "login" is kept between runs.
//   - Timeout: per-request HTTP timeout.
type Config struct {
	ServerURL   string
	SessionFile string
	Timeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.SessionFile = defaultSessionFile()
	c.Timeout = 15 * time.Second
}

// Load constructs a Config from defaults overlaid with the JSON file at
// path, when path is not empty.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".recipebox-session.json"
	}
	return filepath.Join(dir, "recipebox", "session.json")
}
