package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/recipebox/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Timeout may
// be a string like "3s" or integer nanoseconds.
type JsonConfig struct {
	ServerURL   string          `json:"server_url"`
	SessionFile string          `json:"session_file"`
	Timeout     *timex.Duration `json:"timeout"`
}

// parseJSON overlays cfg with the non-empty values found in the file at
// path.
func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.SessionFile != "" {
		cfg.SessionFile = jc.SessionFile
	}
	if jc.Timeout != nil {
		cfg.Timeout = jc.Timeout.Duration
	}
	return nil
}
