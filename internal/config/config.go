// Package config loads server configuration from an optional YAML file.
//
// Lookup order: $ACE_CONFIG if set, otherwise <data dir>/config.yaml.
// A missing file is not an error — every field has a working default, so
// the server runs with no configuration at all.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the tunable settings of the playbook server.
type Config struct {
	// DataDir is the root of all playbook state (playbooks/,
	// reflections/, projects.json). Defaults to ~/.ace.
	DataDir string `yaml:"data_dir"`

	// HarmfulThreshold is the default pruning margin used by curation
	// when the caller does not supply one.
	HarmfulThreshold int `yaml:"harmful_threshold"`
}

// Default returns the built-in configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:          filepath.Join(home, ".ace"),
		HarmfulThreshold: 3,
	}
}

// Load reads the configuration file if one exists and overlays it on the
// defaults. Unset fields keep their default values.
func Load() (Config, error) {
	cfg := Default()

	path := os.Getenv("ACE_CONFIG")
	if path == "" {
		path = filepath.Join(cfg.DataDir, "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if file.DataDir != "" {
		cfg.DataDir = file.DataDir
	}
	if file.HarmfulThreshold > 0 {
		cfg.HarmfulThreshold = file.HarmfulThreshold
	}
	return cfg, nil
}
