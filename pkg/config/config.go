// Package config loads trainer settings from an optional YAML file.
// Every field has a built-in default so the CLI works without any file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables of the trainer.
type Config struct {
	// DBPath overrides the dictionary location. Empty means the shared
	// default path.
	DBPath string `yaml:"db_path"`

	// ChunkSizeMB is the learn window size in MiB.
	ChunkSizeMB int `yaml:"chunk_size_mb"`

	// Workers is the validation pool size. Zero means all available CPUs.
	Workers int `yaml:"workers"`

	// ListLimit is the default row limit of the list command.
	ListLimit int `yaml:"list_limit"`

	// SuggestLimit is the default candidate limit of the suggest command.
	SuggestLimit int `yaml:"suggest_limit"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ChunkSizeMB:  15,
		ListLimit:    50,
		SuggestLimit: 7,
	}
}

// Load reads settings from a YAML file. Absent keys keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.ChunkSizeMB <= 0 {
		return cfg, fmt.Errorf("config %s: chunk_size_mb must be positive", path)
	}
	if cfg.Workers < 0 {
		return cfg, fmt.Errorf("config %s: workers must not be negative", path)
	}
	return cfg, nil
}
