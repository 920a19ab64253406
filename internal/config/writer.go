package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by Write when a config file is already present.
var ErrConfigExists = errors.New("config file already exists")

// Write saves cfg as <rootDir>/.pith/config.yml and returns its path. An
// existing file is only replaced when force is set.
func Write(rootDir string, cfg *Config, force bool) (string, error) {
	dir := filepath.Join(rootDir, DirName)
	path := filepath.Join(dir, "config.yml")

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}
