package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

const fileName = "config.yaml"

// Load builds the configuration from defaults, then the config file, then
// command-line flags. A relative resources.base_dir in the file is taken
// relative to the file's directory, so a config next to its assets works
// from any working directory.
func Load() (*Config, error) {
	cfg := Default()

	path := ConfigPath()
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)
	return cfg, nil
}

// findConfigFile returns the first existing config in the working directory
// or the per-user config directory.
func findConfigFile() string {
	for _, path := range []string{
		filepath.Join(".", fileName),
		filepath.Join(ConfigDir(), fileName),
	} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user directory for experience settings.
func ConfigDir() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Experience")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Experience")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "experience")
	}
	return filepath.Join(home, ".config", "experience")
}

// loadFromFile merges the YAML file at path over cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}

	// Only a base_dir written in this file is rebased; the default stays
	// relative to the working directory.
	var set struct {
		Resources struct {
			BaseDir *string `yaml:"base_dir"`
		} `yaml:"resources"`
	}
	if err := yaml.Unmarshal(data, &set); err != nil {
		return err
	}
	if set.Resources.BaseDir != nil {
		cfg.Resources.BaseDir = relativeTo(filepath.Dir(path), cfg.Resources.BaseDir)
	}
	return nil
}

// relativeTo joins a relative path onto dir. Empty and absolute paths are
// returned unchanged.
func relativeTo(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
