package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./colkit.yaml",
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "colkit")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "colkit")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "colkit")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "colkit")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
// Unknown keys are rejected so typos in limits do not pass silently.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// validate rejects settings the decoder cannot work with.
func (c *Config) validate() error {
	switch {
	case c.Decode.MaxElements <= 0:
		return fmt.Errorf("decode.max_elements must be positive, got %d", c.Decode.MaxElements)
	case c.Decode.MaxFaceGroups <= 0:
		return fmt.Errorf("decode.max_face_groups must be positive, got %d", c.Decode.MaxFaceGroups)
	case c.Decode.MaxModels <= 0:
		return fmt.Errorf("decode.max_models must be positive, got %d", c.Decode.MaxModels)
	case c.Decode.Workers <= 0:
		return fmt.Errorf("decode.workers must be positive, got %d", c.Decode.Workers)
	}
	return nil
}
