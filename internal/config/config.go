// Package config handles coltool configuration loading and management.
package config

import "github.com/Faultbox/colkit/pkg/col"

// Config holds all coltool settings.
type Config struct {
	Decode  DecodeConfig  `yaml:"decode"`
	Server  ServerConfig  `yaml:"server"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// DecodeConfig holds decoder safety limits and validation settings.
type DecodeConfig struct {
	MaxElements   int  `yaml:"max_elements"`    // Per-model element ceiling
	MaxFaceGroups int  `yaml:"max_face_groups"` // Face group table ceiling
	MaxModels     int  `yaml:"max_models"`      // Models decoded per file
	Workers       int  `yaml:"workers"`         // Parallel model decoders
	Validate      bool `yaml:"validate"`
	Strict        bool `yaml:"strict"`
}

// ServerConfig holds the HTTP browser settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	Root string `yaml:"root"` // Directory served by the browser
}

// ExportConfig holds glTF export settings.
type ExportConfig struct {
	Binary bool `yaml:"binary"` // Write .glb instead of .gltf
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Decode: DecodeConfig{
			MaxElements:   col.DefaultMaxElements,
			MaxFaceGroups: col.DefaultMaxFaceGroups,
			MaxModels:     col.DefaultMaxModels,
			Workers:       1,
			Validate:      true,
			Strict:        false,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
			Root: ".",
		},
		Export: ExportConfig{
			Binary: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Options converts the decode settings into decoder options.
func (c DecodeConfig) Options() col.Options {
	return col.Options{
		MaxElements:   c.MaxElements,
		MaxFaceGroups: c.MaxFaceGroups,
		MaxModels:     c.MaxModels,
		Workers:       c.Workers,
		Validate:      c.Validate,
		Strict:        c.Strict,
	}
}
