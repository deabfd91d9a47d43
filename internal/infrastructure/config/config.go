// Package config loads editor configuration.
// Framework layer: a YAML file provides defaults, environment variables
// override individual keys.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables of the editor session.
type Config struct {
	DataDir     string  `yaml:"data_dir"`     // SQLite feature store location
	SketchDir   string  `yaml:"sketch_dir"`   // exported sketch files, watched
	Autosave    bool    `yaml:"autosave"`     // SAVE also exports sketches to SketchDir
	GridSpacing float64 `yaml:"grid_spacing"` // snap grid, 0 disables
	SnapEnabled bool    `yaml:"snap_enabled"`
	MinZoom     float64 `yaml:"min_zoom"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:     "./data",
		SketchDir:   "./sketches",
		GridSpacing: 0,
		SnapEnabled: false,
		MinZoom:     1e-6,
	}
}

// Load reads path (when it exists) over the defaults, then applies
// environment overrides. A missing file is not an error; a malformed one
// is, so a typo cannot silently fall back to defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	cfg.DataDir = getEnv("AICAD_DATA_DIR", cfg.DataDir)
	cfg.SketchDir = getEnv("AICAD_SKETCH_DIR", cfg.SketchDir)
	cfg.Autosave = getEnvAsBool("AICAD_AUTOSAVE", cfg.Autosave)
	cfg.GridSpacing = getEnvAsFloat("AICAD_GRID_SPACING", cfg.GridSpacing)
	cfg.SnapEnabled = getEnvAsBool("AICAD_SNAP", cfg.SnapEnabled)
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}
