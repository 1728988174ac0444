// Package config loads, saves, and presets the full engine configuration.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/driftlab/wavelayout/internal/layout"
	"github.com/driftlab/wavelayout/internal/wavefield"
)

// Session describes a simulated layout run driven by the CLI.
type Session struct {
	Duration float64 `yaml:"duration"`
	TickRate float64 `yaml:"tick_rate"`
	Elements int     `yaml:"elements"`
	Columns  int     `yaml:"columns"`
}

// Config is the complete tunable surface: field parameters, engine
// assembly (grid, bounds, breathing, degrade), and session shape.
type Config struct {
	Params  wavefield.Params `yaml:"params"`
	Engine  layout.Config    `yaml:"engine"`
	Session Session          `yaml:"session"`
}

// DefaultConfig returns the desktop-preview configuration.
func DefaultConfig() *Config {
	return &Config{
		Params: wavefield.DefaultParams(),
		Engine: layout.DefaultConfig(),
		Session: Session{
			Duration: 10.0,
			TickRate: 72.0,
			Elements: 48,
			Columns:  8,
		},
	}
}

// Load reads a yaml config, layering it over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as yaml.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
