package config

import (
	"sort"

	"github.com/driftlab/wavelayout/internal/validate"
	"github.com/driftlab/wavelayout/internal/wavefield"
)

// Presets are named device/feel profiles. The safe-bound numbers here are
// deliberately configuration: they were never derived from a disclosed
// formula, so each target ships its own tuned table.
var Presets = map[string]func() *Config{
	"quest3": func() *Config {
		cfg := DefaultConfig()
		cfg.Engine.Bounds = validate.Bounds{
			MaxAmplitude:         0.5,
			MaxFrequency:         3.0,
			MaxSpeed:             3.0,
			MaxCombinedAngular:   4.0,
			MaxPeakToPeakFactor:  2.2,
			ProbeDuration:        10.0,
			ProbeSampleRate:      30.0,
			PerElementCostMicros: 2.5,
			HeadroomFraction:     0.3,
		}
		cfg.Engine.Context = validate.Context{TargetElementCount: 120, FrameBudgetMillis: 13.8}
		cfg.Session.TickRate = 72.0
		return cfg
	},
	"desktop": func() *Config {
		cfg := DefaultConfig()
		cfg.Engine.Bounds = validate.Bounds{
			MaxAmplitude:         0.8,
			MaxFrequency:         4.0,
			MaxSpeed:             4.0,
			MaxCombinedAngular:   6.0,
			MaxPeakToPeakFactor:  2.2,
			ProbeDuration:        10.0,
			ProbeSampleRate:      30.0,
			PerElementCostMicros: 1.2,
			HeadroomFraction:     0.2,
		}
		cfg.Engine.Context = validate.Context{TargetElementCount: 400, FrameBudgetMillis: 16.6}
		cfg.Session.TickRate = 60.0
		cfg.Session.Elements = 120
		cfg.Session.Columns = 12
		return cfg
	},
	"cinema": func() *Config {
		cfg := DefaultConfig()
		cfg.Params = wavefield.Params{
			Primary:               wavefield.Component{Frequency: 0.3, Amplitude: 0.35, Speed: 0.25},
			Secondary:             wavefield.Component{Frequency: 0.45, Amplitude: 0.2, Speed: 0.15},
			Tertiary:              wavefield.Component{Frequency: 0.2, Amplitude: 0.1, Speed: 0.1},
			InterferenceFrequency: 0.3,
			InterferenceAmplitude: 0.05,
			InterferenceEnabled:   true,
			BaseHeight:            1.6,
		}
		cfg.Engine.Grid.CellSize = 0.8
		return cfg
	},
	"gentle": func() *Config {
		cfg := DefaultConfig()
		cfg.Params = wavefield.Params{
			Primary:    wavefield.Component{Frequency: 0.4, Amplitude: 0.05, Speed: 0.2},
			Secondary:  wavefield.Component{Frequency: 0.6, Amplitude: 0.02, Speed: 0.15},
			Tertiary:   wavefield.Component{Frequency: 0.2, Amplitude: 0.015, Speed: 0.1},
			BaseHeight: 1.4,
		}
		cfg.Engine.Breathing.PrimaryAmplitude = 0.03
		cfg.Engine.Breathing.SecondaryAmplitude = 0.012
		cfg.Engine.Breathing.TertiaryAmplitude = 0.008
		return cfg
	},
}

// GetPreset returns a fresh Config for name, or nil if unknown.
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
