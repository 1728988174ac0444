package validate

// Bounds is the safety envelope a parameter set is validated against.
// Values are injected, never hardcoded in the checks, so device presets
// stay swappable.
type Bounds struct {
	// Per-field range limits.
	MaxAmplitude float64 `yaml:"max_amplitude"`
	MaxFrequency float64 `yaml:"max_frequency"`
	MaxSpeed     float64 `yaml:"max_speed"`

	// Comfort limit on the summed angular velocity of oscillation
	// (rad/s) across all components.
	MaxCombinedAngular float64 `yaml:"max_combined_angular"`

	// Stability probe: the field is sampled over ProbeDuration seconds at
	// ProbeSampleRate Hz on a small spatial grid; peak-to-peak height above
	// MaxPeakToPeakFactor times the amplitude sum flags runaway
	// constructive interference.
	MaxPeakToPeakFactor float64 `yaml:"max_peak_to_peak_factor"`
	ProbeDuration       float64 `yaml:"probe_duration"`
	ProbeSampleRate     float64 `yaml:"probe_sample_rate"`

	// Performance budget: projected cost is element count times
	// PerElementCostMicros; it must fit in the frame budget with
	// HeadroomFraction left free.
	PerElementCostMicros float64 `yaml:"per_element_cost_micros"`
	HeadroomFraction     float64 `yaml:"headroom_fraction"`
}

// DefaultBounds returns the standalone-headset envelope. These numbers are
// a starting preset, not canon; tune them through the config layer.
func DefaultBounds() Bounds {
	return Bounds{
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
}
