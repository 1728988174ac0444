// Package breathing synthesizes the per-element scale/opacity animation.
//
// Breathing is a time-domain harmonic sum, the same additive-sinusoid
// pattern as the spatial field but sharing only the time source. Each
// element owns a deterministic phase offset derived from its handle, so
// elements decorrelate visually without extra state.
package breathing

import "math"

// Settings parametrize the three-harmonic breathing signal.
// Amplitudes must be >= 0, frequencies > 0, CurveExponent > 0.
type Settings struct {
	PrimaryFrequency   float64 `yaml:"primary_frequency"`
	PrimaryAmplitude   float64 `yaml:"primary_amplitude"`
	SecondaryFrequency float64 `yaml:"secondary_frequency"`
	SecondaryAmplitude float64 `yaml:"secondary_amplitude"`
	TertiaryFrequency  float64 `yaml:"tertiary_frequency"`
	TertiaryAmplitude  float64 `yaml:"tertiary_amplitude"`

	// CurveExponent shapes the normalized signal through a power curve,
	// biasing it toward a natural ease profile. 1 leaves it linear.
	CurveExponent float64 `yaml:"curve_exponent"`
	BaseScale     float64 `yaml:"base_scale"`
}

// DefaultSettings returns a slow, gentle breathing profile.
func DefaultSettings() Settings {
	return Settings{
		PrimaryFrequency:   0.25,
		PrimaryAmplitude:   0.06,
		SecondaryFrequency: 0.4,
		SecondaryAmplitude: 0.025,
		TertiaryFrequency:  0.1,
		TertiaryAmplitude:  0.015,
		CurveExponent:      1.6,
		BaseScale:          1.0,
	}
}

// Valid reports whether the settings satisfy their invariants.
func (s Settings) Valid() bool {
	if s.PrimaryAmplitude < 0 || s.SecondaryAmplitude < 0 || s.TertiaryAmplitude < 0 {
		return false
	}
	if s.PrimaryFrequency <= 0 || s.SecondaryFrequency <= 0 || s.TertiaryFrequency <= 0 {
		return false
	}
	return s.CurveExponent > 0
}

// AmplitudeSum is the worst-case excursion of the scale output from
// BaseScale.
func (s Settings) AmplitudeSum() float64 {
	return s.PrimaryAmplitude + s.SecondaryAmplitude + s.TertiaryAmplitude
}

// Evaluate returns the scale and opacity for an element at time t.
//
// The raw signal is normalized to [-1, 1] before shaping and rescaled
// after, so the output always stays within BaseScale plus or minus the
// amplitude sum. Opacity uses only the secondary and tertiary harmonics
// with a shifted phase, keeping it correlated with but not identical to
// the scale.
func Evaluate(phaseOffset, t float64, s Settings) (scale, opacity float64) {
	b := math.Sin(t*2*math.Pi*s.PrimaryFrequency+phaseOffset)*s.PrimaryAmplitude +
		math.Sin(t*2*math.Pi*s.SecondaryFrequency+phaseOffset)*s.SecondaryAmplitude +
		math.Sin(t*2*math.Pi*s.TertiaryFrequency+phaseOffset)*s.TertiaryAmplitude

	scale = s.BaseScale + shape(b, s.AmplitudeSum(), s.CurveExponent)

	oAmp := s.SecondaryAmplitude + s.TertiaryAmplitude
	o := math.Sin(t*2*math.Pi*s.SecondaryFrequency+phaseOffset+math.Pi/3)*s.SecondaryAmplitude +
		math.Sin(t*2*math.Pi*s.TertiaryFrequency+phaseOffset+math.Pi/3)*s.TertiaryAmplitude

	opacity = s.BaseScale + shape(o, oAmp, s.CurveExponent)
	return scale, opacity
}

// shape runs the power-curve ease on a signal with known amplitude bound.
// The signal is normalized to [-1, 1], curved, and rescaled so the bound
// is preserved for any exponent.
func shape(b, ampSum, exponent float64) float64 {
	if ampSum == 0 {
		return 0
	}
	normalized := (b/ampSum + 1) / 2
	curved := math.Pow(normalized, exponent)
	shaped := curved*2 - 1
	return shaped * ampSum
}

// PhaseOffset maps an element handle to a stable phase in [0, 2*pi).
// SplitMix64 finalizer; consecutive handles land far apart.
func PhaseOffset(id uint64) float64 {
	z := id + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	return float64(z%36000) / 36000.0 * 2 * math.Pi
}
