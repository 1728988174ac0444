package wavefield

import "math"

// Component is one traveling sinusoid contributing additively to the field.
type Component struct {
	Frequency float64 `yaml:"frequency"`
	Amplitude float64 `yaml:"amplitude"`
	Speed     float64 `yaml:"speed"`
	Phase     float64 `yaml:"phase"`
}

// AngularVelocity is the rate of phase change at a fixed point.
func (c Component) AngularVelocity() float64 {
	return c.Frequency * c.Speed
}

// Params describes the complete height field. It is a value type: a new
// instance is produced whenever settings change, and a Params in use by the
// cache is never mutated in place. This keeps concurrent evaluation free of
// torn reads.
type Params struct {
	Primary   Component `yaml:"primary"`
	Secondary Component `yaml:"secondary"`
	Tertiary  Component `yaml:"tertiary"`

	InterferenceFrequency float64 `yaml:"interference_frequency"`
	InterferenceAmplitude float64 `yaml:"interference_amplitude"`
	InterferenceEnabled   bool    `yaml:"interference_enabled"`

	BaseHeight float64 `yaml:"base_height"`
}

// DefaultParams returns a gentle three-component field.
func DefaultParams() Params {
	return Params{
		Primary:               Component{Frequency: 0.8, Amplitude: 0.15, Speed: 0.5},
		Secondary:             Component{Frequency: 1.2, Amplitude: 0.08, Speed: 0.3},
		Tertiary:              Component{Frequency: 0.4, Amplitude: 0.05, Speed: 0.2},
		InterferenceFrequency: 0.6,
		InterferenceAmplitude: 0.03,
		InterferenceEnabled:   true,
		BaseHeight:            1.4,
	}
}

// AmplitudeSum is the worst-case height excursion from BaseHeight.
func (p Params) AmplitudeSum() float64 {
	sum := p.Primary.Amplitude + p.Secondary.Amplitude + p.Tertiary.Amplitude
	if p.InterferenceEnabled {
		sum += p.InterferenceAmplitude
	}
	return sum
}

// IsFinite reports whether every field is a finite number.
func (p Params) IsFinite() bool {
	vals := []float64{
		p.Primary.Frequency, p.Primary.Amplitude, p.Primary.Speed, p.Primary.Phase,
		p.Secondary.Frequency, p.Secondary.Amplitude, p.Secondary.Speed, p.Secondary.Phase,
		p.Tertiary.Frequency, p.Tertiary.Amplitude, p.Tertiary.Speed, p.Tertiary.Phase,
		p.InterferenceFrequency, p.InterferenceAmplitude, p.BaseHeight,
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Evaluate returns the field height at point p and time t.
//
// The height is the sum of a primary sinusoid along X, a secondary along Y,
// a tertiary radial sinusoid, and an optional separable interference term.
// Terms are additive; evaluation order only matters for readability.
func Evaluate(p Vec2, t float64, params Params) float64 {
	h := params.BaseHeight

	h += math.Sin(p.X*params.Primary.Frequency+t*params.Primary.Speed+params.Primary.Phase) *
		params.Primary.Amplitude

	h += math.Sin(p.Y*params.Secondary.Frequency+t*params.Secondary.Speed+params.Secondary.Phase) *
		params.Secondary.Amplitude

	r := p.Length()
	h += math.Sin(r*params.Tertiary.Frequency+t*params.Tertiary.Speed+params.Tertiary.Phase) *
		params.Tertiary.Amplitude

	if params.InterferenceEnabled {
		h += math.Sin(p.X*params.InterferenceFrequency+t) *
			math.Cos(p.Y*params.InterferenceFrequency+t) *
			params.InterferenceAmplitude
	}

	return h
}

// EvaluateBatch fills dst with the height at each point. Results are
// bit-identical to calling Evaluate per point; parallel fan-out splits the
// index range into disjoint chunks evaluated with the same scalar function,
// so the identity holds regardless of worker count.
//
// dst and pts must have equal length.
func EvaluateBatch(dst []float64, pts []Vec2, t float64, params Params) {
	if len(dst) != len(pts) {
		panic("wavefield: dst/pts length mismatch")
	}
	ParallelFor(len(pts), batchMinChunk, func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = Evaluate(pts[i], t, params)
		}
	})
}

// batchMinChunk is the smallest range worth handing to a worker. Below this
// the goroutine overhead exceeds the evaluation cost.
const batchMinChunk = 64

// Gradient returns the analytic spatial gradient (dh/dx, dh/dy) at p.
func Gradient(p Vec2, t float64, params Params) Vec2 {
	var g Vec2

	g.X += math.Cos(p.X*params.Primary.Frequency+t*params.Primary.Speed+params.Primary.Phase) *
		params.Primary.Frequency * params.Primary.Amplitude

	g.Y += math.Cos(p.Y*params.Secondary.Frequency+t*params.Secondary.Speed+params.Secondary.Phase) *
		params.Secondary.Frequency * params.Secondary.Amplitude

	r := p.Length()
	if r > 0 {
		dr := math.Cos(r*params.Tertiary.Frequency+t*params.Tertiary.Speed+params.Tertiary.Phase) *
			params.Tertiary.Frequency * params.Tertiary.Amplitude
		g.X += dr * p.X / r
		g.Y += dr * p.Y / r
	}

	if params.InterferenceEnabled {
		sx := math.Sin(p.X*params.InterferenceFrequency + t)
		cx := math.Cos(p.X*params.InterferenceFrequency + t)
		sy := math.Sin(p.Y*params.InterferenceFrequency + t)
		cy := math.Cos(p.Y*params.InterferenceFrequency + t)
		g.X += cx * cy * params.InterferenceFrequency * params.InterferenceAmplitude
		g.Y += -sx * sy * params.InterferenceFrequency * params.InterferenceAmplitude
	}

	return g
}
