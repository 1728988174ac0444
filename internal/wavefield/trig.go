package wavefield

import "math"

// TrigTable provides precomputed sin/cos values for fast lookup.
// Uses linear interpolation for values between table entries.
type TrigTable struct {
	sin []float64
	cos []float64
	n   int
}

// Global default trig table (4096 entries = ~0.0015 rad resolution)
var DefaultTrigTable = NewTrigTable(4096)

// NewTrigTable creates a precomputed trig lookup table
func NewTrigTable(n int) *TrigTable {
	t := &TrigTable{
		sin: make([]float64, n),
		cos: make([]float64, n),
		n:   n,
	}

	for i := 0; i < n; i++ {
		angle := float64(i) * 2 * math.Pi / float64(n)
		t.sin[i] = math.Sin(angle)
		t.cos[i] = math.Cos(angle)
	}

	return t
}

// Sin returns approximate sin using table lookup with interpolation
func (t *TrigTable) Sin(x float64) float64 {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}

	idx := x * float64(t.n) / (2 * math.Pi)
	i := int(idx)
	frac := idx - float64(i)

	i0 := i % t.n
	i1 := (i + 1) % t.n

	return t.sin[i0]*(1-frac) + t.sin[i1]*frac
}

// Cos returns approximate cos using table lookup with interpolation
func (t *TrigTable) Cos(x float64) float64 {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}

	idx := x * float64(t.n) / (2 * math.Pi)
	i := int(idx)
	frac := idx - float64(i)

	i0 := i % t.n
	i1 := (i + 1) % t.n

	return t.cos[i0]*(1-frac) + t.cos[i1]*frac
}

// FastEvaluate is Evaluate with table-lookup trig. It is close to but not
// bit-identical with Evaluate, so it serves preview and benchmark paths
// only; the position cache always uses the exact form.
func FastEvaluate(p Vec2, t float64, params Params) float64 {
	tab := DefaultTrigTable
	h := params.BaseHeight

	h += tab.Sin(p.X*params.Primary.Frequency+t*params.Primary.Speed+params.Primary.Phase) *
		params.Primary.Amplitude

	h += tab.Sin(p.Y*params.Secondary.Frequency+t*params.Secondary.Speed+params.Secondary.Phase) *
		params.Secondary.Amplitude

	r := p.Length()
	h += tab.Sin(r*params.Tertiary.Frequency+t*params.Tertiary.Speed+params.Tertiary.Phase) *
		params.Tertiary.Amplitude

	if params.InterferenceEnabled {
		h += tab.Sin(p.X*params.InterferenceFrequency+t) *
			tab.Cos(p.Y*params.InterferenceFrequency+t) *
			params.InterferenceAmplitude
	}

	return h
}
