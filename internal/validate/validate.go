package validate

import (
	"fmt"
	"math"

	"github.com/driftlab/wavelayout/internal/wavefield"
)

// Kind identifies which check produced a violation.
type Kind string

const (
	KindRange     Kind = "range"
	KindStability Kind = "stability"
	KindComfort   Kind = "comfort"
	KindBudget    Kind = "budget"
)

// Violation describes one bound the parameter set exceeded.
type Violation struct {
	Kind  Kind
	Field string
	Value float64
	Limit float64
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s = %.4g exceeds %.4g", v.Kind, v.Field, v.Value, v.Limit)
}

// Context carries the per-call facts the budget check needs.
type Context struct {
	TargetElementCount int     `yaml:"target_element_count"`
	FrameBudgetMillis  float64 `yaml:"frame_budget_millis"`
}

// Result is the outcome of a validation pass. When Valid is false,
// Suggested holds the input with every offending field clamped to its
// nearest safe bound.
type Result struct {
	Valid      bool
	Violations []Violation
	Suggested  *wavefield.Params
}

// Validate checks params against bounds. It never mutates its inputs and
// holds no state between calls.
func Validate(params wavefield.Params, ctx Context, b Bounds) Result {
	var violations []Violation

	// Non-finite values poison every downstream check, so they short out
	// the probe-based ones.
	if !params.IsFinite() {
		violations = append(violations, Violation{
			Kind: KindRange, Field: "params", Value: math.NaN(), Limit: 0,
		})
		suggested := Clamp(params, b)
		return Result{Valid: false, Violations: violations, Suggested: &suggested}
	}

	violations = append(violations, rangeViolations(params, b)...)

	if v, ok := comfortViolation(params, b); ok {
		violations = append(violations, v)
	}

	// The stability probe evaluates the field, so it only runs once the
	// ranges are known sane.
	if len(violations) == 0 {
		if v, ok := stabilityViolation(params, b); ok {
			violations = append(violations, v)
		}
	}

	if v, ok := budgetViolation(ctx, b); ok {
		violations = append(violations, v)
	}

	if len(violations) == 0 {
		return Result{Valid: true}
	}

	suggested := Clamp(params, b)
	return Result{Valid: false, Violations: violations, Suggested: &suggested}
}

func rangeViolations(params wavefield.Params, b Bounds) []Violation {
	var out []Violation

	check := func(name string, c wavefield.Component) {
		if c.Frequency < 0 || c.Frequency > b.MaxFrequency {
			out = append(out, Violation{KindRange, name + ".frequency", c.Frequency, b.MaxFrequency})
		}
		if c.Amplitude < 0 || c.Amplitude > b.MaxAmplitude {
			out = append(out, Violation{KindRange, name + ".amplitude", c.Amplitude, b.MaxAmplitude})
		}
		if c.Speed < 0 || c.Speed > b.MaxSpeed {
			out = append(out, Violation{KindRange, name + ".speed", c.Speed, b.MaxSpeed})
		}
	}

	check("primary", params.Primary)
	check("secondary", params.Secondary)
	check("tertiary", params.Tertiary)

	if params.InterferenceFrequency < 0 || params.InterferenceFrequency > b.MaxFrequency {
		out = append(out, Violation{KindRange, "interference_frequency", params.InterferenceFrequency, b.MaxFrequency})
	}
	if params.InterferenceAmplitude < 0 || params.InterferenceAmplitude > b.MaxAmplitude {
		out = append(out, Violation{KindRange, "interference_amplitude", params.InterferenceAmplitude, b.MaxAmplitude})
	}

	return out
}

// CombinedAngularVelocity sums the oscillation rate of every active term.
// The interference term oscillates at unit rate in each of its two factors.
func CombinedAngularVelocity(params wavefield.Params) float64 {
	total := params.Primary.AngularVelocity() +
		params.Secondary.AngularVelocity() +
		params.Tertiary.AngularVelocity()
	if params.InterferenceEnabled {
		total += 2.0
	}
	return total
}

func comfortViolation(params wavefield.Params, b Bounds) (Violation, bool) {
	combined := CombinedAngularVelocity(params)
	if combined > b.MaxCombinedAngular {
		return Violation{KindComfort, "combined_angular_velocity", combined, b.MaxCombinedAngular}, true
	}
	return Violation{}, false
}

// probePoints is the fixed spatial sample set for the stability probe: the
// origin plus a ring of offsets covering a few wavelengths of typical
// fields.
var probePoints = []wavefield.Vec2{
	{X: 0, Y: 0},
	{X: 1.5, Y: 0}, {X: -1.5, Y: 0}, {X: 0, Y: 1.5}, {X: 0, Y: -1.5},
	{X: 3, Y: 3}, {X: -3, Y: 3}, {X: 3, Y: -3}, {X: -3, Y: -3},
	{X: 6, Y: 0}, {X: 0, Y: 6},
}

func stabilityViolation(params wavefield.Params, b Bounds) (Violation, bool) {
	ampSum := params.AmplitudeSum()
	if ampSum == 0 {
		return Violation{}, false
	}

	steps := int(b.ProbeDuration * b.ProbeSampleRate)
	if steps <= 0 {
		return Violation{}, false
	}
	dt := 1.0 / b.ProbeSampleRate

	minH := math.Inf(1)
	maxH := math.Inf(-1)

	for i := 0; i <= steps; i++ {
		t := float64(i) * dt
		for _, p := range probePoints {
			h := wavefield.Evaluate(p, t, params)
			minH = math.Min(minH, h)
			maxH = math.Max(maxH, h)
		}
	}

	peakToPeak := maxH - minH
	limit := b.MaxPeakToPeakFactor * ampSum
	if peakToPeak > limit {
		return Violation{KindStability, "peak_to_peak", peakToPeak, limit}, true
	}
	return Violation{}, false
}

func budgetViolation(ctx Context, b Bounds) (Violation, bool) {
	if ctx.TargetElementCount <= 0 || ctx.FrameBudgetMillis <= 0 {
		return Violation{}, false
	}

	costMillis := float64(ctx.TargetElementCount) * b.PerElementCostMicros / 1000.0
	allowed := ctx.FrameBudgetMillis * (1.0 - b.HeadroomFraction)
	if costMillis > allowed {
		return Violation{KindBudget, "evaluation_cost_millis", costMillis, allowed}, true
	}
	return Violation{}, false
}

// Clamp returns params with every field forced into the bounds envelope.
// Non-finite fields collapse to zero. If the comfort limit is still
// exceeded after per-field clamping, speeds are scaled down uniformly until
// the combined rate meets it.
func Clamp(params wavefield.Params, b Bounds) wavefield.Params {
	out := params

	out.Primary = clampComponent(out.Primary, b)
	out.Secondary = clampComponent(out.Secondary, b)
	out.Tertiary = clampComponent(out.Tertiary, b)

	out.InterferenceFrequency = clampValue(out.InterferenceFrequency, b.MaxFrequency)
	out.InterferenceAmplitude = clampValue(out.InterferenceAmplitude, b.MaxAmplitude)
	if math.IsNaN(out.BaseHeight) || math.IsInf(out.BaseHeight, 0) {
		out.BaseHeight = 0
	}

	combined := CombinedAngularVelocity(out)
	limit := b.MaxCombinedAngular
	if out.InterferenceEnabled {
		limit -= 2.0
		combined -= 2.0
	}
	if combined > limit && combined > 0 {
		scale := limit / combined
		if scale < 0 {
			scale = 0
		}
		out.Primary.Speed *= scale
		out.Secondary.Speed *= scale
		out.Tertiary.Speed *= scale
	}

	return out
}

func clampComponent(c wavefield.Component, b Bounds) wavefield.Component {
	c.Frequency = clampValue(c.Frequency, b.MaxFrequency)
	c.Amplitude = clampValue(c.Amplitude, b.MaxAmplitude)
	c.Speed = clampValue(c.Speed, b.MaxSpeed)
	if math.IsNaN(c.Phase) || math.IsInf(c.Phase, 0) {
		c.Phase = 0
	}
	return c
}

func clampValue(v, max float64) float64 {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return 0
	case v < 0:
		return 0
	case v > max:
		return max
	}
	return v
}
