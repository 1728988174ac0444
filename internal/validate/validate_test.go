package validate

import (
	"math"
	"testing"

	"github.com/driftlab/wavelayout/internal/wavefield"
)

func safeParams() wavefield.Params {
	return wavefield.Params{
		Primary:   wavefield.Component{Frequency: 1.0, Amplitude: 0.3, Speed: 1.5},
		Secondary: wavefield.Component{Frequency: 0.5, Amplitude: 0.1, Speed: 0.5},
		Tertiary:  wavefield.Component{Frequency: 0.3, Amplitude: 0.05, Speed: 0.2},
	}
}

func TestValidateAccepts(t *testing.T) {
	res := Validate(safeParams(), Context{}, DefaultBounds())
	if !res.Valid {
		t.Fatalf("expected valid, got violations: %v", res.Violations)
	}
	if res.Suggested != nil {
		t.Error("valid result should carry no suggestion")
	}
}

func TestValidateRangeRejection(t *testing.T) {
	b := DefaultBounds()

	tests := []struct {
		name   string
		mutate func(*wavefield.Params)
		field  string
	}{
		{"huge amplitude", func(p *wavefield.Params) { p.Primary.Amplitude = 1e6 }, "primary.amplitude"},
		{"negative amplitude", func(p *wavefield.Params) { p.Secondary.Amplitude = -0.1 }, "secondary.amplitude"},
		{"fast frequency", func(p *wavefield.Params) { p.Tertiary.Frequency = 50 }, "tertiary.frequency"},
		{"excess speed", func(p *wavefield.Params) { p.Primary.Speed = 10 }, "primary.speed"},
		{"interference amplitude", func(p *wavefield.Params) { p.InterferenceAmplitude = 2 }, "interference_amplitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := safeParams()
			tt.mutate(&params)

			res := Validate(params, Context{}, b)
			if res.Valid {
				t.Fatal("expected rejection")
			}

			found := false
			for _, v := range res.Violations {
				if v.Kind == KindRange && v.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected range violation on %s, got %v", tt.field, res.Violations)
			}
			if res.Suggested == nil {
				t.Fatal("expected a suggested correction")
			}
		})
	}
}

func TestValidateClampsAmplitude(t *testing.T) {
	b := DefaultBounds()
	params := safeParams()
	params.Primary.Amplitude = 1e6

	res := Validate(params, Context{}, b)
	if res.Valid {
		t.Fatal("expected rejection")
	}
	if res.Suggested.Primary.Amplitude != b.MaxAmplitude {
		t.Errorf("expected clamp to %g, got %g", b.MaxAmplitude, res.Suggested.Primary.Amplitude)
	}

	// The correction itself must pass.
	res2 := Validate(*res.Suggested, Context{}, b)
	if !res2.Valid {
		t.Errorf("suggested correction failed validation: %v", res2.Violations)
	}
}

func TestValidateComfort(t *testing.T) {
	b := DefaultBounds()
	params := safeParams()
	params.InterferenceEnabled = false
	params.Primary = wavefield.Component{Frequency: 2.5, Amplitude: 0.2, Speed: 2.5}
	params.Secondary = wavefield.Component{Frequency: 2.0, Amplitude: 0.1, Speed: 2.0}

	res := Validate(params, Context{}, b)
	if res.Valid {
		t.Fatal("expected comfort rejection")
	}

	found := false
	for _, v := range res.Violations {
		if v.Kind == KindComfort {
			found = true
		}
	}
	if !found {
		t.Errorf("expected comfort violation, got %v", res.Violations)
	}

	got := CombinedAngularVelocity(*res.Suggested)
	if got > b.MaxCombinedAngular+1e-9 {
		t.Errorf("suggested combined angular velocity %g still exceeds %g", got, b.MaxCombinedAngular)
	}
}

func TestValidateBudget(t *testing.T) {
	b := DefaultBounds()

	tests := []struct {
		name  string
		ctx   Context
		valid bool
	}{
		{"no context", Context{}, true},
		{"small count", Context{TargetElementCount: 50, FrameBudgetMillis: 13.8}, true},
		{"excess count", Context{TargetElementCount: 10000, FrameBudgetMillis: 13.8}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(safeParams(), tt.ctx, b)
			if res.Valid != tt.valid {
				t.Errorf("expected valid=%v, got %v (%v)", tt.valid, res.Valid, res.Violations)
			}
		})
	}
}

func TestValidateNaN(t *testing.T) {
	params := safeParams()
	params.BaseHeight = math.NaN()

	res := Validate(params, Context{}, DefaultBounds())
	if res.Valid {
		t.Fatal("NaN params must be rejected")
	}
	if res.Suggested == nil || !res.Suggested.IsFinite() {
		t.Error("suggestion must be finite")
	}
}

func TestValidateStability(t *testing.T) {
	// A single long-running sinusoid reaches its full peak-to-peak swing
	// over the probe window, so a factor below 2 flags it.
	b := DefaultBounds()
	b.MaxPeakToPeakFactor = 1.5

	params := wavefield.Params{
		Primary: wavefield.Component{Frequency: 1.0, Amplitude: 0.3, Speed: 1.5},
	}

	res := Validate(params, Context{}, b)
	if res.Valid {
		t.Fatal("expected stability rejection")
	}

	found := false
	for _, v := range res.Violations {
		if v.Kind == KindStability {
			found = true
			if v.Value <= v.Limit {
				t.Errorf("violation value %g should exceed limit %g", v.Value, v.Limit)
			}
		}
	}
	if !found {
		t.Errorf("expected stability violation, got %v", res.Violations)
	}
}

// Weaker parameter sets never trip the stability or budget checks when the
// original passed.
func TestValidateMonotonicity(t *testing.T) {
	b := DefaultBounds()
	ctx := Context{TargetElementCount: 100, FrameBudgetMillis: 13.8}

	strong := safeParams()
	if res := Validate(strong, ctx, b); !res.Valid {
		t.Fatalf("baseline should pass: %v", res.Violations)
	}

	weaker := strong
	weaker.Primary.Amplitude *= 0.5
	weaker.Secondary.Frequency *= 0.5
	weaker.Tertiary.Amplitude = 0

	if res := Validate(weaker, ctx, b); !res.Valid {
		t.Errorf("component-wise weaker params should pass: %v", res.Violations)
	}
}

func TestClampZeroesNonFinite(t *testing.T) {
	b := DefaultBounds()
	params := safeParams()
	params.Primary.Frequency = math.Inf(1)
	params.Secondary.Phase = math.NaN()

	out := Clamp(params, b)
	if out.Primary.Frequency != 0 {
		t.Errorf("Inf frequency should clamp to 0, got %g", out.Primary.Frequency)
	}
	if out.Secondary.Phase != 0 {
		t.Errorf("NaN phase should clamp to 0, got %g", out.Secondary.Phase)
	}
}
