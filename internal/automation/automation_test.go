package automation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/driftlab/wavelayout/internal/config"
	"github.com/driftlab/wavelayout/internal/storage"
)

func TestSetField(t *testing.T) {
	base := config.DefaultConfig().Params

	tests := []struct {
		field string
		value float64
		check func() float64
	}{
		{"primary.amplitude", 0.2, nil},
		{"secondary.frequency", 2.0, nil},
		{"tertiary.speed", 0.7, nil},
		{"interference_amplitude", 0.01, nil},
		{"base_height", 1.8, nil},
	}

	for _, tt := range tests {
		got, err := SetField(base, tt.field, tt.value)
		if err != nil {
			t.Errorf("SetField(%s): %v", tt.field, err)
			continue
		}
		if got == base {
			t.Errorf("SetField(%s) did not change the params", tt.field)
		}
	}

	if _, err := SetField(base, "primary.wavelength", 1); err == nil {
		t.Error("expected error for unknown component field")
	}
	if _, err := SetField(base, "nonsense", 1); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestRunSessionRecordsFrames(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Session.Elements = 4
	cfg.Session.Columns = 2
	cfg.Session.Duration = 0.1
	cfg.Session.TickRate = 50

	res, err := RunSession(cfg, "default")
	if err != nil {
		t.Fatalf("run session: %v", err)
	}

	if len(res.Frames) != 5 {
		t.Fatalf("expected 5 frames, got %d", len(res.Frames))
	}
	if res.Meta.Elements != 4 || res.Meta.Preset != "default" {
		t.Errorf("metadata mismatch: %+v", res.Meta)
	}

	ampSum := cfg.Params.AmplitudeSum()
	for _, f := range res.Frames {
		if f.ProbeHeight < cfg.Params.BaseHeight-ampSum || f.ProbeHeight > cfg.Params.BaseHeight+ampSum {
			t.Errorf("tick %d: probe height %g outside field envelope", f.Tick, f.ProbeHeight)
		}
		if f.ProbeScale <= 0 {
			t.Errorf("tick %d: probe scale %g should be positive", f.Tick, f.ProbeScale)
		}
	}

	// First tick computes every element, later ticks only dirty ones.
	if res.Frames[0].Recomputed != 4 {
		t.Errorf("first tick should recompute all elements, got %d", res.Frames[0].Recomputed)
	}
}

func TestRunSessionNoElements(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Session.Elements = 0
	if _, err := RunSession(cfg, "default"); err == nil {
		t.Error("expected error for empty session")
	}
}

func TestStepConfig(t *testing.T) {
	step := Step{Preset: "gentle", Elements: 10, Duration: 2, TickRate: 30}
	cfg, err := step.Config()
	if err != nil {
		t.Fatalf("step config: %v", err)
	}
	if cfg.Session.Elements != 10 || cfg.Session.Duration != 2 || cfg.Session.TickRate != 30 {
		t.Errorf("overrides not applied: %+v", cfg.Session)
	}

	bad := Step{Preset: "nope"}
	if _, err := bad.Config(); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestScenarioRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	doc := `name: smoke
steps:
  - name: tiny
    elements: 2
    duration: 0.05
    tick_rate: 40
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if sc.Name != "smoke" || len(sc.Steps) != 1 {
		t.Fatalf("unexpected scenario: %+v", sc)
	}

	st := storage.New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	runIDs, err := RunScenario(sc, st)
	if err != nil {
		t.Fatalf("run scenario: %v", err)
	}
	if len(runIDs) != 1 {
		t.Fatalf("expected 1 run id, got %d", len(runIDs))
	}

	frames, err := st.LoadFrames(runIDs[0])
	if err != nil {
		t.Fatalf("load frames: %v", err)
	}
	if len(frames) != 2 {
		t.Errorf("expected 2 frames, got %d", len(frames))
	}
}

func TestLoadScenarioErrors(t *testing.T) {
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(empty, []byte("name: nothing\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(empty); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestRunSweepValidity(t *testing.T) {
	cfg := config.DefaultConfig()

	points, err := RunSweep(cfg, "primary.amplitude", []float64{0.1, 10})
	if err != nil {
		t.Fatalf("run sweep: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if !points[0].Valid {
		t.Error("amplitude 0.1 should pass validation")
	}
	if points[1].Valid {
		t.Error("amplitude 10 should fail validation")
	}
	if points[1].PeakToPeak <= points[0].PeakToPeak {
		t.Error("larger amplitude should swing further")
	}
}
