// Package automation scripts unattended sessions: headless runs, yaml
// scenario batches, and one-dimensional parameter sweeps.
package automation

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/driftlab/wavelayout/internal/analysis"
	"github.com/driftlab/wavelayout/internal/cache"
	"github.com/driftlab/wavelayout/internal/config"
	"github.com/driftlab/wavelayout/internal/layout"
	"github.com/driftlab/wavelayout/internal/storage"
	"github.com/driftlab/wavelayout/internal/validate"
	"github.com/driftlab/wavelayout/internal/wavefield"
)

// SessionResult is a fully simulated session ready to persist.
type SessionResult struct {
	Meta   storage.RunMetadata
	Frames []storage.FrameRecord
}

// RunSession simulates cfg's session headlessly: register the element
// grid, tick at the configured rate for the configured duration, and
// record one frame per tick. The first registered element is the probe.
func RunSession(cfg *config.Config, presetName string) (*SessionResult, error) {
	eng, err := layout.NewWithParams(cfg.Engine, cfg.Params)
	if err != nil {
		return nil, err
	}

	cols := cfg.Session.Columns
	if cols < 1 {
		cols = 1
	}
	ids := make([]cache.ID, 0, cfg.Session.Elements)
	for i := 0; i < cfg.Session.Elements; i++ {
		ids = append(ids, eng.Register(cache.GridCoord{X: int32(i % cols), Z: int32(i / cols)}))
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("automation: session has no elements")
	}
	probe := ids[0]

	ticks := int(cfg.Session.Duration * cfg.Session.TickRate)
	dt := 1.0 / cfg.Session.TickRate

	frames := make([]storage.FrameRecord, 0, ticks)
	degraded := false

	for i := 0; i < ticks; i++ {
		t := float64(i) * dt
		eng.Tick(t)

		stats := eng.LastStats()
		rec := storage.FrameRecord{
			Tick:          i,
			Time:          t,
			Recomputed:    stats.ElementsRecomputed,
			ElapsedMicros: stats.ElapsedMicros,
		}
		if pos, ok := eng.PositionOf(probe); ok {
			rec.ProbeHeight = pos.Y
		}
		if br, ok := eng.BreathingOf(probe); ok {
			rec.ProbeScale = br.Scale
			rec.ProbeOpacity = br.Opacity
		}
		frames = append(frames, rec)

		if eng.Degraded() {
			degraded = true
		}
	}

	perf := eng.Perf()
	return &SessionResult{
		Meta: storage.RunMetadata{
			Preset:        presetName,
			Elements:      len(ids),
			Duration:      cfg.Session.Duration,
			TickRate:      cfg.Session.TickRate,
			Params:        eng.Params(),
			AvgTickMicros: perf.AvgTick.Seconds() * 1e6,
			P95TickMicros: perf.P95Tick.Seconds() * 1e6,
			Degraded:      degraded,
		},
		Frames: frames,
	}, nil
}

// Scenario is a scripted batch of sessions.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step describes one session in a scenario. Unset fields fall back to
// the preset (or the defaults when no preset is named).
type Step struct {
	Name     string  `yaml:"name"`
	Preset   string  `yaml:"preset"`
	Elements int     `yaml:"elements"`
	Columns  int     `yaml:"columns"`
	Duration float64 `yaml:"duration"`
	TickRate float64 `yaml:"tick_rate"`

	Params *wavefield.Params `yaml:"params"`
}

// LoadScenario reads a scenario from a yaml file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("automation: scenario %q has no steps", sc.Name)
	}
	return &sc, nil
}

// Config resolves a step to a runnable configuration.
func (s *Step) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("automation: unknown preset %q", s.Preset)
		}
	}
	if s.Elements > 0 {
		cfg.Session.Elements = s.Elements
	}
	if s.Columns > 0 {
		cfg.Session.Columns = s.Columns
	}
	if s.Duration > 0 {
		cfg.Session.Duration = s.Duration
	}
	if s.TickRate > 0 {
		cfg.Session.TickRate = s.TickRate
	}
	if s.Params != nil {
		cfg.Params = *s.Params
	}
	return cfg, nil
}

// RunScenario executes every step in order and persists each run,
// returning the stored run ids. A failing step aborts the batch.
func RunScenario(sc *Scenario, st *storage.Store) ([]string, error) {
	runIDs := make([]string, 0, len(sc.Steps))

	for i, step := range sc.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		fmt.Printf("running step %d/%d: %s\n", i+1, len(sc.Steps), name)

		cfg, err := step.Config()
		if err != nil {
			return runIDs, fmt.Errorf("step %d: %w", i+1, err)
		}

		presetName := step.Preset
		if presetName == "" {
			presetName = "default"
		}
		res, err := RunSession(cfg, presetName)
		if err != nil {
			return runIDs, fmt.Errorf("step %d: %w", i+1, err)
		}

		runID, err := st.Save(res.Meta, res.Frames)
		if err != nil {
			return runIDs, fmt.Errorf("step %d save: %w", i+1, err)
		}
		runIDs = append(runIDs, runID)
	}

	return runIDs, nil
}

// SetField returns a copy of p with one dotted field path changed.
// Recognized paths: primary/secondary/tertiary x frequency/amplitude/speed,
// interference_frequency, interference_amplitude, base_height.
func SetField(p wavefield.Params, field string, value float64) (wavefield.Params, error) {
	var c *wavefield.Component
	switch {
	case strings.HasPrefix(field, "primary."):
		c = &p.Primary
	case strings.HasPrefix(field, "secondary."):
		c = &p.Secondary
	case strings.HasPrefix(field, "tertiary."):
		c = &p.Tertiary
	case field == "interference_frequency":
		p.InterferenceFrequency = value
		return p, nil
	case field == "interference_amplitude":
		p.InterferenceAmplitude = value
		return p, nil
	case field == "base_height":
		p.BaseHeight = value
		return p, nil
	default:
		return p, fmt.Errorf("automation: unknown field %q", field)
	}

	switch field[strings.Index(field, ".")+1:] {
	case "frequency":
		c.Frequency = value
	case "amplitude":
		c.Amplitude = value
	case "speed":
		c.Speed = value
	case "phase":
		c.Phase = value
	default:
		return p, fmt.Errorf("automation: unknown field %q", field)
	}
	return p, nil
}

// SweepPoint is the outcome of one sweep value.
type SweepPoint struct {
	Value      float64
	Valid      bool
	BandEnergy float64
	PeakToPeak float64
}

// sweepProbe is where sweep metrics are sampled; off-axis so no field
// term degenerates to zero.
var sweepProbe = wavefield.Vec2{X: 0.4, Y: 0.4}

// RunSweep evaluates cfg's parameters across values of a single field.
// Each point records whether the candidate passes validation, the energy
// fraction in the 0.2-1.1 Hz discomfort band, and the height swing at
// the probe point. No engine is constructed; the sweep is pure analysis.
func RunSweep(cfg *config.Config, field string, values []float64) ([]SweepPoint, error) {
	ctx := cfg.Engine.Context
	if cfg.Session.Elements > ctx.TargetElementCount {
		ctx.TargetElementCount = cfg.Session.Elements
	}

	points := make([]SweepPoint, 0, len(values))
	for _, v := range values {
		candidate, err := SetField(cfg.Params, field, v)
		if err != nil {
			return nil, err
		}

		res := validate.Validate(candidate, ctx, cfg.Engine.Bounds)

		ps := analysis.Spectrum(sweepProbe, candidate, cfg.Session.TickRate, 512)
		band := analysis.BandEnergy(ps, cfg.Session.TickRate, 0.2, 1.1)
		lo, hi := analysis.PeakToPeak([]wavefield.Vec2{sweepProbe}, candidate, 10, cfg.Session.TickRate)

		points = append(points, SweepPoint{
			Value:      v,
			Valid:      res.Valid,
			BandEnergy: band,
			PeakToPeak: hi - lo,
		})
	}
	return points, nil
}
