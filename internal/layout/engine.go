package layout

import (
	"fmt"

	"github.com/driftlab/wavelayout/internal/breathing"
	"github.com/driftlab/wavelayout/internal/cache"
	"github.com/driftlab/wavelayout/internal/spatial"
	"github.com/driftlab/wavelayout/internal/telemetry"
	"github.com/driftlab/wavelayout/internal/validate"
	"github.com/driftlab/wavelayout/internal/wavefield"
)

// DegradeConfig controls the automatic level-of-detail response to budget
// overruns. After OverrunLimit consecutive ticks over budget the recompute
// interval is stretched by Step, up to MaxStaleAfter; a tick back under
// budget restores the configured interval.
type DegradeConfig struct {
	Enabled       bool    `yaml:"enabled"`
	OverrunLimit  int     `yaml:"overrun_limit"`
	Step          float64 `yaml:"step"`
	MaxStaleAfter float64 `yaml:"max_stale_after"`
}

// Config assembles an engine.
type Config struct {
	Grid          cache.Grid         `yaml:"grid"`
	IndexCellSize float64            `yaml:"index_cell_size"`
	StaleAfter    float64            `yaml:"stale_after"`
	Breathing     breathing.Settings `yaml:"breathing"`
	Bounds        validate.Bounds    `yaml:"bounds"`
	Context       validate.Context   `yaml:"budget"`
	Degrade       DegradeConfig      `yaml:"degrade"`
}

// DefaultConfig returns a playable engine configuration.
func DefaultConfig() Config {
	return Config{
		Grid:          cache.Grid{CellSize: 0.5, Origin: wavefield.Vec2{X: -2, Y: -2}},
		IndexCellSize: 1.0,
		StaleAfter:    0,
		Breathing:     breathing.DefaultSettings(),
		Bounds:        validate.DefaultBounds(),
		Context:       validate.Context{TargetElementCount: 120, FrameBudgetMillis: 13.8},
		Degrade: DegradeConfig{
			Enabled:       true,
			OverrunLimit:  5,
			Step:          0.05,
			MaxStaleAfter: 0.25,
		},
	}
}

// Breath is the per-element animation output for one frame.
type Breath struct {
	Scale   float64
	Opacity float64
}

// Engine is the layout orchestrator. It is the sole owner of the element
// table; collaborators only ever see handles and copied values.
type Engine struct {
	cfg    Config
	params wavefield.Params

	cache     *cache.Cache
	index     *spatial.Index
	collector *telemetry.Collector

	breath    map[cache.ID]Breath
	snapshot  []cache.Entry
	lastStats cache.Stats
	lastTime  float64

	overruns int
	degraded bool
}

// New builds an engine from cfg with the default field parameters. The
// initial parameters must pass the configured bounds.
func New(cfg Config) (*Engine, error) {
	return NewWithParams(cfg, wavefield.DefaultParams())
}

// NewWithParams builds an engine with an explicit initial parameter set.
func NewWithParams(cfg Config, params wavefield.Params) (*Engine, error) {
	if cfg.Grid.CellSize <= 0 {
		return nil, fmt.Errorf("layout: grid cell size must be positive, got %g", cfg.Grid.CellSize)
	}
	if !cfg.Breathing.Valid() {
		return nil, fmt.Errorf("layout: invalid breathing settings")
	}

	res := validate.Validate(params, cfg.Context, cfg.Bounds)
	if !res.Valid {
		return nil, fmt.Errorf("layout: initial parameters rejected: %v", res.Violations)
	}

	return &Engine{
		cfg:       cfg,
		params:    params,
		cache:     cache.New(cfg.Grid, cfg.StaleAfter),
		index:     spatial.New(cfg.IndexCellSize),
		collector: telemetry.NewCollector(72),
		breath:    make(map[cache.ID]Breath),
	}, nil
}

// Params returns the currently installed parameter set.
func (e *Engine) Params() wavefield.Params { return e.params }

// SetParams validates p and, when valid, installs it as a whole-value swap
// and marks the cache dirty. Recompute stays lazy: the cost is paid on the
// next Tick. Invalid sets are never installed.
func (e *Engine) SetParams(p wavefield.Params) validate.Result {
	ctx := e.cfg.Context
	if n := e.cache.Len(); n > ctx.TargetElementCount {
		ctx.TargetElementCount = n
	}

	res := validate.Validate(p, ctx, e.cfg.Bounds)
	if !res.Valid {
		return res
	}

	e.params = p
	e.cache.Invalidate()
	return res
}

// Register adds an element at a grid coordinate and returns its handle.
func (e *Engine) Register(gc cache.GridCoord) cache.ID {
	return e.cache.Register(gc)
}

// Release frees an element. Unknown handles are a no-op.
func (e *Engine) Release(id cache.ID) {
	e.cache.Release(id)
	delete(e.breath, id)
}

// Move changes an element's grid coordinate, dirtying only that slot.
func (e *Engine) Move(id cache.ID, gc cache.GridCoord) {
	e.cache.Move(id, gc)
}

// Len returns the number of live elements.
func (e *Engine) Len() int { return e.cache.Len() }

// Tick advances the engine to time t (seconds, host frame clock):
// recompute dirty/stale slots, rebuild the spatial index from the fresh
// snapshot, and recompute breathing values.
func (e *Engine) Tick(t float64) {
	e.lastTime = t

	e.collector.StartTick()

	e.collector.StartPhase(telemetry.PhaseRecompute)
	e.lastStats = e.cache.Recompute(t, e.params)

	e.collector.StartPhase(telemetry.PhaseIndex)
	e.snapshot = e.cache.Snapshot(e.snapshot[:0])
	e.index.Rebuild(e.snapshot)

	e.collector.StartPhase(telemetry.PhaseBreathing)
	clear(e.breath)
	for _, entry := range e.snapshot {
		slot, ok := e.cache.SlotOf(entry.ID)
		if !ok {
			continue
		}
		scale, opacity := breathing.Evaluate(slot.BreathingPhaseOffset, t, e.cfg.Breathing)
		e.breath[entry.ID] = Breath{Scale: scale, Opacity: opacity}
	}

	e.collector.EndTick()

	e.applyDegrade()
}

// applyDegrade stretches the recompute interval after sustained budget
// overruns and restores it once the engine is back under budget. The
// engine only ever reports and adapts; it never fails a tick.
func (e *Engine) applyDegrade() {
	if !e.cfg.Degrade.Enabled || e.cfg.Context.FrameBudgetMillis <= 0 {
		return
	}

	budgetMicros := int64(e.cfg.Context.FrameBudgetMillis * 1000)
	if e.lastStats.ElapsedMicros > budgetMicros {
		e.overruns++
		if e.overruns >= e.cfg.Degrade.OverrunLimit {
			next := e.cache.StaleAfter() + e.cfg.Degrade.Step
			if next > e.cfg.Degrade.MaxStaleAfter {
				next = e.cfg.Degrade.MaxStaleAfter
			}
			e.cache.SetStaleAfter(next)
			e.degraded = true
			e.overruns = 0
		}
		return
	}

	e.overruns = 0
	if e.degraded {
		e.cache.SetStaleAfter(e.cfg.StaleAfter)
		e.degraded = false
	}
}

// Degraded reports whether the degrade path is currently active.
func (e *Engine) Degraded() bool { return e.degraded }

// PositionOf returns the last computed world position for id.
func (e *Engine) PositionOf(id cache.ID) (wavefield.Vec3, bool) {
	return e.cache.PositionOf(id)
}

// BreathingOf returns the element's scale/opacity for the last tick.
func (e *Engine) BreathingOf(id cache.ID) (Breath, bool) {
	b, ok := e.breath[id]
	return b, ok
}

// Nearest returns the element closest to p as of the last tick.
func (e *Engine) Nearest(p wavefield.Vec3) (cache.ID, bool) {
	return e.index.Nearest(p)
}

// WithinRadius returns every element within radius of p as of the last
// tick, ascending by handle.
func (e *Engine) WithinRadius(p wavefield.Vec3, radius float64) []cache.ID {
	return e.index.WithinRadius(p, radius)
}

// LastStats returns the recompute cost of the most recent tick.
func (e *Engine) LastStats() cache.Stats { return e.lastStats }

// Perf returns aggregate tick statistics over the rolling window.
func (e *Engine) Perf() telemetry.PerfStats { return e.collector.Stats() }

// Time returns the time value of the most recent tick.
func (e *Engine) Time() float64 { return e.lastTime }
