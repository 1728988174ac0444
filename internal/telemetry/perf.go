// Package telemetry aggregates per-tick timing for the layout engine.
//
// The engine reports how long each tick phase took; the collector keeps a
// rolling window and exposes aggregate statistics for the degrade path and
// for session reports.
package telemetry

import "time"

// Tick phases, in execution order.
const (
	PhaseRecompute = "recompute"
	PhaseIndex     = "index"
	PhaseBreathing = "breathing"
)

// Sample holds the timing of a single engine tick.
type Sample struct {
	Total  time.Duration
	Phases map[string]time.Duration
}

// Collector tracks tick timing over a rolling window. Not safe for
// concurrent use; the engine feeds it from the frame call site.
type Collector struct {
	windowSize int
	samples    []Sample
	writeIndex int
	count      int

	current    map[string]time.Duration
	tickStart  time.Time
	phaseStart time.Time
	lastPhase  string
}

// NewCollector creates a collector averaging over windowSize ticks.
func NewCollector(windowSize int) *Collector {
	if windowSize < 1 {
		windowSize = 72
	}
	return &Collector{
		windowSize: windowSize,
		samples:    make([]Sample, windowSize),
	}
}

// StartTick begins timing a new tick.
func (c *Collector) StartTick() {
	c.tickStart = time.Now()
	c.current = make(map[string]time.Duration, 3)
	c.lastPhase = ""
}

// StartPhase ends the previous phase, if any, and begins a new one.
func (c *Collector) StartPhase(phase string) {
	now := time.Now()
	if c.lastPhase != "" {
		c.current[c.lastPhase] += now.Sub(c.phaseStart)
	}
	c.phaseStart = now
	c.lastPhase = phase
}

// EndTick closes the current tick and records its sample.
func (c *Collector) EndTick() {
	now := time.Now()
	if c.lastPhase != "" {
		c.current[c.lastPhase] += now.Sub(c.phaseStart)
	}

	c.samples[c.writeIndex] = Sample{
		Total:  now.Sub(c.tickStart),
		Phases: c.current,
	}
	c.writeIndex = (c.writeIndex + 1) % c.windowSize
	if c.count < c.windowSize {
		c.count++
	}
}

// Count returns the number of recorded samples, capped at the window size.
func (c *Collector) Count() int { return c.count }

// window returns the recorded samples in no particular order.
func (c *Collector) window() []Sample {
	return c.samples[:c.count]
}
