package telemetry

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// PerfStats summarizes the current window.
type PerfStats struct {
	AvgTick    time.Duration
	StdDevTick time.Duration
	MinTick    time.Duration
	MaxTick    time.Duration
	P95Tick    time.Duration

	// PhaseAvg maps each phase to its mean duration over the window.
	PhaseAvg map[string]time.Duration
}

// Stats computes aggregate statistics over the rolling window.
func (c *Collector) Stats() PerfStats {
	samples := c.window()
	if len(samples) == 0 {
		return PerfStats{PhaseAvg: map[string]time.Duration{}}
	}

	totals := make([]float64, len(samples))
	phaseSums := make(map[string]time.Duration)

	min := samples[0].Total
	max := samples[0].Total
	for i, s := range samples {
		totals[i] = float64(s.Total)
		if s.Total < min {
			min = s.Total
		}
		if s.Total > max {
			max = s.Total
		}
		for name, d := range s.Phases {
			phaseSums[name] += d
		}
	}

	mean, std := stat.MeanStdDev(totals, nil)

	sorted := append([]float64(nil), totals...)
	sort.Float64s(sorted)
	p95 := stat.Quantile(0.95, stat.Empirical, sorted, nil)

	phaseAvg := make(map[string]time.Duration, len(phaseSums))
	for name, sum := range phaseSums {
		phaseAvg[name] = sum / time.Duration(len(samples))
	}

	out := PerfStats{
		AvgTick:  time.Duration(mean),
		MinTick:  min,
		MaxTick:  max,
		P95Tick:  time.Duration(p95),
		PhaseAvg: phaseAvg,
	}
	if len(samples) > 1 {
		out.StdDevTick = time.Duration(std)
	}
	return out
}
