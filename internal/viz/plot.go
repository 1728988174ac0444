// Package viz renders terminal plots and shared styles for the CLI.
package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/driftlab/wavelayout/internal/breathing"
	"github.com/driftlab/wavelayout/internal/wavefield"
)

// FieldProfile plots the height along X at a fixed Z row and time.
func FieldProfile(params wavefield.Params, z, t float64, xMin, xMax float64, samples int) string {
	if samples < 2 {
		samples = 2
	}
	heights := make([]float64, samples)
	step := (xMax - xMin) / float64(samples-1)
	for i := range heights {
		x := xMin + float64(i)*step
		heights[i] = wavefield.Evaluate(wavefield.Vec2{X: x, Y: z}, t, params)
	}

	return asciigraph.Plot(heights,
		asciigraph.Height(12),
		asciigraph.Caption(fmt.Sprintf("height along x ∈ [%.1f, %.1f], z=%.1f, t=%.2fs", xMin, xMax, z, t)),
	)
}

// BreathingCurve plots the scale output over a time window.
func BreathingCurve(s breathing.Settings, phaseOffset, duration float64, samples int) string {
	if samples < 2 {
		samples = 2
	}
	scales := make([]float64, samples)
	for i := range scales {
		t := duration * float64(i) / float64(samples-1)
		scales[i], _ = breathing.Evaluate(phaseOffset, t, s)
	}

	return asciigraph.Plot(scales,
		asciigraph.Height(10),
		asciigraph.Caption(fmt.Sprintf("breathing scale over %.1fs", duration)),
	)
}

// SpectrumPlot plots a power spectrum with a frequency-axis caption.
func SpectrumPlot(ps []float64, sampleRate float64) string {
	if len(ps) == 0 {
		return "(empty spectrum)"
	}
	return asciigraph.Plot(ps,
		asciigraph.Height(12),
		asciigraph.Caption(fmt.Sprintf("power spectrum, 0-%.1f Hz", sampleRate/2)),
	)
}

// heatRamp maps a normalized height to a density glyph.
var heatRamp = []rune(" .:-=+*#%@")

// FieldHeatmap renders a top-down ASCII view of the field at time t.
// Heights are normalized against base±amplitude sum so the contrast stays
// stable while parameters animate. Uses the fast trig path; this is a
// preview, not a measurement.
func FieldHeatmap(params wavefield.Params, t float64, xMin, xMax, zMin, zMax float64, cols, rows int) []string {
	if cols < 2 || rows < 2 {
		return nil
	}

	ampSum := params.AmplitudeSum()
	lines := make([]string, rows)
	buf := make([]rune, cols)

	for r := 0; r < rows; r++ {
		z := zMin + (zMax-zMin)*float64(r)/float64(rows-1)
		for c := 0; c < cols; c++ {
			x := xMin + (xMax-xMin)*float64(c)/float64(cols-1)
			h := wavefield.FastEvaluate(wavefield.Vec2{X: x, Y: z}, t, params)

			norm := 0.5
			if ampSum > 0 {
				norm = (h - params.BaseHeight + ampSum) / (2 * ampSum)
			}
			idx := int(norm * float64(len(heatRamp)-1))
			if idx < 0 {
				idx = 0
			}
			if idx >= len(heatRamp) {
				idx = len(heatRamp) - 1
			}
			buf[c] = heatRamp[idx]
		}
		lines[r] = string(buf)
	}
	return lines
}
