// Package export renders recorded runs as standalone SVG documents.
package export

import (
	"fmt"
	"strings"

	"github.com/driftlab/wavelayout/internal/wavefield"
)

// TraceSVG renders a time series as an SVG polyline with 5% vertical
// padding around the data bounds.
func TraceSVG(times, values []float64, width, height int, stroke string) string {
	if len(times) < 2 || len(times) != len(values) {
		return ""
	}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	span := maxV - minV
	if span == 0 {
		span = 1
	}
	minV -= span * 0.05
	span *= 1.1

	tSpan := times[len(times)-1] - times[0]
	if tSpan <= 0 {
		tSpan = 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<polyline fill="none" stroke="%s" stroke-width="1.5" points="`,
		width, height, width, height, stroke))

	for i := range times {
		x := (times[i] - times[0]) / tSpan * float64(width)
		y := float64(height) - (values[i]-minV)/span*float64(height)
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
	}

	sb.WriteString("\"/>\n</svg>")
	return sb.String()
}

// FieldSVG renders a top-down snapshot of the height field at time t as
// a grid of cells shaded by normalized height.
func FieldSVG(params wavefield.Params, t float64, xMin, xMax, zMin, zMax float64, cells, cellPx int) string {
	if cells < 2 {
		return ""
	}

	size := cells * cellPx
	ampSum := params.AmplitudeSum()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size))

	for r := 0; r < cells; r++ {
		z := zMin + (zMax-zMin)*(float64(r)+0.5)/float64(cells)
		for c := 0; c < cells; c++ {
			x := xMin + (xMax-xMin)*(float64(c)+0.5)/float64(cells)
			h := wavefield.Evaluate(wavefield.Vec2{X: x, Y: z}, t, params)

			norm := 0.5
			if ampSum > 0 {
				norm = (h - params.BaseHeight + ampSum) / (2 * ampSum)
			}
			if norm < 0 {
				norm = 0
			}
			if norm > 1 {
				norm = 1
			}

			sb.WriteString(fmt.Sprintf(
				"<rect x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" fill=\"#00ccff\" fill-opacity=\"%.2f\"/>\n",
				c*cellPx, r*cellPx, cellPx, cellPx, norm))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}
