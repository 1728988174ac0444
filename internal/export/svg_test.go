package export

import (
	"strings"
	"testing"

	"github.com/driftlab/wavelayout/internal/wavefield"
)

func TestTraceSVG(t *testing.T) {
	times := []float64{0, 0.5, 1.0, 1.5}
	values := []float64{1.4, 1.5, 1.3, 1.4}

	svg := TraceSVG(times, values, 800, 300, "#00ccff")
	if !strings.HasPrefix(svg, `<?xml`) {
		t.Error("missing xml declaration")
	}
	if !strings.Contains(svg, "<polyline") {
		t.Error("missing polyline")
	}
	if !strings.Contains(svg, `width="800"`) || !strings.Contains(svg, `height="300"`) {
		t.Error("wrong dimensions")
	}
}

func TestTraceSVGDegenerate(t *testing.T) {
	if svg := TraceSVG([]float64{0}, []float64{1}, 100, 100, "#fff"); svg != "" {
		t.Error("single point should produce no output")
	}
	if svg := TraceSVG([]float64{0, 1}, []float64{1}, 100, 100, "#fff"); svg != "" {
		t.Error("mismatched lengths should produce no output")
	}
	// A constant series still renders; the span guard avoids division by zero.
	if svg := TraceSVG([]float64{0, 1}, []float64{2, 2}, 100, 100, "#fff"); svg == "" {
		t.Error("constant series should still render")
	}
}

func TestFieldSVG(t *testing.T) {
	params := wavefield.DefaultParams()

	svg := FieldSVG(params, 0, -2, 2, -2, 2, 8, 4)
	if !strings.HasPrefix(svg, `<?xml`) {
		t.Error("missing xml declaration")
	}
	if got := strings.Count(svg, "<rect"); got != 8*8+1 {
		t.Errorf("expected %d rects (cells plus background), got %d", 8*8+1, got)
	}

	if FieldSVG(params, 0, -2, 2, -2, 2, 1, 4) != "" {
		t.Error("degenerate cell count should produce no output")
	}
}
