package wavefield

import (
	"math"
	"testing"
)

func TestTrigTableAccuracy(t *testing.T) {
	tab := NewTrigTable(4096)

	for x := -10.0; x < 10.0; x += 0.0137 {
		if diff := math.Abs(tab.Sin(x) - math.Sin(x)); diff > 1e-5 {
			t.Fatalf("sin(%g): error %g", x, diff)
		}
		if diff := math.Abs(tab.Cos(x) - math.Cos(x)); diff > 1e-5 {
			t.Fatalf("cos(%g): error %g", x, diff)
		}
	}
}

func TestFastEvaluateCloseToExact(t *testing.T) {
	params := DefaultParams()

	for i := 0; i < 200; i++ {
		p := Vec2{X: float64(i) * 0.11, Y: float64(i%13) * 0.3}
		exact := Evaluate(p, 1.5, params)
		fast := FastEvaluate(p, 1.5, params)
		if math.Abs(exact-fast) > 1e-4 {
			t.Fatalf("point %+v: exact %g, fast %g", p, exact, fast)
		}
	}
}
