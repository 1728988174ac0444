package layout

import (
	"math"
	"testing"

	"github.com/driftlab/wavelayout/internal/cache"
	"github.com/driftlab/wavelayout/internal/validate"
	"github.com/driftlab/wavelayout/internal/wavefield"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return e
}

func TestEngineLifecycle(t *testing.T) {
	e := newTestEngine(t)

	ids := []cache.ID{
		e.Register(cache.GridCoord{X: 0, Z: 0}),
		e.Register(cache.GridCoord{X: 3, Z: 1}),
		e.Register(cache.GridCoord{X: 1, Z: 4}),
	}

	e.Tick(1.0)

	for _, id := range ids {
		pos, ok := e.PositionOf(id)
		if !ok {
			t.Fatalf("element %d has no position", id)
		}
		if !pos.IsValid() {
			t.Fatalf("element %d has invalid position %+v", id, pos)
		}

		b, ok := e.BreathingOf(id)
		if !ok {
			t.Fatalf("element %d has no breathing value", id)
		}
		if math.IsNaN(b.Scale) || math.IsNaN(b.Opacity) {
			t.Fatalf("element %d breathing is NaN", id)
		}
	}

	e.Release(ids[1])
	if _, ok := e.PositionOf(ids[1]); ok {
		t.Error("released element should not resolve")
	}
	if e.Len() != 2 {
		t.Errorf("expected 2 live elements, got %d", e.Len())
	}
}

func TestEngineNearestSelf(t *testing.T) {
	e := newTestEngine(t)

	e.Register(cache.GridCoord{X: 0, Z: 0})
	second := e.Register(cache.GridCoord{X: 4, Z: 0})
	e.Register(cache.GridCoord{X: 0, Z: 4})

	e.Tick(2.5)

	pos, ok := e.PositionOf(second)
	if !ok {
		t.Fatal("expected position for element 2")
	}

	got, ok := e.Nearest(pos)
	if !ok || got != second {
		t.Errorf("nearest from element 2's own position should be itself, got %d", got)
	}
}

func TestEngineSetParamsRejectsInvalid(t *testing.T) {
	e := newTestEngine(t)
	before := e.Params()

	bad := before
	bad.Primary.Amplitude = 1e6

	res := e.SetParams(bad)
	if res.Valid {
		t.Fatal("expected rejection")
	}
	if res.Suggested == nil {
		t.Fatal("expected suggestion")
	}
	if e.Params() != before {
		t.Error("rejected params must not be installed")
	}

	// The suggestion is usable.
	res2 := e.SetParams(*res.Suggested)
	if !res2.Valid {
		t.Errorf("suggested params rejected: %v", res2.Violations)
	}
}

func TestEngineSetParamsInvalidatesCache(t *testing.T) {
	e := newTestEngine(t)

	id := e.Register(cache.GridCoord{X: 2, Z: 2})
	e.Tick(1.0)
	before, _ := e.PositionOf(id)

	p := e.Params()
	p.BaseHeight += 0.5
	if res := e.SetParams(p); !res.Valid {
		t.Fatalf("unexpected rejection: %v", res.Violations)
	}

	// Lazy: position unchanged until the next tick.
	mid, _ := e.PositionOf(id)
	if mid != before {
		t.Error("param swap must not eagerly recompute")
	}

	e.Tick(1.0)
	after, _ := e.PositionOf(id)
	if math.Abs(after.Y-(before.Y+0.5)) > 1e-12 {
		t.Errorf("expected height shift of 0.5, got %g -> %g", before.Y, after.Y)
	}
}

func TestEngineWithinRadius(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grid = cache.Grid{CellSize: 1.0}
	e, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	center := e.Register(cache.GridCoord{X: 0, Z: 0})
	near := e.Register(cache.GridCoord{X: 1, Z: 0})
	e.Register(cache.GridCoord{X: 30, Z: 30})

	e.Tick(0.5)

	pos, _ := e.PositionOf(center)
	ids := e.WithinRadius(pos, 2.0)

	want := map[cache.ID]bool{center: true, near: true}
	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %v", len(want), ids)
	}
	for _, id := range ids {
		if !want[id] {
			t.Errorf("unexpected id %d", id)
		}
	}
}

func TestEngineDeterministicTicks(t *testing.T) {
	build := func() *Engine {
		e := newTestEngine(t)
		for i := 0; i < 30; i++ {
			e.Register(cache.GridCoord{X: int32(i % 6), Z: int32(i / 6)})
		}
		return e
	}

	e1 := build()
	e2 := build()
	e1.Tick(3.3)
	e2.Tick(3.3)

	for i := 0; i < 30; i++ {
		id := cache.ID(i)
		p1, _ := e1.PositionOf(id)
		p2, _ := e2.PositionOf(id)
		if p1 != p2 {
			t.Fatalf("element %d: %+v vs %+v", id, p1, p2)
		}

		b1, _ := e1.BreathingOf(id)
		b2, _ := e2.BreathingOf(id)
		if b1 != b2 {
			t.Fatalf("element %d breathing: %+v vs %+v", id, b1, b2)
		}
	}
}

func TestEngineDegradePath(t *testing.T) {
	cfg := DefaultConfig()
	// A sub-microsecond budget guarantees any measurable recompute of a
	// few thousand elements overruns it.
	cfg.Context.FrameBudgetMillis = 1e-9
	cfg.Degrade = DegradeConfig{Enabled: true, OverrunLimit: 1, Step: 0.1, MaxStaleAfter: 0.2}

	e, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4000; i++ {
		e.Register(cache.GridCoord{X: int32(i % 64), Z: int32(i / 64)})
	}

	e.Tick(0.0)
	if !e.Degraded() {
		t.Error("overrun should engage the degrade path")
	}
	if e.cache.StaleAfter() != 0.1 {
		t.Errorf("expected stretched interval 0.1, got %g", e.cache.StaleAfter())
	}

	// Lifting the budget restores the configured interval.
	e.cfg.Context.FrameBudgetMillis = 1e9
	e.Tick(1.0)
	if e.Degraded() {
		t.Error("degrade should clear once under budget")
	}
	if e.cache.StaleAfter() != cfg.StaleAfter {
		t.Errorf("expected restored interval %g, got %g", cfg.StaleAfter, e.cache.StaleAfter())
	}
}

func TestEngineRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grid.CellSize = 0
	if _, err := New(cfg); err == nil {
		t.Error("zero cell size must be rejected")
	}

	cfg = DefaultConfig()
	cfg.Breathing.CurveExponent = -1
	if _, err := New(cfg); err == nil {
		t.Error("invalid breathing settings must be rejected")
	}

	cfg = DefaultConfig()
	bad := wavefield.DefaultParams()
	bad.Primary.Amplitude = 99
	if _, err := NewWithParams(cfg, bad); err == nil {
		t.Error("out-of-bounds initial params must be rejected")
	}
}

func TestEngineBudgetContextTracksElements(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Context = validate.Context{TargetElementCount: 10, FrameBudgetMillis: 0.1}
	e, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	// 10 elements fit the tiny budget at the default per-element cost.
	if res := e.SetParams(e.Params()); !res.Valid {
		t.Fatalf("expected valid at low element count: %v", res.Violations)
	}

	for i := 0; i < 100; i++ {
		e.Register(cache.GridCoord{X: int32(i), Z: 0})
	}

	// The live count now exceeds the configured target and blows the budget.
	res := e.SetParams(e.Params())
	if res.Valid {
		t.Error("expected budget rejection with 100 live elements")
	}
}
