package storage

import (
	"testing"

	"github.com/driftlab/wavelayout/internal/wavefield"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	meta := RunMetadata{
		Preset:        "quest3",
		Elements:      48,
		Duration:      10,
		TickRate:      72,
		Params:        wavefield.DefaultParams(),
		AvgTickMicros: 123.4,
	}
	frames := []FrameRecord{
		{Tick: 0, Time: 0, Recomputed: 48, ElapsedMicros: 150, ProbeHeight: 1.42},
		{Tick: 1, Time: 0.0139, Recomputed: 48, ElapsedMicros: 140, ProbeHeight: 1.44},
	}

	runID, err := s.Save(meta, frames)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := s.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Preset != "quest3" || loaded.Elements != 48 {
		t.Errorf("metadata mismatch: %+v", loaded)
	}
	if loaded.Params != meta.Params {
		t.Errorf("params did not round-trip")
	}

	got, err := s.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames: %v", err)
	}
	if len(got) != len(frames) {
		t.Fatalf("expected %d frames, got %d", len(frames), len(got))
	}
	if got[1] != frames[1] {
		t.Errorf("frame mismatch: %+v vs %+v", got[1], frames[1])
	}
}

func TestListEmpty(t *testing.T) {
	s := New(t.TempDir() + "/missing")
	runs, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestLoadUnknownRun(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Load("nope"); err == nil {
		t.Error("expected error for unknown run")
	}
}
