package config

import (
	"path/filepath"
	"testing"

	"github.com/driftlab/wavelayout/internal/validate"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Session.TickRate <= 0 {
		t.Error("tick rate should be positive")
	}
	if cfg.Engine.Grid.CellSize <= 0 {
		t.Error("cell size should be positive")
	}
	if !cfg.Engine.Breathing.Valid() {
		t.Error("default breathing settings should be valid")
	}

	res := validate.Validate(cfg.Params, cfg.Engine.Context, cfg.Engine.Bounds)
	if !res.Valid {
		t.Errorf("default params must pass default bounds: %v", res.Violations)
	}
}

func TestPresetsPassTheirOwnBounds(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			if cfg == nil {
				t.Fatal("expected preset")
			}
			res := validate.Validate(cfg.Params, cfg.Engine.Context, cfg.Engine.Bounds)
			if !res.Valid {
				t.Errorf("preset params rejected by preset bounds: %v", res.Violations)
			}
		})
	}
}

func TestGetPresetNotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := GetPreset("cinema")
	cfg.Session.Elements = 99

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Session.Elements != 99 {
		t.Errorf("expected 99 elements, got %d", loaded.Session.Elements)
	}
	if loaded.Params != cfg.Params {
		t.Errorf("params did not round-trip: %+v vs %+v", loaded.Params, cfg.Params)
	}
	if loaded.Engine.Bounds != cfg.Engine.Bounds {
		t.Errorf("bounds did not round-trip")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
