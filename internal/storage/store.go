// Package storage persists simulated layout sessions: one directory per
// run holding metadata.json and frames.csv.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/driftlab/wavelayout/internal/wavefield"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata summarizes one recorded session.
type RunMetadata struct {
	ID        string    `json:"id"`
	Preset    string    `json:"preset"`
	Timestamp time.Time `json:"timestamp"`

	Elements int     `json:"elements"`
	Duration float64 `json:"duration"`
	TickRate float64 `json:"tick_rate"`

	Params wavefield.Params `json:"params"`

	AvgTickMicros float64 `json:"avg_tick_micros"`
	P95TickMicros float64 `json:"p95_tick_micros"`
	Degraded      bool    `json:"degraded"`
}

// FrameRecord is one tick of a recorded session. The probe columns track
// a single designated element through the run.
type FrameRecord struct {
	Tick          int     `csv:"tick"`
	Time          float64 `csv:"time"`
	Recomputed    int     `csv:"recomputed"`
	ElapsedMicros int64   `csv:"elapsed_micros"`
	ProbeHeight   float64 `csv:"probe_height"`
	ProbeScale    float64 `csv:"probe_scale"`
	ProbeOpacity  float64 `csv:"probe_opacity"`
}

// Save writes a run directory and returns its id.
func (s *Store) Save(meta RunMetadata, frames []FrameRecord) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Preset, time.Now().Unix())
	meta.ID = runID
	meta.Timestamp = time.Now()

	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := gocsv.MarshalFile(&frames, csvFile); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns metadata for every stored run.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

// Load reads one run's metadata.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadFrames reads one run's per-tick records.
func (s *Store) LoadFrames(runID string) ([]FrameRecord, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var frames []FrameRecord
	if err := gocsv.UnmarshalFile(f, &frames); err != nil {
		return nil, err
	}
	return frames, nil
}
