package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/kgforce/internal/dynamo"
	"github.com/san-kum/kgforce/internal/physics"
)

// Store keeps one directory per layout run. Runs are written for later
// inspection; nothing reads positions back into a simulator.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type Position struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Pinned bool    `json:"pinned,omitempty"`
}

type TracePoint struct {
	Tick   int     `json:"tick"`
	Alpha  float64 `json:"alpha"`
	Energy float64 `json:"energy"`
}

// Layout is the outcome of one layout run.
type Layout struct {
	Source    string             `json:"source"`
	Preset    string             `json:"preset,omitempty"`
	Seed      uint64             `json:"seed"`
	Nodes     int                `json:"nodes"`
	Edges     int                `json:"edges"`
	Warnings  int                `json:"warnings"`
	Ticks     int                `json:"ticks"`
	Viewport  dynamo.Viewport    `json:"viewport"`
	Params    physics.Params     `json:"params"`
	Metrics   map[string]float64 `json:"metrics"`
	Positions []Position         `json:"positions"`
	Trace     []TracePoint       `json:"trace,omitempty"`
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Source    string             `json:"source"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      uint64             `json:"seed"`
	Nodes     int                `json:"nodes"`
	Edges     int                `json:"edges"`
	Warnings  int                `json:"warnings"`
	Ticks     int                `json:"ticks"`
	Viewport  dynamo.Viewport    `json:"viewport"`
	Params    physics.Params     `json:"params"`
	Metrics   map[string]float64 `json:"metrics"`
}

func newRunID(now time.Time) string {
	return fmt.Sprintf("%s_%s", now.Format("20060102-150405"), uuid.NewString()[:8])
}

func (s *Store) Save(l *Layout) (string, error) {
	now := time.Now()
	runID := newRunID(now)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Source:    l.Source,
		Preset:    l.Preset,
		Timestamp: now,
		Seed:      l.Seed,
		Nodes:     l.Nodes,
		Edges:     l.Edges,
		Warnings:  l.Warnings,
		Ticks:     l.Ticks,
		Viewport:  l.Viewport,
		Params:    l.Params,
		Metrics:   l.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(l.Positions)+1)
	rows = append(rows, []string{"id", "x", "y", "pinned"})
	for _, p := range l.Positions {
		rows = append(rows, []string{
			p.ID,
			strconv.FormatFloat(p.X, 'f', 6, 64),
			strconv.FormatFloat(p.Y, 'f', 6, 64),
			strconv.FormatBool(p.Pinned),
		})
	}
	if err := writeCSV(filepath.Join(runDir, "positions.csv"), rows); err != nil {
		return "", err
	}

	rows = make([][]string, 0, len(l.Trace)+1)
	rows = append(rows, []string{"tick", "alpha", "energy"})
	for _, t := range l.Trace {
		rows = append(rows, []string{
			strconv.Itoa(t.Tick),
			strconv.FormatFloat(t.Alpha, 'g', -1, 64),
			strconv.FormatFloat(t.Energy, 'g', -1, 64),
		})
	}
	if err := writeCSV(filepath.Join(runDir, "trace.csv"), rows); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Sync()
}

// List returns every readable run, newest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) readCSV(runID, name string) ([][]string, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return nil, nil
	}
	return records[1:], nil
}

func (s *Store) LoadPositions(runID string) ([]Position, error) {
	records, err := s.readCSV(runID, "positions.csv")
	if err != nil {
		return nil, err
	}

	out := make([]Position, 0, len(records))
	for _, rec := range records {
		if len(rec) < 3 {
			continue
		}
		x, errX := strconv.ParseFloat(rec[1], 64)
		y, errY := strconv.ParseFloat(rec[2], 64)
		if errX != nil || errY != nil {
			continue
		}
		p := Position{ID: rec[0], X: x, Y: y}
		if len(rec) > 3 {
			p.Pinned, _ = strconv.ParseBool(rec[3])
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) LoadTrace(runID string) ([]TracePoint, error) {
	records, err := s.readCSV(runID, "trace.csv")
	if err != nil {
		return nil, err
	}

	out := make([]TracePoint, 0, len(records))
	for _, rec := range records {
		if len(rec) < 3 {
			continue
		}
		tick, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		alpha, _ := strconv.ParseFloat(rec[1], 64)
		energy, _ := strconv.ParseFloat(rec[2], 64)
		out = append(out, TracePoint{Tick: tick, Alpha: alpha, Energy: energy})
	}
	return out, nil
}
