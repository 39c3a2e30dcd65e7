package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/san-kum/kgforce/internal/config"
	"github.com/san-kum/kgforce/internal/dynamo"
	"github.com/san-kum/kgforce/internal/engine"
	"github.com/san-kum/kgforce/internal/export"
	"github.com/san-kum/kgforce/internal/graph"
	"github.com/san-kum/kgforce/internal/metrics"
	"github.com/san-kum/kgforce/internal/render"
	"github.com/san-kum/kgforce/internal/storage"
	"github.com/san-kum/kgforce/internal/viz"
	"github.com/spf13/cobra"
)

// resolveConfig builds the effective config: file or preset first, then
// any flag the user set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	default:
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("width") {
		cfg.Viewport.Width = width
	}
	if flags.Changed("height") {
		cfg.Viewport.Height = height
	}
	if flags.Changed("max-ticks") {
		cfg.MaxTicks = maxTicks
	}
	if flags.Changed("edge-kinds") {
		cfg.EdgeKinds = edgeKinds
	}
	if flags.Changed("surface") {
		cfg.Render.Surface = surface
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if dataDir != "" {
		cfg.RunsDir = dataDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// engineOptions maps cfg onto engine options shared by every command.
func engineOptions(cfg *config.Config, logger *log.Logger) []engine.Option {
	return append(engine.ConfigOptions(cfg), engine.WithLogger(logger))
}

func surfaces() *render.Registry {
	r := render.NewRegistry()
	r.Register("svg", func(w io.Writer) render.Surface { return export.NewSVGSurface(w) })
	r.Register("canvas", func(w io.Writer) render.Surface { return viz.NewCanvasSurface(cols, rows, w) })
	return r
}

func readGraph(path string) (graph.Input, error) {
	if path == "-" {
		return graph.Decode(os.Stdin)
	}
	return graph.ReadFile(path)
}

// tracer records alpha and energy after every tick.
type tracer struct {
	points []storage.TracePoint
}

func (t *tracer) OnTick(s dynamo.Snapshot) {
	t.points = append(t.points, storage.TracePoint{Tick: s.Tick, Alpha: s.Alpha, Energy: s.Energy})
}

// buildLayout collects the result of a finished run in graph order.
func buildLayout(source string, cfg *config.Config, frame render.Frame, ticks, warnings int, ms []metrics.Metric, tr *tracer) *storage.Layout {
	l := &storage.Layout{
		Source:   source,
		Preset:   preset,
		Seed:     cfg.Seed,
		Warnings: warnings,
		Ticks:    ticks,
		Viewport: frame.Viewport,
		Params:   cfg.Params(),
		Metrics:  metrics.Summary(ms),
		Trace:    tr.points,
	}
	if frame.Graph == nil {
		l.Viewport = cfg.ViewportValue()
		return l
	}
	l.Nodes = frame.Graph.Len()
	l.Edges = len(frame.Graph.Edges())
	for _, n := range frame.Graph.Nodes() {
		b, ok := frame.Snapshot.Bodies[n.ID]
		if !ok {
			continue
		}
		l.Positions = append(l.Positions, storage.Position{ID: n.ID, X: b.Pos.X, Y: b.Pos.Y, Pinned: b.Pinned})
	}
	return l
}

func openOut(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
