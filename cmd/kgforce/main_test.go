package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/kgforce/internal/config"
	"github.com/san-kum/kgforce/internal/engine"
	"github.com/san-kum/kgforce/internal/graph"
	"github.com/san-kum/kgforce/internal/metrics"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func testCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	configFile, preset, dataDir = "", "", ""
	cmd := &cobra.Command{Use: "test"}
	addConfigFlags(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestResolveConfig_FlagsOverridePreset(t *testing.T) {
	cmd := testCommand(t, "--preset", "sparse", "--seed", "9", "--width", "1024")
	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, uint64(9), cfg.Seed)
	assert.Equal(t, 1024.0, cfg.Viewport.Width)
	assert.Equal(t, config.GetPreset("sparse").Physics.RepulsionStrength, cfg.Physics.RepulsionStrength)
	// untouched flags keep the preset value
	assert.Equal(t, config.DefaultHeight, cfg.Viewport.Height)
}

func TestResolveConfig_UnknownPreset(t *testing.T) {
	cmd := testCommand(t, "--preset", "nope")
	_, err := resolveConfig(cmd)
	assert.ErrorContains(t, err, "unknown preset")
}

func TestResolveConfig_InvalidViewport(t *testing.T) {
	cmd := testCommand(t, "--width=-5")
	_, err := resolveConfig(cmd)
	assert.Error(t, err)
}

func TestLayoutPipeline(t *testing.T) {
	cmd := testCommand(t, "--seed", "4")
	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)

	ms := metrics.Defaults(cfg.ViewportValue(), cfg.Params().AlphaMin)
	tr := &tracer{}
	e := engine.New(context.Background(), append(engineOptions(cfg, loggerFromContext(context.Background())),
		engine.WithObserver(metrics.Observers(ms)...),
		engine.WithObserver(tr),
	)...)
	defer e.Detach()

	warnings := e.LoadInput(graph.Input{
		Nodes: []graph.NodeInput{{ID: "a", Label: "Ada"}, {ID: "b"}, {ID: "c"}},
		Edges: []graph.EdgeInput{{Source: "a", Target: "b"}, {Source: "b", Target: "zz"}},
	})
	assert.Len(t, warnings, 1)

	ticks, err := e.Run(context.Background(), 3000)
	require.NoError(t, err)

	l := buildLayout("mem", cfg, e.Frame(), ticks, len(warnings), ms, tr)
	assert.Equal(t, 3, l.Nodes)
	assert.Equal(t, 1, l.Edges)
	assert.Len(t, l.Positions, 3)
	assert.Equal(t, "a", l.Positions[0].ID)
	assert.Len(t, l.Trace, ticks)
	assert.Contains(t, l.Metrics, "settle_tick")

	outPath = filepath.Join(t.TempDir(), "out.svg")
	defer func() { outPath = "-" }()
	require.NoError(t, drawFrame("svg", e.Encoding(), e.Frame()))
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), ">Ada</text>"))

	assert.Error(t, drawFrame("png", e.Encoding(), e.Frame()))
}

func TestLiveCallbacks_EdgeHoverClears(t *testing.T) {
	var lines []string
	status := func(format string, a ...any) { lines = append(lines, fmt.Sprintf(format, a...)) }

	e := engine.New(context.Background(), engine.WithCallbacks(liveCallbacks(status)))
	defer e.Detach()
	e.LoadInput(graph.Input{
		Nodes: []graph.NodeInput{{ID: "a"}, {ID: "b"}},
		Edges: []graph.EdgeInput{{ID: "ab", Source: "a", Target: "b", Kind: "knows"}},
	})
	_, err := e.Run(context.Background(), 3000)
	require.NoError(t, err)

	frame := e.Frame()
	pa, _ := frame.Snapshot.Position("a")
	pb, _ := frame.Snapshot.Position("b")
	mid := frame.Viewport.ToScreen(r2.Scale(0.5, r2.Add(pa, pb)))

	e.PointerMove(mid.X, mid.Y)
	_, err = e.Run(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "ab", e.Frame().Highlight.HoveredEdge)

	e.PointerMove(1, 1)
	assert.NotPanics(t, func() {
		_, err = e.Run(context.Background(), 1)
	})
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "a -[knows")
	assert.Equal(t, "", lines[1])

	cb := liveCallbacks(status)
	assert.NotPanics(t, func() { cb.OnEdgeInspect(nil) })
}
