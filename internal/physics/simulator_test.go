package physics

import (
	"math"
	"testing"

	"github.com/san-kum/kgforce/internal/dynamo"
	"github.com/san-kum/kgforce/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func f(v float64) *float64 { return &v }

func settle(t *testing.T, sim *Simulator) {
	t.Helper()
	for i := 0; i < 5000 && !sim.Settled(); i++ {
		sim.Step()
	}
	require.True(t, sim.Settled(), "layout did not settle")
}

func inside(t *testing.T, vp dynamo.Viewport, p r2.Vec) {
	t.Helper()
	b := vp.Bounds()
	assert.True(t, p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y,
		"%v outside %v", p, b)
}

func star(n int) *graph.Graph {
	nodes := []graph.NodeInput{{ID: "hub", Kind: "concept"}}
	var edges []graph.EdgeInput
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		nodes = append(nodes, graph.NodeInput{ID: id, Kind: "person"})
		edges = append(edges, graph.EdgeInput{Source: "hub", Target: id, Weight: f(float64(i%5) / 4)})
	}
	g, _ := graph.Load(nodes, edges)
	return g
}

func TestSimulator_TwoNodesRestLength(t *testing.T) {
	g, _ := graph.Load(
		[]graph.NodeInput{{ID: "a"}, {ID: "b"}},
		[]graph.EdgeInput{{Source: "a", Target: "b", Weight: f(0.9)}},
	)
	vp := dynamo.DefaultViewport()
	p := DefaultParams()
	sim := New(g, vp, p)

	settle(t, sim)

	a, _ := sim.Body("a")
	b, _ := sim.Body("b")
	rest := p.RestLengthFor(0.9)
	assert.InDelta(t, 84.0, rest, 1e-9)
	assert.InEpsilon(t, rest, r2.Norm(r2.Sub(a.Pos, b.Pos)), 0.05)
	inside(t, vp, a.Pos)
	inside(t, vp, b.Pos)
}

func TestSimulator_BoundaryContainment(t *testing.T) {
	vp := dynamo.Viewport{Width: 200, Height: 120, Padding: 10, Zoom: 1}
	p := DefaultParams()
	p.RepulsionStrength = 50000
	sim := New(star(20), vp, p)

	for i := 0; i < 200; i++ {
		sim.Step()
		for _, b := range sim.Bodies() {
			inside(t, vp, b.Pos)
		}
	}
}

func TestSimulator_DeterministicWithSeed(t *testing.T) {
	run := func() map[string]dynamo.Body {
		sim := New(star(8), dynamo.DefaultViewport(), DefaultParams(), WithJitter(dynamo.NewJitter(42)))
		for i := 0; i < 150; i++ {
			sim.Step()
		}
		return sim.Bodies()
	}
	assert.Equal(t, run(), run())
}

func TestSimulator_CoincidentNodesSeparate(t *testing.T) {
	g, _ := graph.Load([]graph.NodeInput{{ID: "a"}, {ID: "b"}}, nil)
	vp := dynamo.DefaultViewport()
	sim := New(g, vp, DefaultParams(), WithJitter(dynamo.NoJitter{}))
	c := vp.Center()
	sim.Adopt(g, map[string]dynamo.Body{"a": {Pos: c}, "b": {Pos: c}})

	sim.Step()

	a, _ := sim.Body("a")
	b, _ := sim.Body("b")
	assert.Greater(t, r2.Norm(r2.Sub(a.Pos, b.Pos)), 0.0)
	assert.True(t, a.IsValid() && b.IsValid())
}

func TestSimulator_RepairsNonFinite(t *testing.T) {
	g := star(3)
	vp := dynamo.DefaultViewport()
	var reports []*dynamo.SimError
	sim := New(g, vp, DefaultParams(), WithCorrectionHook(func(e *dynamo.SimError) {
		reports = append(reports, e)
	}))
	bodies := sim.Bodies()
	bodies["a"] = dynamo.Body{Pos: r2.Vec{X: math.NaN(), Y: 3}, Vel: r2.Vec{X: math.Inf(1)}}
	sim.Adopt(g, bodies)

	for i := 0; i < 10; i++ {
		sim.Step()
	}

	for id, b := range sim.Bodies() {
		assert.True(t, b.IsValid(), "body %s", id)
		inside(t, vp, b.Pos)
	}
	require.Len(t, reports, 1)
	assert.Equal(t, "a", reports[0].NodeID)
	assert.ErrorIs(t, reports[0], dynamo.ErrNonFinite)
	assert.Equal(t, 1, sim.Stats().Corrected)
}

func TestSimulator_PinnedBodyStays(t *testing.T) {
	sim := New(star(4), dynamo.DefaultViewport(), DefaultParams())
	target := r2.Vec{X: 100, Y: 100}
	require.True(t, sim.Pin("hub", target))

	for i := 0; i < 50; i++ {
		sim.Step()
	}
	hub, _ := sim.Body("hub")
	assert.Equal(t, target, hub.Pos)
	assert.True(t, hub.Pinned)

	require.True(t, sim.MovePinned("hub", r2.Vec{X: -500, Y: 50}))
	hub, _ = sim.Body("hub")
	assert.Equal(t, r2.Vec{X: 24, Y: 50}, hub.Pos, "pointer position clamps into the viewport")

	require.True(t, sim.Unpin("hub"))
	assert.False(t, sim.MovePinned("hub", target))
	assert.False(t, sim.Pin("missing", target))
}

func TestSimulator_AlphaLifecycle(t *testing.T) {
	p := DefaultParams()
	sim := New(star(2), dynamo.DefaultViewport(), p)
	settle(t, sim)
	assert.Less(t, sim.Alpha(), p.AlphaMin)

	sim.SetAlphaTarget(p.DragAlphaTarget)
	assert.False(t, sim.Settled())
	for i := 0; i < 2000; i++ {
		sim.Step()
	}
	assert.InDelta(t, p.DragAlphaTarget, sim.Alpha(), 1e-3, "alpha holds at the drag target")

	sim.SetAlphaTarget(0)
	settle(t, sim)

	sim.Reheat(p.ReheatAlpha)
	assert.Equal(t, p.ReheatAlpha, sim.Alpha())
	assert.False(t, sim.Settled())
}

func TestSimulator_InteractiveNeverSettles(t *testing.T) {
	p := DefaultParams()
	sim := New(star(2), dynamo.DefaultViewport(), p, WithInteractive(true))
	for i := 0; i < p.MaxIterations+10; i++ {
		sim.Step()
	}
	assert.False(t, sim.Settled())

	before := sim.Bodies()
	sim.Step()
	assert.Equal(t, before, sim.Bodies(), "a cooled simulator does not move bodies")
}

func TestSimulator_ResizeClampsAndReheats(t *testing.T) {
	sim := New(star(6), dynamo.DefaultViewport(), DefaultParams())
	settle(t, sim)

	small := dynamo.Viewport{Width: 100, Height: 80, Padding: 5, Zoom: 1}
	sim.Resize(small)

	for _, b := range sim.Bodies() {
		inside(t, small, b.Pos)
	}
	assert.False(t, sim.Settled())
}

func TestSimulator_EmptyGraph(t *testing.T) {
	g, _ := graph.Load(nil, nil)
	sim := New(g, dynamo.DefaultViewport(), DefaultParams())
	sim.Step()
	assert.Zero(t, sim.Energy())
	assert.Empty(t, sim.Bodies())
	_, ok := sim.Body("x")
	assert.False(t, ok)
}

func TestPhyllotaxis(t *testing.T) {
	p0 := Phyllotaxis(0, 10)
	assert.InDelta(t, 10*math.Sqrt(0.5), r2.Norm(p0), 1e-9)
	assert.InDelta(t, 10*math.Sqrt(3.5), r2.Norm(Phyllotaxis(3, 10)), 1e-9)
}
