package reconcile

import (
	"testing"

	"github.com/san-kum/kgforce/internal/dynamo"
	"github.com/san-kum/kgforce/internal/graph"
	"github.com/san-kum/kgforce/internal/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func load(t *testing.T, ids []string, edges [][2]string) *graph.Graph {
	t.Helper()
	var nodes []graph.NodeInput
	for _, id := range ids {
		nodes = append(nodes, graph.NodeInput{ID: id, Label: id})
	}
	var ein []graph.EdgeInput
	for _, e := range edges {
		ein = append(ein, graph.EdgeInput{Source: e[0], Target: e[1]})
	}
	g, warnings := graph.Load(nodes, ein)
	require.Empty(t, warnings)
	return g
}

func settled(t *testing.T, g *graph.Graph) *physics.Simulator {
	t.Helper()
	sim := physics.New(g, dynamo.DefaultViewport(), physics.DefaultParams())
	for i := 0; i < 2000 && !sim.Settled(); i++ {
		sim.Step()
	}
	return sim
}

func TestApply_Idempotent(t *testing.T) {
	g := load(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})
	sim := settled(t, g)
	before := sim.Bodies()

	rc := New(dynamo.NewJitter(7), 0.3)
	res := rc.Apply(sim, load(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}}))

	assert.False(t, res.Changed())
	assert.Equal(t, []string{"a", "b", "c"}, res.Kept)
	assert.Equal(t, before, sim.Bodies())
	assert.Equal(t, 0.3, sim.Alpha())
}

func TestApply_ExpandKeepsExistingAndSpawnsNearNeighbour(t *testing.T) {
	sim := settled(t, load(t, []string{"a"}, nil))
	a, _ := sim.Body("a")

	rc := New(dynamo.NewJitter(7), 0.3)
	res := rc.Apply(sim, load(t, []string{"a", "b"}, [][2]string{{"a", "b"}}))

	assert.Equal(t, []string{"b"}, res.Added)
	assert.Empty(t, res.Removed)

	after, _ := sim.Body("a")
	assert.Equal(t, a, after, "existing node must not move")

	b, ok := sim.Body("b")
	require.True(t, ok)
	assert.LessOrEqual(t, r2.Norm(r2.Sub(b.Pos, a.Pos)), DefaultSpawnRadius)
}

func TestApply_OrphanSpawnsNearCenter(t *testing.T) {
	sim := settled(t, load(t, []string{"a", "b"}, [][2]string{{"a", "b"}}))

	rc := New(dynamo.NewJitter(3), 0.3)
	res := rc.Apply(sim, load(t, []string{"a", "b", "z"}, [][2]string{{"a", "b"}}))

	require.Equal(t, []string{"z"}, res.Added)
	z, _ := sim.Body("z")
	c := sim.Viewport().Center()
	assert.LessOrEqual(t, r2.Norm(r2.Sub(z.Pos, c)), DefaultCenterRadius)
}

func TestApply_RemovesAndKeepsPins(t *testing.T) {
	sim := settled(t, load(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}}))
	require.True(t, sim.Pin("a", r2.Vec{X: 300, Y: 300}))

	rc := New(nil, 0.3)
	res := rc.Apply(sim, load(t, []string{"a", "b"}, [][2]string{{"a", "b"}}))

	assert.Equal(t, []string{"c"}, res.Removed)
	_, ok := sim.Body("c")
	assert.False(t, ok)
	a, _ := sim.Body("a")
	assert.True(t, a.Pinned)
	assert.Equal(t, r2.Vec{X: 300, Y: 300}, a.Pos)
	assert.Len(t, sim.Graph().Edges(), 1)
}
