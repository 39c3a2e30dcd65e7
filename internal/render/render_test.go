package render

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/san-kum/kgforce/internal/dynamo"
	"github.com/san-kum/kgforce/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func f(v float64) *float64 { return &v }

func fixture(t *testing.T) (*graph.Graph, dynamo.Snapshot) {
	t.Helper()
	g, _ := graph.Load(
		[]graph.NodeInput{
			{ID: "a", Label: "Ada", Kind: "person"},
			{ID: "b", Label: "Acme", Kind: "Organization"},
			{ID: "c", Kind: "mystery"},
		},
		[]graph.EdgeInput{
			{ID: "ab", Source: "a", Target: "b", Weight: f(1), Kind: "works_at"},
			{ID: "bc", Source: "b", Target: "c", Weight: f(0)},
		},
	)
	snap := dynamo.Snapshot{Bodies: map[string]dynamo.Body{
		"a": {Pos: r2.Vec{X: 100, Y: 100}},
		"b": {Pos: r2.Vec{X: 200, Y: 100}},
		"c": {Pos: r2.Vec{X: 300, Y: 100}},
	}}
	return g, snap
}

func byOp(cmds []Command, op Op) []Command {
	var out []Command
	for _, c := range cmds {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func TestScale(t *testing.T) {
	lin := Scale{Domain: [2]float64{0, 1}, Range: [2]float64{1, 5}}
	assert.Equal(t, 1.0, lin.At(0))
	assert.Equal(t, 3.0, lin.At(0.5))
	assert.Equal(t, 5.0, lin.At(7))

	sq := Scale{Domain: [2]float64{0, 20}, Range: [2]float64{9, 27}, Sqrt: true}
	assert.Equal(t, 9.0, sq.At(0))
	assert.InDelta(t, 18.0, sq.At(5), 1e-9)
	assert.Equal(t, 27.0, sq.At(400))
}

func TestEncoding_ColorAndRadius(t *testing.T) {
	enc := DefaultEncoding()
	assert.Equal(t, "#6ea8fe", enc.Color("person"))
	assert.Equal(t, "#63e6be", enc.Color("ORG"))
	assert.Equal(t, "#94a3b8", enc.Color("alien"))

	assert.Equal(t, 9.0, enc.NodeRadius(&graph.Node{}))
	assert.Equal(t, 27.0, enc.NodeRadius(&graph.Node{Degree: 20}))
	assert.InDelta(t, 18.0, enc.NodeRadius(&graph.Node{DegreeHint: 5}), 1e-9)

	enc.SizeBy = SizeByScore
	assert.Equal(t, 27.0, enc.NodeRadius(&graph.Node{Score: 1}))
}

func TestCommands_Order(t *testing.T) {
	g, snap := fixture(t)
	cmds := Commands(DefaultEncoding(), Frame{Graph: g, Snapshot: snap, Viewport: dynamo.DefaultViewport()})

	require.Len(t, cmds, 2+3+3)
	want := []Op{OpEdge, OpEdge, OpNode, OpNode, OpNode, OpLabel, OpLabel, OpLabel}
	for i, c := range cmds {
		assert.Equal(t, want[i], c.Op, "command %d", i)
	}
	assert.Equal(t, "c", cmds[4].ID, "last inserted node is drawn last")
	assert.Equal(t, "c", cmds[7].Text, "label falls back to the id")
}

func TestCommands_EdgeEncoding(t *testing.T) {
	g, snap := fixture(t)
	edges := byOp(Commands(DefaultEncoding(), Frame{Graph: g, Snapshot: snap, Viewport: dynamo.DefaultViewport()}), OpEdge)

	assert.Equal(t, 5.0, edges[0].Width)
	assert.InDelta(t, 0.95, edges[0].Opacity, 1e-9)
	assert.Equal(t, 1.0, edges[1].Width)
	assert.InDelta(t, 0.25, edges[1].Opacity, 1e-9)
}

func TestCommands_Highlight(t *testing.T) {
	g, snap := fixture(t)
	enc := DefaultEncoding()
	h := Highlight{Selected: "b", HoveredEdge: "ab"}.FocusOn(g, "a")

	cmds := Commands(enc, Frame{Graph: g, Snapshot: snap, Highlight: h, Viewport: dynamo.DefaultViewport()})
	nodes := byOp(cmds, OpNode)
	edges := byOp(cmds, OpEdge)
	labels := byOp(cmds, OpLabel)

	assert.Equal(t, 1.0, nodes[0].Opacity)
	assert.Equal(t, 1.0, nodes[1].Opacity)
	assert.Equal(t, enc.DimNode, nodes[2].Opacity)
	assert.Equal(t, enc.SelectedStroke, nodes[1].Stroke)
	assert.Equal(t, enc.SelectedWidth, nodes[1].StrokeWidth)

	assert.Equal(t, enc.HoverColor, edges[0].Color)
	assert.Equal(t, enc.DimEdge, edges[1].Opacity)

	require.Len(t, labels, 4)
	assert.Equal(t, "works_at", labels[3].Text)
	assert.Equal(t, r2.Vec{X: 150, Y: 100}, labels[3].At)
}

func TestCommands_Zoom(t *testing.T) {
	g, snap := fixture(t)
	vp := dynamo.DefaultViewport()
	vp.Zoom = 2
	nodes := byOp(Commands(DefaultEncoding(), Frame{Graph: g, Snapshot: snap, Viewport: vp}), OpNode)

	assert.Equal(t, r2.Vec{X: -200, Y: -100}, nodes[0].At)
	assert.InDelta(t, 2*DefaultEncoding().NodeRadius(g.Nodes()[0]), nodes[0].Radius, 1e-9)
}

func TestCommands_Pure(t *testing.T) {
	g, snap := fixture(t)
	frame := Frame{Graph: g, Snapshot: snap, Viewport: dynamo.DefaultViewport()}
	assert.Equal(t, Commands(DefaultEncoding(), frame), Commands(DefaultEncoding(), frame))
	assert.Empty(t, Commands(DefaultEncoding(), Frame{}))
}

type recorder struct {
	cmds []Command
	err  error
}

func (r *recorder) Draw(cmds []Command, _ dynamo.Viewport) error {
	r.cmds = cmds
	return r.err
}

func TestAdapterAndRegistry(t *testing.T) {
	g, snap := fixture(t)
	rec := &recorder{}
	a := NewAdapter(DefaultEncoding(), rec)
	require.NoError(t, a.Draw(Frame{Graph: g, Snapshot: snap, Viewport: dynamo.DefaultViewport()}))
	assert.Len(t, rec.cmds, 8)

	rec.err = errors.New("closed")
	assert.Error(t, a.Draw(Frame{Graph: g, Snapshot: snap}))

	reg := NewRegistry()
	reg.Register("rec", func(io.Writer) Surface { return rec })
	reg.Register("alt", func(io.Writer) Surface { return &recorder{} })
	assert.Equal(t, []string{"alt", "rec"}, reg.List())

	s, err := reg.Get("rec", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Same(t, rec, s)

	_, err = reg.Get("pdf", nil)
	assert.ErrorIs(t, err, dynamo.ErrUnknownSurface)
}
