package render

import (
	"github.com/san-kum/kgforce/internal/dynamo"
	"github.com/san-kum/kgforce/internal/graph"
	"gonum.org/v1/gonum/spatial/r2"
)

type Op int

const (
	OpEdge Op = iota
	OpNode
	OpLabel
)

func (o Op) String() string {
	switch o {
	case OpEdge:
		return "edge"
	case OpNode:
		return "node"
	case OpLabel:
		return "label"
	}
	return "unknown"
}

// Command is one primitive in screen coordinates. Which fields are
// meaningful depends on Op:
//
//	OpEdge:  From, To, Color, Width, Opacity
//	OpNode:  At, Radius, Color, Stroke, StrokeWidth, Opacity
//	OpLabel: At, Text, Color, Stroke, StrokeWidth, FontSize, Opacity
type Command struct {
	Op          Op
	ID          string
	Kind        string
	From, To    r2.Vec
	At          r2.Vec
	Radius      float64
	Color       string
	Stroke      string
	StrokeWidth float64
	Width       float64
	Opacity     float64
	Text        string
	FontSize    float64
}

// Frame is everything one draw depends on.
type Frame struct {
	Graph     *graph.Graph
	Snapshot  dynamo.Snapshot
	Highlight Highlight
	Viewport  dynamo.Viewport
}

// Commands lists the draw commands for f: edges first, then nodes in
// insertion order, then labels, so later commands paint on top.
func Commands(enc Encoding, f Frame) []Command {
	if f.Graph.Empty() {
		return nil
	}
	vp := f.Viewport
	h := f.Highlight
	cmds := make([]Command, 0, len(f.Graph.Edges())+2*f.Graph.Len()+1)

	var hovered *graph.Edge
	for _, e := range f.Graph.Edges() {
		from, ok1 := f.Snapshot.Position(e.Source)
		to, ok2 := f.Snapshot.Position(e.Target)
		if !ok1 || !ok2 {
			continue
		}
		c := Command{
			Op:      OpEdge,
			ID:      e.ID,
			Kind:    e.Kind,
			From:    vp.ToScreen(from),
			To:      vp.ToScreen(to),
			Color:   enc.EdgeColor,
			Width:   vp.Scale(enc.EdgeWidth.At(e.Weight)),
			Opacity: enc.EdgeAlpha.At(e.Weight),
		}
		switch {
		case e.ID == h.HoveredEdge:
			c.Color = enc.HoverColor
			hovered = e
		case h.EdgeDimmed(e.ID):
			c.Opacity = enc.DimEdge
		}
		cmds = append(cmds, c)
	}

	labels := make([]Command, 0, f.Graph.Len()+1)
	for _, n := range f.Graph.Nodes() {
		p, ok := f.Snapshot.Position(n.ID)
		if !ok {
			continue
		}
		at := vp.ToScreen(p)
		r := vp.Scale(enc.NodeRadius(n))
		opacity := 1.0
		if h.NodeDimmed(n.ID) {
			opacity = enc.DimNode
		}

		c := Command{
			Op:          OpNode,
			ID:          n.ID,
			Kind:        n.Kind,
			At:          at,
			Radius:      r,
			Color:       enc.Color(n.Kind),
			Stroke:      enc.NodeStroke,
			StrokeWidth: enc.NodeStrokeWidth,
			Opacity:     opacity,
		}
		switch {
		case n.ID == h.Selected:
			c.Stroke, c.StrokeWidth = enc.SelectedStroke, enc.SelectedWidth
		case h.Matches[n.ID]:
			c.Stroke, c.StrokeWidth = enc.MatchStroke, enc.MatchWidth
		}
		cmds = append(cmds, c)

		labels = append(labels, Command{
			Op:          OpLabel,
			ID:          n.ID,
			At:          r2.Vec{X: at.X, Y: at.Y + r + enc.LabelGap + enc.FontSize},
			Text:        n.DisplayLabel(),
			Color:       enc.LabelFill,
			Stroke:      enc.LabelOutline,
			StrokeWidth: enc.OutlineWidth,
			FontSize:    enc.FontSize,
			Opacity:     opacity,
		})
	}

	if hovered != nil {
		from, _ := f.Snapshot.Position(hovered.Source)
		to, _ := f.Snapshot.Position(hovered.Target)
		mid := vp.ToScreen(r2.Scale(0.5, r2.Add(from, to)))
		labels = append(labels, Command{
			Op:          OpLabel,
			ID:          hovered.ID,
			Kind:        hovered.Kind,
			At:          mid,
			Text:        hovered.Kind,
			Color:       enc.HoverColor,
			Stroke:      enc.LabelOutline,
			StrokeWidth: enc.OutlineWidth,
			FontSize:    enc.FontSize,
			Opacity:     1,
		})
	}
	return append(cmds, labels...)
}
