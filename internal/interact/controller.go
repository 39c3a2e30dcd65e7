// Package interact turns pointer input into layout changes and callbacks.
//
// Input may arrive on any goroutine; it is queued and only takes effect
// when [Controller.Apply] runs at the start of a tick. Hit-testing uses the
// snapshot of the last completed tick.
package interact

import (
	"math"
	"strings"
	"sync"

	"github.com/san-kum/kgforce/internal/dynamo"
	"github.com/san-kum/kgforce/internal/graph"
	"github.com/san-kum/kgforce/internal/render"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultDragThreshold = 3.0
	DefaultEdgeTolerance = 6.0
	DefaultDragAlpha     = 0.3
)

// Layout is the part of the simulator the controller drives.
type Layout interface {
	Graph() *graph.Graph
	Viewport() dynamo.Viewport
	Pin(id string, p r2.Vec) bool
	MovePinned(id string, p r2.Vec) bool
	Unpin(id string) bool
	SetAlphaTarget(a float64)
}

type Option func(*Controller)

func WithCallbacks(cb Callbacks) Option { return func(c *Controller) { c.cb = cb } }

// WithRadius sets the hit radius of a node in layout units.
func WithRadius(f func(*graph.Node) float64) Option {
	return func(c *Controller) { c.radius = f }
}

// WithWake registers a function called after every queued event, used to
// restart an idle scheduler.
func WithWake(f func()) Option { return func(c *Controller) { c.wake = f } }

func WithThresholds(drag, edge float64) Option {
	return func(c *Controller) { c.dragThreshold, c.edgeTolerance = drag, edge }
}

func WithDragAlpha(a float64) Option { return func(c *Controller) { c.dragAlpha = a } }

type press struct {
	active   bool
	id       string
	start    r2.Vec
	dragging bool
}

type Controller struct {
	cb            Callbacks
	radius        func(*graph.Node) float64
	wake          func()
	dragThreshold float64
	edgeTolerance float64
	dragAlpha     float64

	mu     sync.Mutex
	events []Event

	snap      dynamo.Snapshot
	press     press
	pointer   r2.Vec
	highlight render.Highlight
}

func New(opts ...Option) *Controller {
	enc := render.DefaultEncoding()
	c := &Controller{
		radius:        enc.NodeRadius,
		dragThreshold: DefaultDragThreshold,
		edgeTolerance: DefaultEdgeTolerance,
		dragAlpha:     DefaultDragAlpha,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) push(e Event) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
	if c.wake != nil {
		c.wake()
	}
}

func (c *Controller) PointerDown(x, y float64) { c.push(Event{Kind: PointerDown, At: r2.Vec{X: x, Y: y}}) }
func (c *Controller) PointerMove(x, y float64) { c.push(Event{Kind: PointerMove, At: r2.Vec{X: x, Y: y}}) }
func (c *Controller) PointerUp(x, y float64)   { c.push(Event{Kind: PointerUp, At: r2.Vec{X: x, Y: y}}) }
func (c *Controller) PointerLeave()            { c.push(Event{Kind: PointerLeave}) }
func (c *Controller) Search(text string)       { c.push(Event{Kind: Search, Text: text}) }

// OnTick records the snapshot used for hit-testing.
func (c *Controller) OnTick(s dynamo.Snapshot) { c.snap = s }

// Highlight returns the state the next frame should be drawn with.
func (c *Controller) Highlight() render.Highlight { return c.highlight }

// Dragging returns the id of the node being dragged, if any.
func (c *Controller) Dragging() string {
	if c.press.active && c.press.dragging {
		return c.press.id
	}
	return ""
}

// Reset forgets hover, selection and drag state, e.g. after a fresh load.
// A selected node or inspected edge is reported as cleared. It must run on
// the tick goroutine.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.events = nil
	c.mu.Unlock()
	prev := c.highlight
	c.press = press{}
	c.highlight = render.Highlight{}
	c.snap = dynamo.Snapshot{}

	if prev.Selected != "" {
		c.selectionChanged(prev.Selected, false)
	}
	if prev.HoveredEdge != "" && c.cb.OnEdgeInspect != nil {
		c.cb.OnEdgeInspect(nil)
	}
}

// Apply processes every queued event against l. It must run on the tick
// goroutine, before the layout steps.
func (c *Controller) Apply(l Layout) {
	c.mu.Lock()
	events := c.events
	c.events = nil
	c.mu.Unlock()

	c.prune(l)
	for _, e := range events {
		switch e.Kind {
		case PointerDown:
			c.down(l, e.At)
		case PointerMove:
			c.move(l, e.At)
		case PointerUp:
			c.up(l)
		case PointerLeave:
			c.leave(l)
		case Search:
			c.search(l.Graph(), e.Text)
		}
	}

	if c.press.active && c.press.id != "" {
		l.MovePinned(c.press.id, c.layoutPoint(l, c.pointer))
		l.SetAlphaTarget(c.dragAlpha)
	}
}

// prune drops references to nodes and edges that are no longer in the
// layout's graph. A drag whose node was removed ends and releases the
// alpha target it held.
func (c *Controller) prune(l Layout) {
	g := l.Graph()
	h := &c.highlight
	if h.Selected != "" && !g.Has(h.Selected) {
		prev := h.Selected
		h.Selected = ""
		c.selectionChanged(prev, false)
	}
	if h.Focus != "" {
		*h = h.FocusOn(g, h.Focus)
	}
	if h.HoveredEdge != "" {
		if _, ok := g.Edge(h.HoveredEdge); !ok {
			c.inspect(g, "")
		}
	}
	if c.press.id != "" && !g.Has(c.press.id) {
		c.press = press{}
		l.SetAlphaTarget(0)
	}
}

func (c *Controller) layoutPoint(l Layout, screen r2.Vec) r2.Vec {
	vp := l.Viewport()
	return vp.Clamp(vp.ToLayout(screen))
}

func (c *Controller) down(l Layout, at r2.Vec) {
	if !dynamo.Finite(at) {
		return
	}
	id := c.HitNode(l, at)
	c.press = press{active: true, id: id, start: at}
	c.pointer = at
	if id != "" {
		l.Pin(id, c.layoutPoint(l, at))
		l.SetAlphaTarget(c.dragAlpha)
	}
}

func (c *Controller) move(l Layout, at r2.Vec) {
	if !dynamo.Finite(at) {
		return
	}
	c.pointer = at
	if c.press.active {
		if r2.Norm(r2.Sub(at, c.press.start)) > c.dragThreshold {
			c.press.dragging = true
		}
		return
	}
	c.hover(l, at)
}

func (c *Controller) up(l Layout) {
	p := c.press
	c.press = press{}
	if !p.active {
		return
	}
	if p.id != "" {
		l.Unpin(p.id)
		l.SetAlphaTarget(0)
	}
	if !p.dragging {
		c.click(p.id)
	}
}

func (c *Controller) leave(l Layout) {
	if c.press.active && c.press.id != "" {
		l.Unpin(c.press.id)
		l.SetAlphaTarget(0)
	}
	c.press = press{}
	c.highlight.Focus, c.highlight.Nodes, c.highlight.Edges = "", nil, nil
	c.inspect(l.Graph(), "")
}

func (c *Controller) hover(l Layout, at r2.Vec) {
	g := l.Graph()
	id := c.HitNode(l, at)
	c.highlight = c.highlight.FocusOn(g, id)
	if id != "" {
		c.inspect(g, "")
		return
	}
	c.inspect(g, c.HitEdge(l, at))
}

// inspect sets the hovered edge and reports it when it changed.
func (c *Controller) inspect(g *graph.Graph, id string) {
	if id == c.highlight.HoveredEdge {
		return
	}
	c.highlight.HoveredEdge = id
	if c.cb.OnEdgeInspect == nil {
		return
	}
	if id == "" {
		c.cb.OnEdgeInspect(nil)
		return
	}
	e, _ := g.Edge(id)
	c.cb.OnEdgeInspect(e)
}

func (c *Controller) click(id string) {
	prev := c.highlight.Selected
	if id == "" {
		if prev != "" {
			c.highlight.Selected = ""
			c.selectionChanged(prev, false)
		}
		return
	}

	if c.cb.OnNodeClick != nil {
		c.cb.OnNodeClick(id)
	}
	if c.cb.OnNodeExpandRequest != nil {
		c.cb.OnNodeExpandRequest(id)
	}

	if prev == id {
		c.highlight.Selected = ""
		c.selectionChanged(id, false)
		return
	}
	c.highlight.Selected = id
	c.selectionChanged(id, true)
}

func (c *Controller) selectionChanged(id string, selected bool) {
	if c.cb.OnSelectionChange != nil {
		c.cb.OnSelectionChange(id, selected)
	}
}

func (c *Controller) search(g *graph.Graph, text string) {
	c.highlight.Matches = nil
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return
	}
	for _, n := range g.Nodes() {
		if strings.Contains(strings.ToLower(n.DisplayLabel()), needle) {
			c.highlight.Matches = map[string]bool{n.ID: true}
			return
		}
	}
}

// HitNode returns the topmost node under the screen point, or "".
func (c *Controller) HitNode(l Layout, at r2.Vec) string {
	if !dynamo.Finite(at) {
		return ""
	}
	g := l.Graph()
	p := l.Viewport().ToLayout(at)
	nodes := g.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		pos, ok := c.snap.Position(n.ID)
		if !ok {
			continue
		}
		if r2.Norm(r2.Sub(p, pos)) <= c.radius(n) {
			return n.ID
		}
	}
	return ""
}

// HitEdge returns the edge nearest to the screen point within the edge
// tolerance, or "".
func (c *Controller) HitEdge(l Layout, at r2.Vec) string {
	if !dynamo.Finite(at) {
		return ""
	}
	vp := l.Viewport()
	p := vp.ToLayout(at)
	best, bestDist := "", c.edgeTolerance/vp.Scale(1)
	for _, e := range l.Graph().Edges() {
		a, ok1 := c.snap.Position(e.Source)
		b, ok2 := c.snap.Position(e.Target)
		if !ok1 || !ok2 {
			continue
		}
		if d := segmentDistance(p, a, b); d <= bestDist {
			best, bestDist = e.ID, d
		}
	}
	return best
}

func segmentDistance(p, a, b r2.Vec) float64 {
	ab := r2.Sub(b, a)
	l2 := r2.Norm2(ab)
	if l2 == 0 {
		return r2.Norm(r2.Sub(p, a))
	}
	t := r2.Dot(r2.Sub(p, a), ab) / l2
	t = math.Max(0, math.Min(1, t))
	return r2.Norm(r2.Sub(p, r2.Add(a, r2.Scale(t, ab))))
}
