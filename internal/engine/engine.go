// Package engine mounts one graph view: a simulator driven by a scheduler,
// an interaction controller and an optional render surface.
//
// All layout state is touched on the tick goroutine. Load, Update, Resize
// and the pointer methods may be called from anywhere; they queue work for
// the next tick.
package engine

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/san-kum/kgforce/internal/dynamo"
	"github.com/san-kum/kgforce/internal/graph"
	"github.com/san-kum/kgforce/internal/interact"
	"github.com/san-kum/kgforce/internal/physics"
	"github.com/san-kum/kgforce/internal/reconcile"
	"github.com/san-kum/kgforce/internal/render"
	"github.com/san-kum/kgforce/internal/sched"
)

type Option func(*Engine)

func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.logger = l } }

func WithParams(p physics.Params) Option { return func(e *Engine) { e.params = p } }

func WithViewport(vp dynamo.Viewport) Option { return func(e *Engine) { e.vp = vp } }

func WithSeed(seed uint64) Option { return func(e *Engine) { e.seed = seed } }

func WithEncoding(enc render.Encoding) Option { return func(e *Engine) { e.enc = enc } }

// WithSurface draws every tick onto s.
func WithSurface(s render.Surface) Option { return func(e *Engine) { e.surface = s } }

// WithHost sets the frame source. Defaults to a ManualHost.
func WithHost(h sched.Host) Option { return func(e *Engine) { e.host = h } }

func WithCallbacks(cb interact.Callbacks) Option { return func(e *Engine) { e.callbacks = cb } }

// WithOnWarnings is called with the warnings of every Load and Update.
func WithOnWarnings(f func([]graph.Warning)) Option { return func(e *Engine) { e.onWarnings = f } }

func WithEdgeKinds(kinds ...string) Option { return func(e *Engine) { e.edgeKinds = kinds } }

func WithInteractive(on bool) Option { return func(e *Engine) { e.interactive = on } }

func WithObserver(o ...dynamo.Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o...) }
}

func WithReconcileRadii(spawn, center float64) Option {
	return func(e *Engine) { e.spawnRadius, e.centerRadius = spawn, center }
}

func WithThresholds(drag, edge float64) Option {
	return func(e *Engine) { e.dragThreshold, e.edgeTolerance = drag, edge }
}

type Engine struct {
	logger        *log.Logger
	params        physics.Params
	vp            dynamo.Viewport
	seed          uint64
	enc           render.Encoding
	surface       render.Surface
	host          sched.Host
	callbacks     interact.Callbacks
	onWarnings    func([]graph.Warning)
	edgeKinds     []string
	interactive   bool
	observers     []dynamo.Observer
	spawnRadius   float64
	centerRadius  float64
	dragThreshold float64
	edgeTolerance float64

	jitter  dynamo.Jitter
	adapter *render.Adapter
	ctrl    *interact.Controller
	rec     *reconcile.Reconciler
	sched   *sched.Scheduler

	// owned by the tick goroutine
	sim *physics.Simulator

	mu    sync.Mutex
	frame render.Frame
	stats physics.Stats
}

func New(ctx context.Context, opts ...Option) *Engine {
	e := &Engine{
		logger:        log.New(io.Discard),
		params:        physics.DefaultParams(),
		vp:            dynamo.DefaultViewport(),
		seed:          1,
		enc:           render.DefaultEncoding(),
		spawnRadius:   reconcile.DefaultSpawnRadius,
		centerRadius:  reconcile.DefaultCenterRadius,
		dragThreshold: interact.DefaultDragThreshold,
		edgeTolerance: interact.DefaultEdgeTolerance,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.host == nil {
		e.host = sched.NewManualHost()
	}

	e.jitter = dynamo.NewJitter(e.seed)
	if e.surface != nil {
		e.adapter = render.NewAdapter(e.enc, e.surface)
	}
	e.rec = reconcile.New(e.jitter, e.params.ReheatAlpha)
	e.rec.SpawnRadius, e.rec.CenterRadius = e.spawnRadius, e.centerRadius

	e.ctrl = interact.New(
		interact.WithCallbacks(e.callbacks),
		interact.WithRadius(e.enc.NodeRadius),
		interact.WithThresholds(e.dragThreshold, e.edgeTolerance),
		interact.WithDragAlpha(e.params.DragAlphaTarget),
		interact.WithWake(e.wake),
	)

	observers := append([]dynamo.Observer{e.ctrl}, e.observers...)
	e.sched = sched.New(ctx, e.host, stepper{e}, sched.RenderFunc(e.render),
		sched.WithObserver(observers...),
		sched.WithLogger(e.logger),
	)
	return e
}

func (e *Engine) wake() { e.sched.Enqueue(func() {}) }

func (e *Engine) loadOptions() []graph.LoadOption {
	if len(e.edgeKinds) == 0 {
		return nil
	}
	return []graph.LoadOption{graph.WithEdgeKinds(e.edgeKinds...)}
}

func (e *Engine) report(op string, g *graph.Graph, warnings []graph.Warning) {
	for _, w := range warnings {
		e.logger.Warn("graph input", "op", op, "kind", w.Kind, "id", w.ID, "ref", w.Ref)
	}
	e.logger.Debug("graph loaded", "op", op, "nodes", g.Len(), "edges", len(g.Edges()), "warnings", len(warnings))
	if e.onWarnings != nil && len(warnings) > 0 {
		e.onWarnings(warnings)
	}
}

// Load replaces the view with a fresh layout of the given graph.
func (e *Engine) Load(nodes []graph.NodeInput, edges []graph.EdgeInput) []graph.Warning {
	g, warnings := graph.Load(nodes, edges, e.loadOptions()...)
	e.report("load", g, warnings)
	e.sched.Enqueue(func() { e.install(g) })
	return warnings
}

// LoadInput is Load for a decoded graph document.
func (e *Engine) LoadInput(in graph.Input) []graph.Warning {
	return e.Load(in.Nodes, append(append([]graph.EdgeInput(nil), in.Edges...), in.Links...))
}

// Update merges a refreshed graph into the running layout. Nodes that
// survive keep their position, velocity and pin.
func (e *Engine) Update(nodes []graph.NodeInput, edges []graph.EdgeInput) []graph.Warning {
	g, warnings := graph.Load(nodes, edges, e.loadOptions()...)
	e.report("update", g, warnings)
	e.sched.Enqueue(func() {
		if e.sim == nil {
			e.install(g)
			return
		}
		res := e.rec.Apply(e.sim, g)
		e.logger.Info("graph reconciled", "added", len(res.Added), "removed", len(res.Removed), "kept", len(res.Kept))
	})
	return warnings
}

func (e *Engine) UpdateInput(in graph.Input) []graph.Warning {
	return e.Update(in.Nodes, append(append([]graph.EdgeInput(nil), in.Edges...), in.Links...))
}

func (e *Engine) install(g *graph.Graph) {
	e.sim = physics.New(g, e.vp, e.params,
		physics.WithRadius(e.enc.NodeRadius),
		physics.WithJitter(e.jitter),
		physics.WithInteractive(e.interactive),
		physics.WithCorrectionHook(func(err *dynamo.SimError) {
			e.logger.Warn("non-finite body repaired", "err", err)
		}),
	)
	e.ctrl.Reset()
}

// Relayout discards all positions and lays the current graph out again.
func (e *Engine) Relayout() {
	e.sched.Enqueue(func() {
		if e.sim != nil {
			e.install(e.sim.Graph())
		}
	})
}

// Resize changes the viewport on the next tick.
func (e *Engine) Resize(vp dynamo.Viewport) {
	e.sched.Resize(vp)
}

// Zoom multiplies the current zoom factor.
func (e *Engine) Zoom(factor float64) {
	e.sched.Enqueue(func() {
		vp := e.vp
		vp.Zoom *= factor
		if !(vp.Zoom > 0) {
			return
		}
		e.vp = vp
		if e.sim != nil {
			e.sim.Resize(vp)
		}
	})
}

func (e *Engine) Start()  { e.sched.Start() }
func (e *Engine) Stop()   { e.sched.Stop() }
func (e *Engine) Detach() { e.sched.Detach() }

// Run ticks synchronously until the layout settles or maxTicks is reached.
func (e *Engine) Run(ctx context.Context, maxTicks int) (int, error) {
	return e.sched.Run(ctx, maxTicks)
}

func (e *Engine) Scheduler() *sched.Scheduler { return e.sched }

func (e *Engine) Encoding() render.Encoding { return e.enc }

func (e *Engine) PointerDown(x, y float64) { e.ctrl.PointerDown(x, y) }
func (e *Engine) PointerMove(x, y float64) { e.ctrl.PointerMove(x, y) }
func (e *Engine) PointerUp(x, y float64)   { e.ctrl.PointerUp(x, y) }
func (e *Engine) PointerLeave()            { e.ctrl.PointerLeave() }
func (e *Engine) Search(text string)       { e.ctrl.Search(text) }

// Frame returns what was drawn on the last tick.
func (e *Engine) Frame() render.Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frame
}

func (e *Engine) Stats() physics.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Snapshot returns the state after the last tick.
func (e *Engine) Snapshot() dynamo.Snapshot {
	return e.Frame().Snapshot
}

// stepper adapts the engine to sched.Stepper. Its methods run on the tick
// goroutine.
type stepper struct{ e *Engine }

func (s stepper) Step() {
	if s.e.sim == nil {
		return
	}
	s.e.ctrl.Apply(s.e.sim)
	s.e.sim.Step()
}

func (s stepper) Settled() bool {
	return s.e.sim == nil || s.e.sim.Settled()
}

func (s stepper) Snapshot() dynamo.Snapshot {
	if s.e.sim == nil {
		return dynamo.Snapshot{Bodies: map[string]dynamo.Body{}}
	}
	return s.e.sim.Snapshot()
}

func (s stepper) Resize(vp dynamo.Viewport) {
	e := s.e
	if err := vp.Validate(); err != nil {
		e.logger.Warn("resize ignored", "err", err)
		return
	}
	e.vp = vp
	if e.sim != nil {
		e.sim.Resize(vp)
	}
}

func (e *Engine) render(snap dynamo.Snapshot) error {
	if e.sim == nil {
		return nil
	}
	f := render.Frame{
		Graph:     e.sim.Graph(),
		Snapshot:  snap,
		Highlight: e.ctrl.Highlight(),
		Viewport:  e.sim.Viewport(),
	}
	e.mu.Lock()
	e.frame = f
	e.stats = e.sim.Stats()
	e.mu.Unlock()

	if e.adapter == nil {
		return nil
	}
	return e.adapter.Draw(f)
}
