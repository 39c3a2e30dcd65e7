package physics

import (
	"math"

	"github.com/san-kum/kgforce/internal/dynamo"
	"github.com/san-kum/kgforce/internal/graph"
	"github.com/san-kum/kgforce/internal/integrators"
	"gonum.org/v1/gonum/spatial/r2"
)

// Integrator advances bodies by one step under the given forces.
type Integrator interface {
	Step(bodies []dynamo.Body, forces []r2.Vec, s integrators.Settings)
}

// RadiusFunc returns the visual radius of a node in layout units.
type RadiusFunc func(n *graph.Node) float64

// Option configures a Simulator.
type Option func(*Simulator)

func WithIntegrator(i Integrator) Option { return func(s *Simulator) { s.integ = i } }

func WithRadius(f RadiusFunc) Option { return func(s *Simulator) { s.radius = f } }

func WithJitter(j dynamo.Jitter) Option { return func(s *Simulator) { s.jitter = j } }

// WithInteractive keeps the simulator from reporting Settled. A cooled
// interactive simulator still skips force computation.
func WithInteractive(on bool) Option { return func(s *Simulator) { s.interactive = on } }

// WithCorrectionHook is called whenever a non-finite body is repaired.
func WithCorrectionHook(f func(*dynamo.SimError)) Option {
	return func(s *Simulator) { s.onCorrect = f }
}

// Stats summarises the simulator state.
type Stats struct {
	Tick       int
	Iterations int
	Alpha      float64
	Energy     float64
	Corrected  int
	Nodes      int
	Edges      int
}

// Simulator owns the positions and velocities of one graph view.
type Simulator struct {
	g      *graph.Graph
	vp     dynamo.Viewport
	p      Params
	integ  Integrator
	radius RadiusFunc
	jitter dynamo.Jitter

	ids    []string
	index  map[string]int
	bodies []dynamo.Body
	forces []r2.Vec
	radii  []float64
	prev   []r2.Vec

	alpha       float64
	alphaTarget float64
	alphaDecay  float64
	tick        int
	iter        int
	corrected   int
	interactive bool
	onCorrect   func(*dynamo.SimError)
}

// New builds a fresh simulator for g. Nodes start on a phyllotaxis spiral
// around the viewport center.
func New(g *graph.Graph, vp dynamo.Viewport, p Params, opts ...Option) *Simulator {
	s := &Simulator{
		vp:     vp,
		p:      p,
		integ:  integrators.NewSemiImplicitEuler(),
		radius: func(*graph.Node) float64 { return 0 },
		jitter: dynamo.NewJitter(1),
		alpha:  1,
	}
	s.alphaDecay = p.AlphaDecay()
	for _, opt := range opts {
		opt(s)
	}

	initial := make(map[string]dynamo.Body, g.Len())
	c := vp.Center()
	for i, n := range g.Nodes() {
		initial[n.ID] = dynamo.Body{Pos: vp.Clamp(r2.Add(c, Phyllotaxis(i, p.InitialRadius)))}
	}
	s.Adopt(g, initial)
	return s
}

// Phyllotaxis returns the offset of the i-th point of a sunflower spiral.
func Phyllotaxis(i int, radius float64) r2.Vec {
	r := radius * math.Sqrt(0.5+float64(i))
	angle := float64(i) * math.Pi * (3 - math.Sqrt(5))
	return r2.Vec{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
}

// Adopt replaces the graph and installs the given bodies. Nodes of g
// missing from bodies start near the center. Callers are expected to run
// this between ticks.
func (s *Simulator) Adopt(g *graph.Graph, bodies map[string]dynamo.Body) {
	nodes := g.Nodes()
	s.g = g
	s.ids = make([]string, len(nodes))
	s.index = make(map[string]int, len(nodes))
	s.bodies = make([]dynamo.Body, len(nodes))
	s.forces = make([]r2.Vec, len(nodes))
	s.radii = make([]float64, len(nodes))
	s.prev = make([]r2.Vec, len(nodes))

	c := s.vp.Center()
	for i, n := range nodes {
		s.ids[i] = n.ID
		s.index[n.ID] = i
		b, ok := bodies[n.ID]
		if !ok {
			b = dynamo.Body{Pos: s.vp.Clamp(r2.Add(c, s.jitter.Nudge(s.p.InitialRadius)))}
		}
		s.bodies[i] = b
		s.prev[i] = c
		if dynamo.Finite(b.Pos) {
			s.prev[i] = b.Pos
		}
		s.radii[i] = s.radius(n)
	}
}

// Step advances the layout by one tick.
func (s *Simulator) Step() {
	s.tick++
	if s.cooled() {
		s.decayAlpha()
		return
	}

	for i := range s.bodies {
		if !s.bodies[i].IsValid() {
			s.correct(i)
		}
		s.prev[i] = s.bodies[i].Pos
		s.forces[i] = r2.Vec{}
	}

	s.applyPairForces()
	s.applySprings()
	s.applyCentering()

	for i, f := range s.forces {
		if !dynamo.Finite(f) {
			s.forces[i] = r2.Vec{}
			s.correct(i)
		}
	}

	s.integ.Step(s.bodies, s.forces, integrators.Settings{
		Dt:       s.p.Dt,
		Damping:  s.p.Damping,
		MaxSpeed: s.p.MaxSpeed,
	})

	for i := range s.bodies {
		if !s.bodies[i].IsValid() {
			s.correct(i)
			continue
		}
		if !s.bodies[i].Pinned {
			s.bodies[i].Pos = s.vp.Clamp(s.bodies[i].Pos)
		}
	}

	s.iter++
	s.decayAlpha()
}

func (s *Simulator) cooled() bool {
	return s.alpha < s.p.AlphaMin && s.alphaTarget < s.p.AlphaMin
}

func (s *Simulator) decayAlpha() {
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay
}

// correct repairs a body whose state went non-finite: velocity is zeroed
// and the body is put back at its last finite position plus a nudge.
func (s *Simulator) correct(i int) {
	b := &s.bodies[i]
	anchor := s.prev[i]
	if !dynamo.Finite(anchor) {
		anchor = s.vp.Center()
	}
	if !b.Pinned || !dynamo.Finite(b.Pos) {
		b.Pos = s.vp.Clamp(r2.Add(anchor, s.jitter.Nudge(s.p.NudgeRadius)))
	}
	b.Vel = r2.Vec{}
	s.prev[i] = b.Pos
	s.corrected++
	if s.onCorrect != nil {
		s.onCorrect(&dynamo.SimError{Tick: s.tick, NodeID: s.ids[i], Wrapped: dynamo.ErrNonFinite})
	}
}

// Settled reports whether a non-interactive layout may stop ticking.
func (s *Simulator) Settled() bool {
	if s.interactive || s.alphaTarget >= s.p.AlphaMin {
		return false
	}
	return s.cooled() || s.iter >= s.p.MaxIterations
}

// Alpha returns the current temperature of the layout.
func (s *Simulator) Alpha() float64 { return s.alpha }

// Reheat raises alpha to at least a and restarts the iteration budget.
func (s *Simulator) Reheat(a float64) {
	if a > s.alpha {
		s.alpha = a
	}
	s.iter = 0
}

// SetAlphaTarget sets the value alpha decays toward. Drags hold it above
// zero so the layout keeps reacting while the pointer moves.
func (s *Simulator) SetAlphaTarget(a float64) {
	s.alphaTarget = a
	if a > 0 {
		s.Reheat(a)
	}
}

// Params returns the constants this simulator runs with.
func (s *Simulator) Params() Params { return s.p }

// Graph returns the graph the bodies belong to.
func (s *Simulator) Graph() *graph.Graph { return s.g }

// Viewport returns the current bounds.
func (s *Simulator) Viewport() dynamo.Viewport { return s.vp }

// Resize changes the bounds, pulls every body inside and reheats.
func (s *Simulator) Resize(vp dynamo.Viewport) {
	s.vp = vp
	for i := range s.bodies {
		s.bodies[i].Pos = vp.Clamp(s.bodies[i].Pos)
	}
	s.Reheat(s.p.ReheatAlpha)
}

// Body returns the state of id.
func (s *Simulator) Body(id string) (dynamo.Body, bool) {
	i, ok := s.index[id]
	if !ok {
		return dynamo.Body{}, false
	}
	return s.bodies[i], true
}

// Bodies returns a copy of every body keyed by id.
func (s *Simulator) Bodies() map[string]dynamo.Body {
	out := make(map[string]dynamo.Body, len(s.bodies))
	for i, id := range s.ids {
		out[id] = s.bodies[i]
	}
	return out
}

// Snapshot returns a consistent copy of the post-tick state.
func (s *Simulator) Snapshot() dynamo.Snapshot {
	return dynamo.Snapshot{
		Tick:   s.tick,
		Alpha:  s.alpha,
		Energy: s.Energy(),
		Bodies: s.Bodies(),
	}
}

// Pin fixes id at p (clamped into the viewport) until Unpin.
func (s *Simulator) Pin(id string, p r2.Vec) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	b := &s.bodies[i]
	b.Pinned = true
	b.Vel = r2.Vec{}
	if dynamo.Finite(p) {
		b.Pos = s.vp.Clamp(p)
	}
	return true
}

// MovePinned relocates a pinned body. Free bodies are left alone.
func (s *Simulator) MovePinned(id string, p r2.Vec) bool {
	i, ok := s.index[id]
	if !ok || !s.bodies[i].Pinned || !dynamo.Finite(p) {
		return false
	}
	s.bodies[i].Pos = s.vp.Clamp(p)
	s.bodies[i].Vel = r2.Vec{}
	return true
}

// Unpin releases id back to the forces.
func (s *Simulator) Unpin(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.bodies[i].Pinned = false
	return true
}

// Energy returns the kinetic energy of all free bodies.
func (s *Simulator) Energy() float64 {
	e := 0.0
	for _, b := range s.bodies {
		if b.Pinned {
			continue
		}
		e += 0.5 * r2.Norm2(b.Vel)
	}
	return e
}

func (s *Simulator) Stats() Stats {
	return Stats{
		Tick:       s.tick,
		Iterations: s.iter,
		Alpha:      s.alpha,
		Energy:     s.Energy(),
		Corrected:  s.corrected,
		Nodes:      len(s.bodies),
		Edges:      len(s.g.Edges()),
	}
}
