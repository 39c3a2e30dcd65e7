package metrics

import (
	"math"

	"github.com/san-kum/kgforce/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Energy records the kinetic energy of every tick. Value is the last one.
type Energy struct {
	name  string
	trace []float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) OnTick(s dynamo.Snapshot) {
	e.trace = append(e.trace, s.Energy)
}

func (e *Energy) Value() float64 {
	if len(e.trace) == 0 {
		return 0
	}
	return e.trace[len(e.trace)-1]
}

// Trace returns the per-tick energy history.
func (e *Energy) Trace() []float64 {
	return append([]float64(nil), e.trace...)
}

func (e *Energy) Reset() { e.trace = nil }

// Displacement tracks the largest single-tick move of any node.
type Displacement struct {
	name string
	last map[string]r2.Vec
	max  float64
}

func NewDisplacement() *Displacement {
	return &Displacement{name: "max_displacement"}
}

func (d *Displacement) Name() string { return d.name }

func (d *Displacement) OnTick(s dynamo.Snapshot) {
	next := make(map[string]r2.Vec, len(s.Bodies))
	for id, b := range s.Bodies {
		if p, ok := d.last[id]; ok {
			d.max = math.Max(d.max, r2.Norm(r2.Sub(b.Pos, p)))
		}
		next[id] = b.Pos
	}
	d.last = next
}

func (d *Displacement) Value() float64 { return d.max }

func (d *Displacement) Reset() {
	d.last = nil
	d.max = 0
}
