package integrators

import (
	"math"

	"github.com/san-kum/kgforce/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Settings are the per-step integration constants.
type Settings struct {
	Dt       float64
	Damping  float64
	MaxSpeed float64
}

// SemiImplicitEuler updates velocity from force first and then position
// from the new velocity. Velocity is damped every step, which bounds the
// energy a layout can accumulate.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

// Step advances every unpinned body in place. forces[i] acts on bodies[i].
func (e *SemiImplicitEuler) Step(bodies []dynamo.Body, forces []r2.Vec, s Settings) {
	for i := range bodies {
		b := &bodies[i]
		if b.Pinned {
			b.Vel = r2.Vec{}
			continue
		}
		b.Vel = r2.Scale(s.Damping, r2.Add(b.Vel, r2.Scale(s.Dt, forces[i])))
		if s.MaxSpeed > 0 {
			if speed := r2.Norm(b.Vel); speed > s.MaxSpeed && !math.IsInf(speed, 0) {
				b.Vel = r2.Scale(s.MaxSpeed/speed, b.Vel)
			}
		}
		b.Pos = r2.Add(b.Pos, r2.Scale(s.Dt, b.Vel))
	}
}
