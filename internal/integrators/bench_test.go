package integrators

import (
	"testing"

	"github.com/san-kum/kgforce/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

func benchBodies(n int) ([]dynamo.Body, []r2.Vec) {
	bodies := make([]dynamo.Body, n)
	forces := make([]r2.Vec, n)
	for i := range bodies {
		bodies[i].Pos = r2.Vec{X: float64(i), Y: float64(-i)}
		forces[i] = r2.Vec{X: 1, Y: 0.5}
	}
	return bodies, forces
}

func BenchmarkSemiImplicitEuler(b *testing.B) {
	integrator := NewSemiImplicitEuler()
	bodies, forces := benchBodies(1000)
	s := Settings{Dt: 1, Damping: 0.6, MaxSpeed: 40}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integrator.Step(bodies, forces, s)
	}
}
