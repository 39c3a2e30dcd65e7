package dynamo

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"
)

// Jitter produces small random offsets. Tests inject a seeded source so
// runs are reproducible.
type Jitter interface {
	// Nudge returns a point uniformly distributed in the disc of the given radius.
	Nudge(radius float64) r2.Vec
}

// SeededJitter is a deterministic Jitter backed by a PCG generator.
type SeededJitter struct {
	rng *rand.Rand
}

func NewJitter(seed uint64) *SeededJitter {
	return &SeededJitter{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (j *SeededJitter) Nudge(radius float64) r2.Vec {
	if radius <= 0 {
		return r2.Vec{}
	}
	angle := 2 * math.Pi * j.rng.Float64()
	r := radius * math.Sqrt(j.rng.Float64())
	return r2.Vec{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
}

// NoJitter always returns the zero offset.
type NoJitter struct{}

func (NoJitter) Nudge(float64) r2.Vec { return r2.Vec{} }
