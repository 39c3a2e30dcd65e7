package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// applyPairForces adds repulsion and collision for every node pair.
// O(n²); fine for the few hundred nodes a knowledge-graph view shows.
func (s *Simulator) applyPairForces() {
	eps2 := s.p.Epsilon * s.p.Epsilon
	n := len(s.bodies)
	for i := 0; i < n; i++ {
		pi := s.bodies[i].Pos
		for j := i + 1; j < n; j++ {
			d := r2.Sub(s.bodies[j].Pos, pi)
			d2 := r2.Norm2(d)
			if d2 == 0 {
				d = s.separation(i, j)
				d2 = r2.Norm2(d)
			}
			dist := math.Sqrt(d2)
			unit := r2.Scale(1/dist, d)

			f := r2.Scale(s.p.RepulsionStrength/(d2+eps2), unit)

			if reach := s.radii[i] + s.radii[j] + s.p.CollisionPadding; dist < reach {
				push := s.p.CollisionStrength * (reach - dist) / 2
				f = r2.Add(f, r2.Scale(push, unit))
			}

			s.forces[i] = r2.Sub(s.forces[i], f)
			s.forces[j] = r2.Add(s.forces[j], f)
		}
	}
}

// separation picks a direction for two coincident bodies.
func (s *Simulator) separation(i, j int) r2.Vec {
	d := s.jitter.Nudge(s.p.Epsilon)
	if r2.Norm2(d) > 0 {
		return d
	}
	angle := float64(i+j) * math.Pi * (3 - math.Sqrt(5))
	return r2.Vec{X: s.p.Epsilon * math.Cos(angle), Y: s.p.Epsilon * math.Sin(angle)}
}

// applySprings pulls the endpoints of every edge toward its rest length.
func (s *Simulator) applySprings() {
	for _, e := range s.g.Edges() {
		si, ti := s.index[e.Source], s.index[e.Target]
		if si == ti {
			continue
		}
		d := r2.Sub(s.bodies[ti].Pos, s.bodies[si].Pos)
		dist := r2.Norm(d)
		if dist == 0 {
			continue
		}
		stretch := dist - s.p.RestLengthFor(e.Weight)
		f := r2.Scale(s.p.SpringStrength*stretch/dist, d)
		s.forces[si] = r2.Add(s.forces[si], f)
		s.forces[ti] = r2.Sub(s.forces[ti], f)
	}
}

// applyCentering moves the centroid toward the viewport center and adds a
// weak per-node gravity.
func (s *Simulator) applyCentering() {
	if len(s.bodies) == 0 {
		return
	}
	var sum r2.Vec
	for _, b := range s.bodies {
		sum = r2.Add(sum, b.Pos)
	}
	c := s.vp.Center()
	centroid := r2.Scale(1/float64(len(s.bodies)), sum)
	shift := r2.Scale(s.p.CenterStrength, r2.Sub(c, centroid))

	for i, b := range s.bodies {
		if b.Pinned {
			continue
		}
		pull := r2.Scale(s.p.Gravity, r2.Sub(c, b.Pos))
		s.forces[i] = r2.Add(s.forces[i], r2.Add(shift, pull))
	}
}
