// Package metrics observes a running layout tick by tick.
package metrics

import (
	"github.com/san-kum/kgforce/internal/dynamo"
)

// Metric accumulates one number over the snapshots it is shown.
type Metric interface {
	dynamo.Observer
	Name() string
	Value() float64
	Reset()
}

// Defaults returns the metrics recorded for every layout run.
func Defaults(vp dynamo.Viewport, alphaMin float64) []Metric {
	return []Metric{
		NewEnergy(),
		NewDisplacement(),
		NewContainment(vp),
		NewSettle(alphaMin),
	}
}

// Summary collects the current value of each metric by name.
func Summary(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Observers converts ms for use with a scheduler.
func Observers(ms []Metric) []dynamo.Observer {
	out := make([]dynamo.Observer, len(ms))
	for i, m := range ms {
		out[i] = m
	}
	return out
}
