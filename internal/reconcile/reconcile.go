// Package reconcile merges a refreshed graph into a running layout
// without moving the nodes that survived the refresh.
package reconcile

import (
	"github.com/san-kum/kgforce/internal/dynamo"
	"github.com/san-kum/kgforce/internal/graph"
	"github.com/san-kum/kgforce/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultSpawnRadius  = 12.0
	DefaultCenterRadius = 30.0
)

// Reconciler places the nodes of a new graph relative to an existing layout.
type Reconciler struct {
	Jitter       dynamo.Jitter
	SpawnRadius  float64
	CenterRadius float64
	ReheatAlpha  float64
}

func New(j dynamo.Jitter, reheat float64) *Reconciler {
	return &Reconciler{
		Jitter:       j,
		SpawnRadius:  DefaultSpawnRadius,
		CenterRadius: DefaultCenterRadius,
		ReheatAlpha:  reheat,
	}
}

// Result lists what a reconciliation did, each slice in graph order.
type Result struct {
	Added   []string
	Removed []string
	Kept    []string
}

// Changed reports whether the node set differs.
func (r Result) Changed() bool { return len(r.Added) > 0 || len(r.Removed) > 0 }

// Apply installs next into sim. Surviving bodies are carried over
// unchanged; new nodes spawn next to the neighbours they already have in
// the layout, or near the center when they have none.
func (rc *Reconciler) Apply(sim *physics.Simulator, next *graph.Graph) Result {
	var res Result
	prev := sim.Graph()
	old := sim.Bodies()
	vp := sim.Viewport()

	bodies := make(map[string]dynamo.Body, next.Len())
	for _, n := range next.Nodes() {
		if b, ok := old[n.ID]; ok {
			bodies[n.ID] = b
			res.Kept = append(res.Kept, n.ID)
		}
	}

	for _, n := range next.Nodes() {
		if _, ok := old[n.ID]; ok {
			continue
		}
		res.Added = append(res.Added, n.ID)

		var sum r2.Vec
		count := 0
		for _, nb := range next.Neighbors(n.ID) {
			if b, ok := old[nb]; ok {
				sum = r2.Add(sum, b.Pos)
				count++
			}
		}

		var pos r2.Vec
		if count > 0 {
			pos = r2.Add(r2.Scale(1/float64(count), sum), rc.nudge(rc.SpawnRadius))
		} else {
			pos = r2.Add(vp.Center(), rc.nudge(rc.CenterRadius))
		}
		bodies[n.ID] = dynamo.Body{Pos: vp.Clamp(pos)}
	}

	for _, n := range prev.Nodes() {
		if !next.Has(n.ID) {
			res.Removed = append(res.Removed, n.ID)
		}
	}

	sim.Adopt(next, bodies)
	sim.Reheat(rc.ReheatAlpha)
	return res
}

func (rc *Reconciler) nudge(radius float64) r2.Vec {
	if rc.Jitter == nil {
		return r2.Vec{}
	}
	return rc.Jitter.Nudge(radius)
}
