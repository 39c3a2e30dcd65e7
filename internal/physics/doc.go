// Package physics lays out a knowledge graph with a force-directed
// simulation.
//
// A [Simulator] owns one [dynamo.Body] per node and sums four forces each
// tick:
//
//   - repulsion between every pair of nodes
//   - a spring along every edge, shorter for heavier edges
//   - centering of the centroid plus a weak per-node gravity
//   - collision between the rendered node discs
//
// Bodies are integrated with [integrators.SemiImplicitEuler] and clamped
// into the padded viewport afterwards. The layout cools through an alpha
// scalar; a non-interactive simulator reports [Simulator.Settled] once
// alpha drops below [Params.AlphaMin].
//
//	sim := physics.New(g, dynamo.DefaultViewport(), physics.DefaultParams())
//	for !sim.Settled() {
//	    sim.Step()
//	}
package physics
