// Package dynamo provides the primitives shared by the layout engine.
//
// The types here are deliberately small so every other package can depend
// on them without cycles:
//
//   - [Body]: position, velocity and pin state of one node
//   - [Viewport]: drawing surface size, padding and zoom
//   - [Snapshot]: consistent post-tick copy of every body
//   - [Jitter]: injectable source of small random offsets
//   - [Observer]: receives a snapshot after every tick
//
// # Example
//
//	vp := dynamo.DefaultViewport()
//	j := dynamo.NewJitter(42)
//	p := vp.Clamp(r2.Add(vp.Center(), j.Nudge(10)))
//
// # Thread Safety
//
// Snapshots are values and may be handed to any goroutine. Everything else
// is owned by the single goroutine driving the scheduler.
package dynamo
