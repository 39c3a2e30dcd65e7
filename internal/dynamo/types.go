package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Body is the mutable physical state of one node.
type Body struct {
	Pos    r2.Vec
	Vel    r2.Vec
	Pinned bool
}

// IsValid reports whether position and velocity are finite.
func (b Body) IsValid() bool {
	return Finite(b.Pos) && Finite(b.Vel)
}

// Finite reports whether both components of v are finite.
func Finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Viewport describes the drawing surface. Layout coordinates and screen
// coordinates coincide at Zoom 1; zoom scales around the center.
type Viewport struct {
	Width   float64
	Height  float64
	Padding float64
	Zoom    float64
}

func DefaultViewport() Viewport {
	return Viewport{Width: 800, Height: 600, Padding: 24, Zoom: 1}
}

func (v Viewport) Validate() error {
	if !(v.Width > 0) || !(v.Height > 0) || math.IsInf(v.Width, 0) || math.IsInf(v.Height, 0) {
		return fmt.Errorf("%w: %gx%g", ErrInvalidViewport, v.Width, v.Height)
	}
	if v.Padding < 0 || math.IsNaN(v.Padding) {
		return fmt.Errorf("%w: padding %g", ErrInvalidViewport, v.Padding)
	}
	return nil
}

func (v Viewport) Center() r2.Vec {
	return r2.Vec{X: v.Width / 2, Y: v.Height / 2}
}

func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 || math.IsNaN(v.Zoom) || math.IsInf(v.Zoom, 0) {
		return 1
	}
	return v.Zoom
}

// Bounds returns the padded box every node must stay inside. When the
// padding exceeds half a dimension the box collapses onto the center line.
func (v Viewport) Bounds() r2.Box {
	minX, maxX := v.Padding, v.Width-v.Padding
	if minX > maxX {
		minX, maxX = v.Width/2, v.Width/2
	}
	minY, maxY := v.Padding, v.Height-v.Padding
	if minY > maxY {
		minY, maxY = v.Height/2, v.Height/2
	}
	return r2.Box{Min: r2.Vec{X: minX, Y: minY}, Max: r2.Vec{X: maxX, Y: maxY}}
}

// Clamp moves p inside Bounds.
func (v Viewport) Clamp(p r2.Vec) r2.Vec {
	b := v.Bounds()
	return r2.Vec{
		X: math.Min(math.Max(p.X, b.Min.X), b.Max.X),
		Y: math.Min(math.Max(p.Y, b.Min.Y), b.Max.Y),
	}
}

// Contains reports whether p lies inside Bounds.
func (v Viewport) Contains(p r2.Vec) bool {
	b := v.Bounds()
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// ToScreen maps a layout coordinate to the surface.
func (v Viewport) ToScreen(p r2.Vec) r2.Vec {
	c := v.Center()
	return r2.Add(c, r2.Scale(v.zoom(), r2.Sub(p, c)))
}

// ToLayout is the inverse of ToScreen.
func (v Viewport) ToLayout(p r2.Vec) r2.Vec {
	c := v.Center()
	return r2.Add(c, r2.Scale(1/v.zoom(), r2.Sub(p, c)))
}

// Scale returns the screen length of a layout length.
func (v Viewport) Scale(l float64) float64 {
	return l * v.zoom()
}

// Snapshot is a consistent copy of all bodies taken after a tick.
type Snapshot struct {
	Tick   int
	Alpha  float64
	Energy float64
	Bodies map[string]Body
}

// Position returns the position of id, if present.
func (s Snapshot) Position(id string) (r2.Vec, bool) {
	b, ok := s.Bodies[id]
	return b.Pos, ok
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.Bodies = make(map[string]Body, len(s.Bodies))
	for k, b := range s.Bodies {
		c.Bodies[k] = b
	}
	return c
}

// Observer receives a snapshot after every completed tick.
type Observer interface {
	OnTick(s Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s Snapshot)

func (f ObserverFunc) OnTick(s Snapshot) { f(s) }
