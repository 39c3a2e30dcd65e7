package metrics

import (
	"github.com/san-kum/kgforce/internal/dynamo"
)

// Containment is the fraction of ticks in which every body was finite and
// inside the padded viewport.
type Containment struct {
	name       string
	vp         dynamo.Viewport
	violations int
	samples    int
}

func NewContainment(vp dynamo.Viewport) *Containment {
	return &Containment{
		name: "containment",
		vp:   vp,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) OnTick(s dynamo.Snapshot) {
	c.samples++
	for _, b := range s.Bodies {
		if !b.IsValid() || !c.vp.Contains(b.Pos) {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}

// Settle records the first tick at which alpha fell below the threshold,
// or -1 while it has not.
type Settle struct {
	name     string
	alphaMin float64
	tick     int
}

func NewSettle(alphaMin float64) *Settle {
	return &Settle{name: "settle_tick", alphaMin: alphaMin, tick: -1}
}

func (s *Settle) Name() string { return s.name }

func (s *Settle) OnTick(snap dynamo.Snapshot) {
	if s.tick < 0 && snap.Alpha < s.alphaMin {
		s.tick = snap.Tick
	}
}

func (s *Settle) Value() float64 { return float64(s.tick) }

func (s *Settle) Reset() { s.tick = -1 }
