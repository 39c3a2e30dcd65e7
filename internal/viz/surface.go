package viz

import (
	"io"
	"math"

	"github.com/san-kum/kgforce/internal/dynamo"
	"github.com/san-kum/kgforce/internal/render"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	minEdgeOpacity  = 0.1
	minLabelOpacity = 0.5
)

// CanvasSurface draws render commands onto a braille canvas. The whole
// viewport is stretched over cols x rows terminal cells.
type CanvasSurface struct {
	canvas *Canvas
	w      io.Writer
	Muted  string
}

// NewCanvasSurface returns a surface that also writes the plain canvas to
// w after every draw when w is not nil.
func NewCanvasSurface(cols, rows int, w io.Writer) *CanvasSurface {
	return &CanvasSurface{canvas: NewCanvas(cols, rows), w: w, Muted: "#3a4654"}
}

func (s *CanvasSurface) Canvas() *Canvas { return s.canvas }

// Resize replaces the canvas with an empty one of the new size.
func (s *CanvasSurface) Resize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	s.canvas = NewCanvas(cols, rows)
}

func (s *CanvasSurface) scale(vp dynamo.Viewport) (sx, sy float64) {
	return float64(s.canvas.Width*2) / vp.Width, float64(s.canvas.Height*4) / vp.Height
}

func (s *CanvasSurface) Draw(cmds []render.Command, vp dynamo.Viewport) error {
	c := s.canvas
	c.Clear()
	sx, sy := s.scale(vp)
	sub := func(p r2.Vec) (int, int) {
		return int(math.Round(p.X * sx)), int(math.Round(p.Y * sy))
	}

	for _, cmd := range cmds {
		switch cmd.Op {
		case render.OpEdge:
			if cmd.Opacity < minEdgeOpacity {
				continue
			}
			c.SetPen(cmd.Color)
			x0, y0 := sub(cmd.From)
			x1, y1 := sub(cmd.To)
			c.DrawLine(x0, y0, x1, y1)
		case render.OpNode:
			if cmd.Opacity < minLabelOpacity {
				c.SetPen(s.Muted)
			} else {
				c.SetPen(cmd.Color)
			}
			x, y := sub(cmd.At)
			c.FillCircle(x, y, int(math.Round(cmd.Radius*sx)))
		case render.OpLabel:
			if cmd.Opacity < minLabelOpacity || cmd.Text == "" {
				continue
			}
			c.SetPen(cmd.Color)
			x, y := sub(cmd.At)
			n := len([]rune(cmd.Text))
			c.PutText(x/2-n/2, y/4, cmd.Text)
		}
	}
	c.SetPen("")

	if s.w == nil {
		return nil
	}
	_, err := io.WriteString(s.w, c.String())
	return err
}

// ToViewport maps the center of a terminal cell back to surface
// coordinates, for turning mouse events into pointer events.
func (s *CanvasSurface) ToViewport(col, row int, vp dynamo.Viewport) r2.Vec {
	return r2.Vec{
		X: (float64(col) + 0.5) * vp.Width / float64(s.canvas.Width),
		Y: (float64(row) + 0.5) * vp.Height / float64(s.canvas.Height),
	}
}
