// Package export writes layouts and traces as SVG documents.
package export

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/san-kum/kgforce/internal/dynamo"
	"github.com/san-kum/kgforce/internal/render"
)

const DefaultBackground = "#0f1720"

// SVGSurface writes one standalone SVG document per Draw.
type SVGSurface struct {
	w          io.Writer
	Background string
}

func NewSVGSurface(w io.Writer) *SVGSurface {
	return &SVGSurface{w: w, Background: DefaultBackground}
}

func (s *SVGSurface) Draw(cmds []render.Command, vp dynamo.Viewport) error {
	if s.w == nil {
		return nil
	}
	_, err := io.WriteString(s.w, CommandsToSVG(cmds, vp, s.Background))
	return err
}

// CommandsToSVG renders draw commands into an SVG document the size of vp.
func CommandsToSVG(cmds []render.Command, vp dynamo.Viewport, background string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, vp.Width, vp.Height, vp.Width, vp.Height, background))

	for _, c := range cmds {
		switch c.Op {
		case render.OpEdge:
			sb.WriteString(fmt.Sprintf(`<line data-id="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f" stroke-opacity="%.2f"/>
`, attr(c.ID), c.From.X, c.From.Y, c.To.X, c.To.Y, c.Color, c.Width, c.Opacity))
		case render.OpNode:
			sb.WriteString(fmt.Sprintf(`<circle data-id="%s" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="%.2f" opacity="%.2f"/>
`, attr(c.ID), c.At.X, c.At.Y, c.Radius, c.Color, c.Stroke, c.StrokeWidth, c.Opacity))
		case render.OpLabel:
			sb.WriteString(fmt.Sprintf(`<text x="%.2f" y="%.2f" fill="%s" stroke="%s" stroke-width="%.2f" paint-order="stroke" font-size="%.1f" font-family="sans-serif" text-anchor="middle" opacity="%.2f">%s</text>
`, c.At.X, c.At.Y, c.Color, c.Stroke, c.StrokeWidth, c.FontSize, c.Opacity, html.EscapeString(c.Text)))
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func attr(s string) string { return html.EscapeString(s) }

// SeriesToSVG plots values against their index as a polyline.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	rangeX := float64(len(values) - 1)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, DefaultBackground, strokeColor))

	for i, v := range values {
		x := float64(i) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
