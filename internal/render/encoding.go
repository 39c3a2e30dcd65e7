package render

import (
	"math"
	"strings"

	"github.com/san-kum/kgforce/internal/graph"
)

// Scale maps a domain onto a range, clamping at both ends.
type Scale struct {
	Domain [2]float64
	Range  [2]float64
	Sqrt   bool
}

func (s Scale) At(v float64) float64 {
	d0, d1 := s.Domain[0], s.Domain[1]
	if math.IsNaN(v) {
		v = d0
	}
	v = math.Min(math.Max(v, d0), d1)
	t := 0.0
	if d1 > d0 {
		if s.Sqrt {
			t = (math.Sqrt(v-d0)) / math.Sqrt(d1-d0)
		} else {
			t = (v - d0) / (d1 - d0)
		}
	}
	return s.Range[0] + t*(s.Range[1]-s.Range[0])
}

// Size selects the node attribute that drives the radius.
type Size string

const (
	SizeByDegree Size = "degree"
	SizeByScore  Size = "score"
)

// Encoding holds every visual constant of a rendered graph.
type Encoding struct {
	Palette  map[string]string
	Fallback string

	SizeBy     Size
	Radius     Scale
	EdgeWidth  Scale
	EdgeAlpha  Scale
	DimNode    float64
	DimEdge    float64
	EdgeColor  string
	HoverColor string

	NodeStroke      string
	NodeStrokeWidth float64
	SelectedStroke  string
	SelectedWidth   float64
	MatchStroke     string
	MatchWidth      float64

	LabelFill    string
	LabelOutline string
	OutlineWidth float64
	FontSize     float64
	LabelGap     float64
}

func DefaultEncoding() Encoding {
	return Encoding{
		Palette: map[string]string{
			"person":       "#6ea8fe",
			"organization": "#63e6be",
			"org":          "#63e6be",
			"concept":      "#ffd43b",
			"tool":         "#ff922b",
			"event":        "#f783ac",
			"document":     "#91a7ff",
		},
		Fallback: "#94a3b8",

		SizeBy:     SizeByDegree,
		Radius:     Scale{Domain: [2]float64{0, 20}, Range: [2]float64{9, 27}, Sqrt: true},
		EdgeWidth:  Scale{Domain: [2]float64{0, 1}, Range: [2]float64{1, 5}},
		EdgeAlpha:  Scale{Domain: [2]float64{0, 1}, Range: [2]float64{0.25, 0.95}},
		DimNode:    0.12,
		DimEdge:    0.06,
		EdgeColor:  "#7c8ea3",
		HoverColor: "#8ac5ff",

		NodeStroke:      "#0f1720",
		NodeStrokeWidth: 1.5,
		SelectedStroke:  "#f59e0b",
		SelectedWidth:   3,
		MatchStroke:     "#22d3ee",
		MatchWidth:      3,

		LabelFill:    "#e8eef4",
		LabelOutline: "#0f1720",
		OutlineWidth: 2,
		FontSize:     11,
		LabelGap:     4,
	}
}

// Color returns the fill for a node kind, case-insensitively.
func (e Encoding) Color(kind string) string {
	if c, ok := e.Palette[strings.ToLower(kind)]; ok {
		return c
	}
	return e.Fallback
}

// NodeRadius returns the layout radius of n.
func (e Encoding) NodeRadius(n *graph.Node) float64 {
	if n == nil {
		return e.Radius.Range[0]
	}
	if e.SizeBy == SizeByScore {
		s := e.Radius
		s.Domain = [2]float64{0, 1}
		return s.At(n.Score)
	}
	return e.Radius.At(float64(n.SizingDegree()))
}
