package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/kgforce/internal/dynamo"
	"github.com/san-kum/kgforce/internal/render"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestSVGSurface(t *testing.T) {
	cmds := []render.Command{
		{Op: render.OpEdge, ID: "ab", From: r2.Vec{X: 1, Y: 2}, To: r2.Vec{X: 3, Y: 4}, Color: "#7c8ea3", Width: 2, Opacity: 0.5},
		{Op: render.OpNode, ID: "a", At: r2.Vec{X: 1, Y: 2}, Radius: 9, Color: "#6ea8fe", Stroke: "#f59e0b", StrokeWidth: 3, Opacity: 1},
		{Op: render.OpLabel, ID: "a", At: r2.Vec{X: 1, Y: 20}, Text: "R&D <lab>", Color: "#e8eef4", FontSize: 11, Opacity: 1},
	}

	var buf bytes.Buffer
	s := NewSVGSurface(&buf)
	if err := s.Draw(cmds, dynamo.DefaultViewport()); err != nil {
		t.Fatalf("draw failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		`width="800" height="600"`,
		`<line data-id="ab"`,
		`<circle data-id="a" cx="1.00" cy="2.00" r="9.00" fill="#6ea8fe" stroke="#f59e0b"`,
		`R&amp;D &lt;lab&gt;`,
		DefaultBackground,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output", want)
		}
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("document not closed")
	}
}

func TestSVGSurface_NilWriter(t *testing.T) {
	if err := NewSVGSurface(nil).Draw(nil, dynamo.DefaultViewport()); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestSeriesToSVG(t *testing.T) {
	if SeriesToSVG([]float64{1}, 100, 50, "#fff") != "" {
		t.Error("expected empty output for a single point")
	}
	out := SeriesToSVG([]float64{3, 2, 1}, 100, 50, "#63e6be")
	if !strings.Contains(out, `stroke="#63e6be"`) || strings.Count(out, " L") != 2 {
		t.Errorf("unexpected svg %s", out)
	}
}
