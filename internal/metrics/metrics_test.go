package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/kgforce/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

func snap(tick int, alpha, energy float64, pos map[string]r2.Vec) dynamo.Snapshot {
	s := dynamo.Snapshot{Tick: tick, Alpha: alpha, Energy: energy, Bodies: map[string]dynamo.Body{}}
	for id, p := range pos {
		s.Bodies[id] = dynamo.Body{Pos: p}
	}
	return s
}

func TestEnergyTrace(t *testing.T) {
	m := NewEnergy()
	if m.Value() != 0 {
		t.Errorf("expected 0 before samples, got %f", m.Value())
	}
	m.OnTick(snap(1, 1, 4, nil))
	m.OnTick(snap(2, 1, 2, nil))

	if m.Value() != 2 {
		t.Errorf("expected last energy 2, got %f", m.Value())
	}
	if tr := m.Trace(); len(tr) != 2 || tr[0] != 4 {
		t.Errorf("unexpected trace %v", tr)
	}

	m.Reset()
	if len(m.Trace()) != 0 {
		t.Error("expected empty trace after reset")
	}
}

func TestDisplacement(t *testing.T) {
	m := NewDisplacement()
	m.OnTick(snap(1, 1, 0, map[string]r2.Vec{"a": {X: 0, Y: 0}, "b": {X: 5, Y: 5}}))
	m.OnTick(snap(2, 1, 0, map[string]r2.Vec{"a": {X: 3, Y: 4}, "b": {X: 5, Y: 6}, "c": {X: 100}}))

	if math.Abs(m.Value()-5) > 1e-9 {
		t.Errorf("expected max displacement 5, got %f", m.Value())
	}
}

func TestContainment(t *testing.T) {
	vp := dynamo.Viewport{Width: 100, Height: 100, Padding: 10, Zoom: 1}
	m := NewContainment(vp)
	if m.Value() != 1.0 {
		t.Errorf("expected 1.0 with no samples, got %f", m.Value())
	}

	m.OnTick(snap(1, 1, 0, map[string]r2.Vec{"a": {X: 50, Y: 50}}))
	m.OnTick(snap(2, 1, 0, map[string]r2.Vec{"a": {X: 5, Y: 50}}))
	m.OnTick(snap(3, 1, 0, map[string]r2.Vec{"a": {X: math.NaN(), Y: 50}}))
	m.OnTick(snap(4, 1, 0, map[string]r2.Vec{"a": {X: 90, Y: 90}}))

	if math.Abs(m.Value()-0.5) > 1e-9 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}

func TestSettle(t *testing.T) {
	m := NewSettle(0.001)
	m.OnTick(snap(1, 0.5, 0, nil))
	if m.Value() != -1 {
		t.Errorf("expected -1 before settling, got %f", m.Value())
	}
	m.OnTick(snap(7, 0.0009, 0, nil))
	m.OnTick(snap(8, 0.0001, 0, nil))
	if m.Value() != 7 {
		t.Errorf("expected settle tick 7, got %f", m.Value())
	}
}

func TestSummary(t *testing.T) {
	ms := Defaults(dynamo.DefaultViewport(), 0.001)
	for _, o := range Observers(ms) {
		o.OnTick(snap(1, 0.5, 3, map[string]r2.Vec{"a": {X: 400, Y: 300}}))
	}
	got := Summary(ms)
	want := map[string]float64{"energy": 3, "max_displacement": 0, "containment": 1, "settle_tick": -1}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s: expected %f, got %f", k, v, got[k])
		}
	}
}
