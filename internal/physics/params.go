package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/kgforce/internal/dynamo"
)

// Params are the force and integration constants of a layout. The tags
// are the keys of the physics section of a config file.
type Params struct {
	// RepulsionStrength scales the pairwise inverse-square repulsion.
	RepulsionStrength float64 `yaml:"repulsion_strength" validate:"gte=0"`
	// Epsilon softens repulsion at zero separation.
	Epsilon float64 `yaml:"epsilon" validate:"gt=0"`

	SpringStrength float64 `yaml:"spring_strength" validate:"gte=0"`
	// RestLength is the rest length of a zero-weight edge. Each unit of
	// weight shortens it by RestLengthRange, down to MinRestLength.
	RestLength      float64 `yaml:"rest_length" validate:"gt=0"`
	RestLengthRange float64 `yaml:"rest_length_range" validate:"gte=0"`
	MinRestLength   float64 `yaml:"min_rest_length" validate:"gte=0"`

	// CenterStrength pulls the centroid of all nodes to the viewport center.
	CenterStrength float64 `yaml:"center_strength" validate:"gte=0"`
	// Gravity pulls every node individually toward the center.
	Gravity float64 `yaml:"gravity" validate:"gte=0"`

	CollisionStrength float64 `yaml:"collision_strength" validate:"gte=0"`
	CollisionPadding  float64 `yaml:"collision_padding" validate:"gte=0"`

	Dt       float64 `yaml:"dt" validate:"gt=0"`
	Damping  float64 `yaml:"damping" validate:"gt=0,lt=1"`
	MaxSpeed float64 `yaml:"max_speed" validate:"gt=0"`

	AlphaMin        float64 `yaml:"alpha_min" validate:"gt=0,lt=1"`
	DecayTicks      int     `yaml:"decay_ticks" validate:"gt=0"`
	MaxIterations   int     `yaml:"max_iterations" validate:"gt=0"`
	DragAlphaTarget float64 `yaml:"drag_alpha_target" validate:"gte=0,lte=1"`
	ReheatAlpha     float64 `yaml:"reheat_alpha" validate:"gte=0,lte=1"`

	// InitialRadius spaces the phyllotaxis spiral of a fresh layout.
	InitialRadius float64 `yaml:"initial_radius" validate:"gte=0"`
	// NudgeRadius bounds the jitter used to repair non-finite bodies.
	NudgeRadius float64 `yaml:"nudge_radius" validate:"gte=0"`
}

func DefaultParams() Params {
	return Params{
		RepulsionStrength: 800,
		Epsilon:           1,
		SpringStrength:    0.1,
		RestLength:        120,
		RestLengthRange:   40,
		MinRestLength:     20,
		CenterStrength:    0.1,
		Gravity:           0.001,
		CollisionStrength: 0.7,
		CollisionPadding:  2,
		Dt:                1,
		Damping:           0.6,
		MaxSpeed:          40,
		AlphaMin:          0.001,
		DecayTicks:        300,
		MaxIterations:     1000,
		DragAlphaTarget:   0.3,
		ReheatAlpha:       0.3,
		InitialRadius:     10,
		NudgeRadius:       2,
	}
}

// Validate rejects parameter sets that cannot produce a stable layout.
func (p Params) Validate() error {
	checks := []struct {
		name string
		ok   bool
	}{
		{"repulsion_strength", p.RepulsionStrength >= 0},
		{"epsilon", p.Epsilon > 0},
		{"spring_strength", p.SpringStrength >= 0},
		{"rest_length", p.RestLength > 0},
		{"min_rest_length", p.MinRestLength >= 0},
		{"dt", p.Dt > 0},
		{"damping", p.Damping > 0 && p.Damping < 1},
		{"alpha_min", p.AlphaMin > 0 && p.AlphaMin < 1},
		{"decay_ticks", p.DecayTicks > 0},
		{"max_iterations", p.MaxIterations > 0},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%w: %s", dynamo.ErrInvalidParams, c.name)
		}
	}
	return nil
}

// AlphaDecay is the per-tick decay rate that takes alpha from 1 to
// AlphaMin in DecayTicks ticks.
func (p Params) AlphaDecay() float64 {
	return 1 - math.Pow(p.AlphaMin, 1/float64(p.DecayTicks))
}

// RestLengthFor returns the spring rest length of an edge with weight w.
// Heavier edges pull tighter.
func (p Params) RestLengthFor(w float64) float64 {
	return math.Max(p.MinRestLength, p.RestLength-p.RestLengthRange*w)
}
