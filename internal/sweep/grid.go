package sweep

import (
	"fmt"
	"strings"

	"github.com/san-kum/kgforce/internal/config"
	"gopkg.in/yaml.v3"
)

// Axis is one physics setting and the values to try for it. Param uses
// the yaml key of the physics section, e.g. "repulsion_strength".
type Axis struct {
	Param  string
	Values []float64
}

// ParseAxis reads "key=v1,v2,...".
func ParseAxis(s string) (Axis, error) {
	key, list, ok := strings.Cut(s, "=")
	if !ok || key == "" || list == "" {
		return Axis{}, fmt.Errorf("axis %q: want key=v1,v2", s)
	}
	a := Axis{Param: strings.TrimSpace(key)}
	for _, f := range strings.Split(list, ",") {
		var v float64
		if _, err := fmt.Sscan(strings.TrimSpace(f), &v); err != nil {
			return Axis{}, fmt.Errorf("axis %q: %w", s, err)
		}
		a.Values = append(a.Values, v)
	}
	return a, nil
}

// Grid returns one variant per point of the cartesian product of axes,
// each a copy of base with those physics settings. Every variant is
// validated.
func Grid(base *config.Config, axes []Axis) ([]Variant, error) {
	var out []Variant
	if err := grid(base, axes, 0, map[string]float64{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func grid(base *config.Config, axes []Axis, depth int, current map[string]float64, out *[]Variant) error {
	if depth == len(axes) {
		cfg := base.Clone()
		for k, v := range current {
			if err := setPhysics(cfg, k, v); err != nil {
				return err
			}
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		*out = append(*out, Variant{Name: variantName(current), Config: cfg})
		return nil
	}

	a := axes[depth]
	for _, val := range a.Values {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[a.Param] = val
		if err := grid(base, axes, depth+1, next, out); err != nil {
			return err
		}
	}
	return nil
}

func variantName(params map[string]float64) string {
	if len(params) == 0 {
		return "base"
	}
	parts := make([]string, 0, len(params))
	for _, k := range sortedKeys(params) {
		parts = append(parts, fmt.Sprintf("%s=%g", k, params[k]))
	}
	return strings.Join(parts, ",")
}

// setPhysics sets one physics field by its yaml key.
func setPhysics(cfg *config.Config, key string, v float64) error {
	raw, err := yaml.Marshal(cfg.Physics)
	if err != nil {
		return err
	}
	fields := map[string]any{}
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return err
	}
	if _, ok := fields[key]; !ok {
		return fmt.Errorf("unknown physics setting %q", key)
	}
	fields[key] = v
	raw, err = yaml.Marshal(fields)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, &cfg.Physics)
}
