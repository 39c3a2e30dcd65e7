package config

import "sort"

// Presets tune the physics for graphs of different density. Each entry
// modifies the defaults.
var Presets = map[string]func(*Config){
	"default": func(*Config) {},
	"dense": func(c *Config) {
		c.Physics.RepulsionStrength = 400
		c.Physics.RestLength = 80
		c.Physics.RestLengthRange = 30
		c.Physics.CollisionStrength = 0.9
	},
	"sparse": func(c *Config) {
		c.Physics.RepulsionStrength = 1600
		c.Physics.RestLength = 160
		c.Physics.Gravity = 0.0005
	},
	"tight": func(c *Config) {
		c.Viewport.Padding = 8
		c.Physics.CenterStrength = 0.2
		c.Physics.Gravity = 0.01
		c.Physics.RestLength = 60
		c.Physics.RestLengthRange = 20
		c.Physics.MinRestLength = 15
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
