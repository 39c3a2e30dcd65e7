package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/san-kum/kgforce/internal/dynamo"
	"github.com/san-kum/kgforce/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth    = 800.0
	DefaultHeight   = 600.0
	DefaultPadding  = 24.0
	DefaultFPS      = 60
	DefaultSeed     = 1
	DefaultSurface  = "svg"
	DefaultSizeBy   = "degree"
	DefaultRunsDir  = "runs"
	DefaultMaxTicks = 0
)

var validate = validator.New()

type Config struct {
	Seed      uint64            `yaml:"seed"`
	FPS       int               `yaml:"fps" validate:"gt=0,lte=240"`
	MaxTicks  int               `yaml:"max_ticks" validate:"gte=0"`
	RunsDir   string            `yaml:"runs_dir" validate:"required"`
	EdgeKinds []string          `yaml:"edge_kinds,omitempty"`
	Viewport  ViewportConfig    `yaml:"viewport"`
	Physics   physics.Params    `yaml:"physics"`
	Render    RenderConfig      `yaml:"render"`
	Interact  InteractionConfig `yaml:"interaction"`
	Reconcile ReconcileConfig   `yaml:"reconcile"`
}

type ViewportConfig struct {
	Width   float64 `yaml:"width" validate:"gt=0"`
	Height  float64 `yaml:"height" validate:"gt=0"`
	Padding float64 `yaml:"padding" validate:"gte=0"`
	Zoom    float64 `yaml:"zoom" validate:"gt=0"`
}

type RenderConfig struct {
	Surface string `yaml:"surface" validate:"oneof=canvas svg"`
	SizeBy  string `yaml:"size_by" validate:"oneof=degree score"`
}

type InteractionConfig struct {
	DragThreshold float64 `yaml:"drag_threshold" validate:"gte=0"`
	EdgeTolerance float64 `yaml:"edge_tolerance" validate:"gte=0"`
}

type ReconcileConfig struct {
	SpawnRadius  float64 `yaml:"spawn_radius" validate:"gte=0"`
	CenterRadius float64 `yaml:"center_radius" validate:"gte=0"`
}

func DefaultConfig() *Config {
	return &Config{
		Seed:     DefaultSeed,
		FPS:      DefaultFPS,
		MaxTicks: DefaultMaxTicks,
		RunsDir:  DefaultRunsDir,
		Viewport: ViewportConfig{
			Width:   DefaultWidth,
			Height:  DefaultHeight,
			Padding: DefaultPadding,
			Zoom:    1,
		},
		Physics: physics.DefaultParams(),
		Render: RenderConfig{
			Surface: DefaultSurface,
			SizeBy:  DefaultSizeBy,
		},
		Interact: InteractionConfig{
			DragThreshold: 3,
			EdgeTolerance: 6,
		},
		Reconcile: ReconcileConfig{
			SpawnRadius:  12,
			CenterRadius: 30,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrInvalidParams, err)
	}
	return c.Params().Validate()
}

// Params returns the physics section.
func (c *Config) Params() physics.Params { return c.Physics }

func (c *Config) ViewportValue() dynamo.Viewport {
	return dynamo.Viewport{
		Width:   c.Viewport.Width,
		Height:  c.Viewport.Height,
		Padding: c.Viewport.Padding,
		Zoom:    c.Viewport.Zoom,
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.EdgeKinds = append([]string(nil), c.EdgeKinds...)
	return &out
}
