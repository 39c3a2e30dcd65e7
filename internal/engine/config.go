package engine

import (
	"github.com/san-kum/kgforce/internal/config"
	"github.com/san-kum/kgforce/internal/render"
)

// ConfigOptions maps cfg onto engine options. Later options override.
func ConfigOptions(cfg *config.Config) []Option {
	enc := render.DefaultEncoding()
	enc.SizeBy = render.Size(cfg.Render.SizeBy)
	return []Option{
		WithParams(cfg.Params()),
		WithViewport(cfg.ViewportValue()),
		WithSeed(cfg.Seed),
		WithEncoding(enc),
		WithEdgeKinds(cfg.EdgeKinds...),
		WithReconcileRadii(cfg.Reconcile.SpawnRadius, cfg.Reconcile.CenterRadius),
		WithThresholds(cfg.Interact.DragThreshold, cfg.Interact.EdgeTolerance),
	}
}
