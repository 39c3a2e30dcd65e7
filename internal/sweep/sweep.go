// Package sweep lays one graph out many times, across seeds and physics
// variants, and ranks the runs by a metric.
package sweep

import (
	"context"
	"fmt"
	"io"
	"math"
	"runtime"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/san-kum/kgforce/internal/config"
	"github.com/san-kum/kgforce/internal/engine"
	"github.com/san-kum/kgforce/internal/graph"
	"github.com/san-kum/kgforce/internal/metrics"
	"golang.org/x/sync/errgroup"
)

const DefaultMetric = "settle_tick"

// Variant is one named configuration to lay the graph out with.
type Variant struct {
	Name   string
	Config *config.Config
}

type Result struct {
	Variant  string
	Seed     uint64
	Ticks    int
	Settled  bool
	Warnings int
	Metrics  map[string]float64
}

type Option func(*Ensemble)

// WithWorkers bounds the number of layouts running at once.
func WithWorkers(n int) Option {
	return func(e *Ensemble) {
		if n > 0 {
			e.workers = n
		}
	}
}

func WithLogger(l *log.Logger) Option { return func(e *Ensemble) { e.logger = l } }

// Ensemble runs every variant with every seed. Each run owns its own
// headless engine, so runs share nothing but the read-only input.
type Ensemble struct {
	in       graph.Input
	variants []Variant
	seeds    []uint64
	workers  int
	logger   *log.Logger
}

func New(in graph.Input, variants []Variant, seeds []uint64, opts ...Option) *Ensemble {
	e := &Ensemble{
		in:       in,
		variants: variants,
		seeds:    seeds,
		workers:  runtime.GOMAXPROCS(0),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run returns one result per (variant, seed), variant-major in the order
// given. The first failing run cancels the rest.
func (e *Ensemble) Run(ctx context.Context) ([]Result, error) {
	results := make([]Result, len(e.variants)*len(e.seeds))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for vi, v := range e.variants {
		for si, seed := range e.seeds {
			idx := vi*len(e.seeds) + si
			g.Go(func() error {
				r, err := e.runOne(gCtx, v, seed)
				if err != nil {
					return fmt.Errorf("%s seed %d: %w", v.Name, seed, err)
				}
				results[idx] = r
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Ensemble) runOne(ctx context.Context, v Variant, seed uint64) (Result, error) {
	cfg := v.Config
	params := cfg.Params()
	ms := metrics.Defaults(cfg.ViewportValue(), params.AlphaMin)

	opts := append(engine.ConfigOptions(cfg),
		engine.WithSeed(seed),
		engine.WithObserver(metrics.Observers(ms)...),
	)
	eng := engine.New(ctx, opts...)
	defer eng.Detach()

	warnings := eng.LoadInput(e.in)
	ticks, err := eng.Run(ctx, cfg.MaxTicks)
	if err != nil {
		return Result{}, err
	}

	summary := metrics.Summary(ms)
	e.logger.Debug("sweep run done", "variant", v.Name, "seed", seed, "ticks", ticks, "energy", summary["energy"])
	return Result{
		Variant:  v.Name,
		Seed:     seed,
		Ticks:    ticks,
		Settled:  summary[DefaultMetric] >= 0,
		Warnings: len(warnings),
		Metrics:  summary,
	}, nil
}

// Best returns the run with the lowest value of metric. Settled runs win
// over unsettled ones; ties keep the earlier result.
func Best(results []Result, metric string) (Result, bool) {
	best := -1
	bestVal := math.Inf(1)
	bestSettled := false
	for i, r := range results {
		val, ok := r.Metrics[metric]
		if !ok || math.IsNaN(val) {
			continue
		}
		if metric == DefaultMetric && val < 0 {
			continue
		}
		better := best < 0 ||
			(r.Settled && !bestSettled) ||
			(r.Settled == bestSettled && val < bestVal)
		if better {
			best, bestVal, bestSettled = i, val, r.Settled
		}
	}
	if best < 0 {
		return Result{}, false
	}
	return results[best], true
}

// Presets turns preset names into variants. Each preset is applied on top
// of a copy of base, so settings outside the preset keep their base value.
func Presets(base *config.Config, names []string) ([]Variant, error) {
	out := make([]Variant, 0, len(names))
	for _, name := range names {
		apply, ok := config.Presets[name]
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		cfg := base.Clone()
		apply(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
		out = append(out, Variant{Name: name, Config: cfg})
	}
	return out, nil
}

// Seeds returns n consecutive seeds starting at start.
func Seeds(start uint64, n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = start + uint64(i)
	}
	return out
}

// sortedKeys is used for stable variant names.
func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
