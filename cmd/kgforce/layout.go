package main

import (
	"github.com/san-kum/kgforce/internal/engine"
	"github.com/san-kum/kgforce/internal/metrics"
	"github.com/san-kum/kgforce/internal/render"
	"github.com/san-kum/kgforce/internal/storage"
	"github.com/spf13/cobra"
)

func runLayout(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	in, err := readGraph(args[0])
	if err != nil {
		return err
	}

	vp := cfg.ViewportValue()
	params := cfg.Params()
	ms := metrics.Defaults(vp, params.AlphaMin)
	tr := &tracer{}

	opts := append(engineOptions(cfg, logger),
		engine.WithObserver(metrics.Observers(ms)...),
		engine.WithObserver(tr),
	)
	e := engine.New(ctx, opts...)
	defer e.Detach()

	warnings := e.LoadInput(in)

	ticks, err := e.Run(ctx, cfg.MaxTicks)
	if err != nil {
		return err
	}
	stats := e.Stats()
	logger.Info("layout finished", "ticks", ticks, "alpha", stats.Alpha, "energy", stats.Energy, "corrected", stats.Corrected)

	frame := e.Frame()
	layout := buildLayout(args[0], cfg, frame, ticks, len(warnings), ms, tr)

	if jsonPath != "" {
		if err := storage.ExportJSON(jsonPath, layout); err != nil {
			return err
		}
	}
	if save {
		st := storage.New(cfg.RunsDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(layout)
		if err != nil {
			return err
		}
		logger.Info("run saved", "id", runID, "dir", cfg.RunsDir)
	}

	if frame.Graph == nil || outPath == "" {
		return nil
	}
	return drawFrame(cfg.Render.Surface, e.Encoding(), frame)
}

func drawFrame(name string, enc render.Encoding, frame render.Frame) error {
	w, err := openOut(outPath)
	if err != nil {
		return err
	}
	defer w.Close()

	s, err := surfaces().Get(name, w)
	if err != nil {
		return err
	}
	return render.NewAdapter(enc, s).Draw(frame)
}
