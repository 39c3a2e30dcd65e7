package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/san-kum/kgforce/internal/engine"
	"github.com/san-kum/kgforce/internal/graph"
	"github.com/san-kum/kgforce/internal/interact"
	"github.com/san-kum/kgforce/internal/sched"
	"github.com/san-kum/kgforce/internal/viz"
	"github.com/san-kum/kgforce/internal/watch"
	"github.com/spf13/cobra"
)

const liveLogFile = "kgforce-live.log"

func runLive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	in, err := readGraph(args[0])
	if err != nil {
		return err
	}

	// stderr belongs to the terminal UI
	logger := log.New(io.Discard)
	if verbose {
		f, err := os.Create(liveLogFile)
		if err != nil {
			return err
		}
		defer f.Close()
		logger = newLogger(f, log.DebugLevel)
	}

	var p *tea.Program
	status := func(format string, a ...any) {
		if p != nil {
			msg := viz.StatusMsg(fmt.Sprintf(format, a...))
			go p.Send(msg)
		}
	}

	host := sched.NewManualHost()
	canvas := viz.NewCanvasSurface(cols, rows, nil)
	opts := append(engineOptions(cfg, logger),
		engine.WithHost(host),
		engine.WithSurface(canvas),
		engine.WithInteractive(keepAlive),
		engine.WithOnWarnings(func(ws []graph.Warning) {
			status("%d input warnings, first: %s", len(ws), ws[0])
		}),
		engine.WithCallbacks(liveCallbacks(status)),
	)
	e := engine.New(ctx, opts...)
	defer e.Detach()
	e.LoadInput(in)

	m := viz.NewModel(e, host, canvas, cfg.ViewportValue(),
		viz.WithTitle("kgforce "+args[0]),
		viz.WithFPS(cfg.FPS),
	)
	p = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))

	if watchFile && args[0] != "-" {
		w, err := watch.New(args[0], func(path string) {
			next, err := readGraph(path)
			if err != nil {
				logger.Warn("reload failed", "path", path, "err", err)
				status("reload failed: %v", err)
				return
			}
			e.UpdateInput(next)
			status("reloaded %s", path)
		}, watch.WithLogger(logger))
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}

	_, err = p.Run()
	return err
}

// liveCallbacks reports interaction on the status line.
func liveCallbacks(status func(format string, a ...any)) interact.Callbacks {
	return interact.Callbacks{
		OnNodeClick:         func(id string) { status("clicked %s", id) },
		OnNodeExpandRequest: func(id string) { status("expand %s", id) },
		OnEdgeInspect: func(e *graph.Edge) {
			if e == nil {
				status("")
				return
			}
			status("%s -[%s %.2f]-> %s", e.Source, e.Kind, e.Weight, e.Target)
		},
		OnSelectionChange: func(id string, selected bool) {
			if !selected {
				status("")
			}
		},
	}
}
