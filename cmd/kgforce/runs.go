package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/kgforce/internal/config"
	"github.com/san-kum/kgforce/internal/export"
	"github.com/san-kum/kgforce/internal/storage"
	"github.com/spf13/cobra"
)

func runsStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.RunsDir), nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := runsStore(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tTIME\tNODES\tEDGES\tTICKS\tSETTLED")

	for _, run := range runs {
		settled := "-"
		if t, ok := run.Metrics["settle_tick"]; ok && t >= 0 {
			settled = fmt.Sprintf("%.0f", t)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			run.ID,
			run.Source,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Nodes,
			run.Edges,
			run.Ticks,
			settled,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := runsStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(trace) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("source: %s\n", meta.Source)
	fmt.Printf("ticks: %d\n\n", len(trace))

	alpha := make([]float64, len(trace))
	energy := make([]float64, len(trace))
	for i, p := range trace {
		alpha[i] = p.Alpha
		energy[i] = p.Energy
	}

	for _, series := range []struct {
		caption string
		data    []float64
	}{
		{"alpha", alpha},
		{"kinetic energy", energy},
	} {
		fmt.Println(asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		))
		fmt.Println()
	}

	if svgPath != "" {
		doc := export.SeriesToSVG(energy, 800, 300, "#22d3ee")
		if doc == "" {
			return fmt.Errorf("not enough samples for svg")
		}
		if err := os.WriteFile(svgPath, []byte(doc), 0644); err != nil {
			return err
		}
		loggerFromContext(cmd.Context()).Info("energy plot written", "path", svgPath)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := runsStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	positions, err := st.LoadPositions(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSON(outPath, &storage.Layout{
		Source:    meta.Source,
		Preset:    meta.Preset,
		Seed:      meta.Seed,
		Nodes:     meta.Nodes,
		Edges:     meta.Edges,
		Warnings:  meta.Warnings,
		Ticks:     meta.Ticks,
		Viewport:  meta.Viewport,
		Params:    meta.Params,
		Metrics:   meta.Metrics,
		Positions: positions,
		Trace:     trace,
	})
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tREPULSION\tREST\tCENTER\tGRAVITY\tPADDING")
	for _, name := range config.ListPresets() {
		c := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%g\n",
			name,
			c.Physics.RepulsionStrength,
			c.Physics.RestLength,
			c.Physics.CenterStrength,
			c.Physics.Gravity,
			c.Viewport.Padding,
		)
	}
	return w.Flush()
}
