package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	seed       uint64
	width      float64
	height     float64
	maxTicks   int
	edgeKinds  []string
	surface    string
	outPath    string
	jsonPath   string
	save       bool
	cols       int
	rows       int
	frameRate  int
	watchFile  bool
	svgPath    string
	keepAlive  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "kgforce",
		Short:        "force-directed knowledge graph layout",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "runs directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	layoutCmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "lay a graph out until it settles",
		Args:  cobra.ExactArgs(1),
		RunE:  runLayout,
	}
	addConfigFlags(layoutCmd)
	layoutCmd.Flags().StringVar(&surface, "surface", "", "output surface: canvas or svg (overrides config)")
	layoutCmd.Flags().StringVarP(&outPath, "out", "o", "-", "render output path, - for stdout")
	layoutCmd.Flags().StringVar(&jsonPath, "json", "", "write positions and metrics as json")
	layoutCmd.Flags().BoolVar(&save, "save", false, "store the run in the runs directory")
	layoutCmd.Flags().IntVar(&cols, "cols", 100, "canvas columns")
	layoutCmd.Flags().IntVar(&rows, "rows", 32, "canvas rows")

	liveCmd := &cobra.Command{
		Use:   "live [graph.json]",
		Short: "interactive terminal view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 0, "frames per second (overrides config)")
	liveCmd.Flags().BoolVar(&keepAlive, "keep-alive", false, "keep ticking after the layout settles")
	liveCmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "apply changes to the graph file as incremental updates")
	liveCmd.Flags().IntVar(&cols, "cols", 100, "initial canvas columns")
	liveCmd.Flags().IntVar(&rows, "rows", 32, "initial canvas rows")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}
	listCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the alpha and energy trace of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the energy trace as svg")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output path, - for stdout")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list physics presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(layoutCmd, liveCmd, newSweepCmd(), listCmd, plotCmd, exportCmd, presetsCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "jitter seed")
	cmd.Flags().Float64Var(&width, "width", 800, "viewport width")
	cmd.Flags().Float64Var(&height, "height", 600, "viewport height")
	cmd.Flags().IntVar(&maxTicks, "max-ticks", 0, "stop after this many ticks, 0 for no limit")
	cmd.Flags().StringSliceVar(&edgeKinds, "edge-kinds", nil, "only load edges of these kinds")
}
