package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string

	kind     string
	steps    int
	start    float64
	drift    float64
	vol      float64
	stepSize float64
	walks    int
	bins     int
	seed     int64
	preset   string

	maxSeries    int
	showEnvelope bool
	histCSV      bool
	envelopeCSV  bool
	noWalks      bool
	saveConfig   string

	sweepMin float64
	sweepMax float64
	sweepN   int

	addr string
)

// main registers the commands and starts the dashboard when no subcommand is given.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "randwalk",
		Short:         "random walk simulation engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runDashboard,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: info, debug or trace")
	addWalkFlags(rootCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal dashboard",
		Args:  cobra.NoArgs,
		RunE:  runDashboard,
	}
	addWalkFlags(tuiCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "generate walks and print plot, histogram and summary",
		Args:  cobra.NoArgs,
		RunE:  runWalks,
	}
	addWalkFlags(runCmd)
	runCmd.Flags().IntVar(&maxSeries, "max-series", 10, "number of paths to plot")
	runCmd.Flags().BoolVar(&showEnvelope, "envelope", false, "also plot mean ± 1σ")
	runCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the resolved config to this yaml file")

	histCmd := &cobra.Command{
		Use:   "hist",
		Short: "print the histogram of terminal values",
		Args:  cobra.NoArgs,
		RunE:  runHist,
	}
	addWalkFlags(histCmd)
	histCmd.Flags().BoolVar(&histCSV, "csv", false, "write lo,hi,count CSV instead of a table")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv",
		Short: "write the walk table as CSV to stdout",
		Args:  cobra.NoArgs,
		RunE:  runExportCSV,
	}
	addWalkFlags(exportCSVCmd)
	exportCSVCmd.Flags().BoolVar(&envelopeCSV, "envelope", false, "write the per-step mean and std instead of walks")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json",
		Short: "write params, walks and summary as JSON to stdout",
		Args:  cobra.NoArgs,
		RunE:  runExportJSON,
	}
	addWalkFlags(exportJSONCmd)
	exportJSONCmd.Flags().BoolVar(&noWalks, "no-walks", false, "omit walks and envelope")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list named presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	kindsCmd := &cobra.Command{
		Use:   "kinds",
		Short: "list step distributions",
		Args:  cobra.NoArgs,
		RunE:  listKinds,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "sweep one parameter and report terminal statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addWalkFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "sweep start value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "sweep end value")
	sweepCmd.Flags().IntVar(&sweepN, "n", 11, "number of sweep points")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the experiments listed in a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "start the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	addWalkFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	rootCmd.AddCommand(tuiCmd, runCmd, histCmd, exportCSVCmd, exportJSONCmd, presetsCmd, kindsCmd, sweepCmd, scenarioCmd, serveCmd)
	return rootCmd
}

func addWalkFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&kind, "kind", "gaussian", "step distribution: gaussian or discrete")
	f.IntVar(&steps, "steps", 100, "steps per walk")
	f.Float64Var(&start, "start", 0, "starting value")
	f.Float64Var(&drift, "drift", 0, "mean increment (gaussian)")
	f.Float64Var(&vol, "vol", 1, "increment standard deviation (gaussian)")
	f.Float64Var(&stepSize, "step-size", 1, "increment magnitude (discrete)")
	f.IntVar(&walks, "walks", 100, "number of walks")
	f.IntVar(&bins, "bins", 20, "histogram bins")
	f.Int64Var(&seed, "seed", 0, "random seed (0 = unseeded)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
}
