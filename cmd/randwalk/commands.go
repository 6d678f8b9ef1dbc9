package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/san-kum/randwalk/internal/automation"
	"github.com/san-kum/randwalk/internal/config"
	"github.com/san-kum/randwalk/internal/experiment"
	"github.com/san-kum/randwalk/internal/export"
	"github.com/san-kum/randwalk/internal/logging"
	"github.com/san-kum/randwalk/internal/server"
	"github.com/san-kum/randwalk/internal/tui"
	"github.com/san-kum/randwalk/internal/viz"
	"github.com/san-kum/randwalk/internal/walk"
	"github.com/spf13/cobra"
)

// resolveConfig merges defaults, the config file, the preset and explicitly
// set flags, in increasing order of precedence.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" && !cfg.Apply(preset) {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	flags := cmd.Flags()
	if flags.Changed("kind") {
		k, err := walk.ParseKind(kind)
		if err != nil {
			return nil, err
		}
		cfg.Kind = k
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("start") {
		cfg.Start = start
	}
	if flags.Changed("drift") {
		cfg.Drift = drift
	}
	if flags.Changed("vol") {
		cfg.Volatility = vol
	}
	if flags.Changed("step-size") {
		cfg.StepSize = stepSize
	}
	if flags.Changed("walks") {
		cfg.Walks = walks
	}
	if flags.Changed("bins") {
		cfg.Bins = bins
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
}

// runExperiment resolves the config and runs a single experiment.
func runExperiment(cmd *cobra.Command) (*experiment.Result, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd, cfg)

	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return nil, fmt.Errorf("failed to save config: %w", err)
		}
		logger.Info("saved config", "path", saveConfig)
	}

	result, err := experiment.New(experiment.FromConfig(cfg)).Run()
	if err != nil {
		return nil, err
	}
	logger.Debug("generated",
		"id", result.ID,
		"kind", cfg.Kind,
		"walks", result.Batch.Len(),
		"steps", cfg.Steps,
		"seed", cfg.Seed,
		"elapsed", result.Elapsed,
	)
	if ctx := cmd.Context(); logger.Enabled(ctx, logging.LevelTrace) {
		for i, t := range result.Batch.Terminals() {
			logger.Log(ctx, logging.LevelTrace, "walk", "id", result.ID, "index", i, "terminal", t)
		}
	}
	return result, nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return tui.Run(cfg)
}

func runWalks(cmd *cobra.Command, args []string) error {
	result, err := runExperiment(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	theme := viz.DefaultTheme

	fmt.Fprintln(out, viz.PlotWalks(result.Batch, viz.PlotOptions{MaxSeries: maxSeries, Theme: theme}))
	fmt.Fprintln(out)
	if showEnvelope {
		fmt.Fprintln(out, viz.PlotEnvelope(result.Envelope, viz.PlotOptions{Theme: theme}))
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, viz.RenderHistogram(result.Summary.Histogram, 40, theme))
	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.SummaryPanel(result.Summary, result.Batch.Params, theme))
	return nil
}

func runHist(cmd *cobra.Command, args []string) error {
	result, err := runExperiment(cmd)
	if err != nil {
		return err
	}
	h := result.Summary.Histogram
	if histCSV {
		return export.WriteHistogramCSV(cmd.OutOrStdout(), h)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BIN\tLO\tHI\tCOUNT")
	for i, c := range h.Counts {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%d\n", i, h.Edges[i], h.Edges[i+1], c)
	}
	return w.Flush()
}

func runExportCSV(cmd *cobra.Command, args []string) error {
	result, err := runExperiment(cmd)
	if err != nil {
		return err
	}
	if envelopeCSV {
		return export.WriteEnvelopeCSV(cmd.OutOrStdout(), result.Envelope)
	}
	return export.WriteCSV(cmd.OutOrStdout(), result.Batch)
}

func runExportJSON(cmd *cobra.Command, args []string) error {
	result, err := runExperiment(cmd)
	if err != nil {
		return err
	}
	return export.WriteJSON(cmd.OutOrStdout(), result, !noWalks)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tSTEPS\tSTART\tDRIFT\tVOL\tSTEP\tWALKS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%g\t%g\t%g\t%d\n",
			name, p.Kind, p.Steps, p.Start, p.Drift, p.Volatility, p.StepSize, p.Walks)
	}
	return w.Flush()
}

func listKinds(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tDESCRIPTION")
	for _, k := range walk.Kinds() {
		fmt.Fprintf(w, "%s\t%s\n", k, k.Description())
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweep := &automation.ParameterSweep{
		Base:     cfg,
		Param:    args[0],
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepN,
	}
	results, err := automation.RunSweep(ctx, sweep, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMEAN\tSTD\tMIN\tMAX\n", sweep.Param)
	means := make([]float64, len(results))
	for i, r := range results {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n", r.Value, r.Mean, r.StdDev, r.Min, r.Max)
		means[i] = r.Mean
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(means) > 1 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, asciigraph.Plot(means,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("terminal mean vs %s", sweep.Param)),
		))
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := automation.RunScenario(ctx, sc, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if sc.Name != "" {
		fmt.Fprintf(out, "scenario: %s\n", sc.Name)
	}
	if sc.Description != "" {
		fmt.Fprintf(out, "%s\n", sc.Description)
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tKIND\tSTEPS\tWALKS\tMEAN\tSTD\tMEDIAN\tMIN\tMAX")
	for i, r := range results {
		label := sc.Runs[i].Label
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		s := r.Summary
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			label, r.Batch.Params.Kind, r.Batch.Params.Steps, s.Count,
			s.Mean, s.StdDev, s.Median, s.Min, s.Max)
	}
	return w.Flush()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("server defaults: %w", err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	logger := newLogger(cmd, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Server, cfg, logger, prometheus.NewRegistry())
	return srv.Run(ctx)
}
