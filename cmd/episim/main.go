package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/episim/internal/config"
	"github.com/san-kum/episim/internal/experiment"
	"github.com/san-kum/episim/internal/optim"
)

var (
	dataDir    string
	samples    int
	dtSecs     float64
	integrator string
	configFile string
	preset     string
	startLabel string
	paramFlags []string
	initFlags  []string
	// Phase plot axes
	xAxis string
	yAxis string
	// Live view
	stepsPerTick int
	// Concurrent runs per bench cell
	numRuns int
	// Sweep specs, e.g. beta=0.0001:0.0003:5
	sweepFlags []string
)

// defaultPresets name the scenario used when a model is run without
// explicit parameters.
var defaultPresets = map[string]string{
	"sir":  "baseline",
	"seir": "influenza",
	"sis":  "endemic",
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "episim",
		Short: "compartmental epidemic simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".episim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run simulation",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot compartment curves",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase plane plot",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&xAxis, "x", "S", "compartment for x-axis")
	phaseCmd.Flags().StringVar(&yAxis, "y", "I", "compartment for y-axis")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "epidemic curve analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	r0Cmd := &cobra.Command{
		Use:   "r0 [model]",
		Short: "basic reproduction number and herd-immunity threshold",
		Args:  cobra.ExactArgs(1),
		RunE:  showR0,
	}
	addScenarioFlags(r0Cmd)

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "run simulation with live visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerTick, "speed", 4, "integration steps per frame")

	benchCmd := &cobra.Command{
		Use:   "bench [model]",
		Short: "benchmark model",
		Args:  cobra.ExactArgs(1),
		RunE:  benchModel,
	}
	benchCmd.Flags().IntVar(&numRuns, "runs", 1, "concurrent ensemble runs per cell")

	compareCmd := &cobra.Command{
		Use:   "compare [model] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scenario",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addScenarioFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "grid-sweep parameters, minimizing peak infections",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepFlags, "sweep", nil, "sweep spec name=min:max:n (repeatable)")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, phaseCmd, analyzeCmd, exportCmd,
		exportCSVCmd, exportJSONCmd, presetsCmd, r0Cmd, liveCmd, benchCmd,
		compareCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "number of samples including the initial one")
	cmd.Flags().Float64Var(&dtSecs, "dt", config.DefaultDtSecs, "timestep in seconds")
	cmd.Flags().StringVar(&integrator, "integrator", "euler", "integration scheme")
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a named preset scenario")
	cmd.Flags().StringVar(&startLabel, "start", "", "timestamp of sample zero (RFC3339, default epoch)")
	cmd.Flags().StringArrayVar(&paramFlags, "param", nil, "parameter override name=value (repeatable)")
	cmd.Flags().StringArrayVar(&initFlags, "init", nil, "initial compartment override name=value (repeatable)")
}

// resolveScenario merges preset, config file, and flags into one scenario,
// with CLI flags taking precedence over the file and the file over the
// preset.
func resolveScenario(cmd *cobra.Command, model string) (*config.Config, error) {
	name := preset
	if name == "" {
		name = defaultPresets[model]
	}
	cfg := config.GetPreset(model, name)
	if cfg == nil {
		if preset != "" {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		cfg = config.DefaultConfig()
		cfg.Model = model
	}

	// Copy so flag overrides never mutate the shared preset table.
	resolved := &config.Config{
		Model:      cfg.Model,
		Integrator: cfg.Integrator,
		Samples:    cfg.Samples,
		DtSecs:     cfg.DtSecs,
		Start:      cfg.Start,
		Params:     map[string]float64{},
		Init:       map[string]float64{},
	}
	for k, v := range cfg.Params {
		resolved.Params[k] = v
	}
	for k, v := range cfg.Init {
		resolved.Init[k] = v
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		resolved = fileCfg
	}

	if cmd.Flags().Changed("samples") {
		resolved.Samples = samples
	}
	if cmd.Flags().Changed("dt") {
		resolved.DtSecs = dtSecs
	}
	if cmd.Flags().Changed("integrator") {
		resolved.Integrator = integrator
	}
	if cmd.Flags().Changed("start") {
		resolved.Start = startLabel
	}

	overrides, err := parseKV(paramFlags)
	if err != nil {
		return nil, err
	}
	for k, v := range overrides {
		resolved.Params[k] = v
	}

	initOverrides, err := parseKV(initFlags)
	if err != nil {
		return nil, err
	}
	for k, v := range initOverrides {
		resolved.Init[k] = v
	}

	return resolved, nil
}

func parseKV(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("expected name=value, got %q", pair)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value in %q: %w", pair, err)
		}
		out[name] = v
	}
	return out, nil
}

// parseSweep parses a sweep spec of the form name=min:max:n into the
// parameter name and its grid of values.
func parseSweep(spec string) (string, []float64, error) {
	name, raw, ok := strings.Cut(spec, "=")
	if !ok {
		return "", nil, fmt.Errorf("expected name=min:max:n, got %q", spec)
	}
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("expected name=min:max:n, got %q", spec)
	}
	min, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("invalid min in %q: %w", spec, err)
	}
	max, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("invalid max in %q: %w", spec, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("invalid count in %q", spec)
	}
	return name, optim.Range(min, max, n), nil
}

func buildExperiment(cfg *config.Config) (*experiment.Experiment, error) {
	start, err := cfg.StartTime()
	if err != nil {
		return nil, err
	}

	init := cfg.Init
	if len(init) == 0 {
		init = experiment.DefaultInit(cfg.Model, cfg.Params)
	}

	exp := experiment.New(experiment.Config{
		Model:      cfg.Model,
		Integrator: cfg.Integrator,
		Params:     cfg.Params,
		Init:       init,
		Samples:    cfg.Samples,
		DtSecs:     cfg.DtSecs,
		Start:      start,
	})
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return nil, err
	}
	return exp, nil
}
