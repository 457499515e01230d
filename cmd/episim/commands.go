package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/episim/internal/analysis"
	"github.com/san-kum/episim/internal/epi"
	"github.com/san-kum/episim/internal/experiment"
	"github.com/san-kum/episim/internal/optim"
	"github.com/san-kum/episim/internal/storage"
	"github.com/san-kum/episim/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveScenario(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := buildExperiment(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("running %s simulation...\n", cfg.Model)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	model := exp.Model()
	runID, err := st.Save(storage.RunMetadata{
		Model:        cfg.Model,
		Compartments: model.Compartments(),
		Integrator:   cfg.Integrator,
		R0:           model.R0(),
		Params:       cfg.Params,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(result.States))
	fmt.Printf("R0: %.4f\n", model.R0())
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tSAVED\tSAMPLES\tDT\tINTEG\tR0")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.0fs\t%s\t%.3f\n",
			run.ID,
			run.Model,
			run.Saved.Format("2006-01-02 15:04:05"),
			run.Samples,
			run.DtSecs,
			run.Integrator,
			run.R0,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(states))

	for idx, name := range meta.Compartments {
		data := make([]float64, len(states))
		for i := range states {
			if idx < len(states[i]) {
				data[i] = states[i][idx]
			}
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s vs time", name)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	xIdx := compartmentIndex(meta.Compartments, xAxis)
	yIdx := compartmentIndex(meta.Compartments, yAxis)
	if xIdx < 0 || yIdx < 0 {
		return fmt.Errorf("model %s has no %s-%s plane (compartments: %v)",
			meta.Model, xAxis, yAxis, meta.Compartments)
	}

	portrait := analysis.NewPhasePortrait(states, xIdx, yIdx, xAxis, yAxis)
	if portrait == nil {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("phase plane: %s\n", meta.ID)
	fmt.Printf("x: %s, y: %s\n\n", xAxis, yAxis)
	fmt.Print(portrait.ASCII(70, 20))
	fmt.Println("\nLegend: . = early, o = middle, • = late")

	return nil
}

func compartmentIndex(compartments []string, name string) int {
	for i, c := range compartments {
		if c == name {
			return i
		}
	}
	return -1
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("epidemic analysis: %s\n", meta.ID)
	fmt.Printf("model: %s\n\n", meta.Model)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	iIdx := compartmentIndex(meta.Compartments, "I")
	if iIdx >= 0 {
		peak, at := analysis.Peak(states, times, iIdx)
		fmt.Fprintf(w, "peak infected\t%.1f\n", peak)
		fmt.Fprintf(w, "peak at\t%.1f days\n", at/86400)

		if doubling := analysis.DoublingTime(states, times, iIdx); doubling > 0 {
			fmt.Fprintf(w, "doubling time\t%.2f days\n", doubling/86400)
		}
	}

	rIdx := compartmentIndex(meta.Compartments, "R")
	if rIdx >= 0 && meta.Params["N"] > 0 {
		final := analysis.FinalSize(states, rIdx)
		fmt.Fprintf(w, "final size\t%.1f\n", final)
		fmt.Fprintf(w, "attack rate\t%.2f%%\n", 100*final/meta.Params["N"])
	}

	fmt.Fprintf(w, "R0\t%.4f\n", meta.R0)
	if hit := analysis.HerdImmunityThreshold(meta.R0); hit > 0 {
		fmt.Fprintf(w, "herd immunity at\t%.2f%%\n", 100*hit)
	}

	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	return storage.ExportCSV(os.Stdout, meta, states, times)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, meta, states, times)
}

func showR0(cmd *cobra.Command, args []string) error {
	cfg, err := resolveScenario(cmd, args[0])
	if err != nil {
		return err
	}

	exp, err := buildExperiment(cfg)
	if err != nil {
		return err
	}

	r0 := exp.Model().R0()
	fmt.Printf("R0: %.6f\n", r0)
	if hit := analysis.HerdImmunityThreshold(r0); hit > 0 {
		fmt.Printf("herd immunity threshold: %.2f%%\n", 100*hit)
	} else {
		fmt.Println("R0 <= 1: outbreak cannot sustain itself")
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveScenario(cmd, args[0])
	if err != nil {
		return err
	}

	exp, err := buildExperiment(cfg)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	stepper, err := registry.GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}

	m := viz.NewModel(exp.Model(), stepper, cfg.DtSecs, stepsPerTick)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func benchModel(cmd *cobra.Command, args []string) error {
	model := args[0]

	cfg, err := resolveScenario(cmd, model)
	if err != nil {
		return err
	}

	sampleCounts := []int{1000, 10000, 100000}
	dts := []float64{60, 3600, 86400}
	runs := numRuns
	if runs < 1 {
		runs = 1
	}

	registry := experiment.NewRegistry()

	fmt.Printf("benchmarking %s\n\n", model)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SAMPLES\tDT\tRUNS\tTIME\tSAMPLES/SEC")

	for _, n := range sampleCounts {
		for _, dt := range dts {
			runCfg := *cfg
			runCfg.Samples = n
			runCfg.DtSecs = dt

			exp, err := buildExperiment(&runCfg)
			if err != nil {
				return err
			}

			start := time.Now()
			totalSamples := 0
			if runs > 1 {
				// Setup already validated the integrator name; each run
				// gets a fresh instance from the registry.
				factory := func() epi.Stepper {
					s, _ := registry.GetIntegrator(runCfg.Integrator)
					return s
				}
				ens := epi.NewEnsemble(exp.Model(), factory, runs)
				results, err := ens.Run(context.Background(), epi.Config{Samples: n, Dt: dt})
				if err != nil {
					return err
				}
				for _, r := range results {
					totalSamples += len(r.States)
				}
			} else {
				result, err := exp.Run(context.Background())
				if err != nil {
					return err
				}
				totalSamples = len(result.States)
			}
			elapsed := time.Since(start)

			perSec := float64(totalSamples) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%.0fs\t%d\t%v\t%.0f\n", n, dt, runs, elapsed, perSec)
		}
	}

	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveScenario(cmd, args[0])
	if err != nil {
		return err
	}
	schemes := args[1:]

	fmt.Printf("comparing integrators for %s (dt=%.0fs, samples=%d)\n\n",
		cfg.Model, cfg.DtSecs, cfg.Samples)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL I\tPOP DRIFT\tTIME")

	for _, scheme := range schemes {
		runCfg := *cfg
		runCfg.Integrator = scheme

		exp, err := buildExperiment(&runCfg)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", scheme, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", scheme, err)
			continue
		}

		finalI := 0.0
		if idx := epi.CompartmentIndex(exp.Model(), "I"); idx >= 0 {
			finalI = result.Final()[idx]
		}

		fmt.Fprintf(w, "%s\t%.2f\t%.2e\t%v\n",
			scheme, finalI, result.Metrics["population_drift"], elapsed)
	}

	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveScenario(cmd, args[0])
	if err != nil {
		return err
	}

	if len(sweepFlags) == 0 {
		return fmt.Errorf("at least one --sweep name=min:max:n is required")
	}

	names := make([]string, 0, len(sweepFlags))
	values := make([][]float64, 0, len(sweepFlags))
	for _, spec := range sweepFlags {
		name, vals, err := parseSweep(spec)
		if err != nil {
			return err
		}
		names = append(names, name)
		values = append(values, vals)
	}

	build := func(overrides map[string]float64) (*experiment.Experiment, error) {
		runCfg := *cfg
		runCfg.Params = make(map[string]float64, len(cfg.Params))
		for k, v := range cfg.Params {
			runCfg.Params[k] = v
		}
		for k, v := range overrides {
			runCfg.Params[k] = v
		}
		return buildExperiment(&runCfg)
	}

	gs := optim.NewGridSearch(names, values)
	points, best, err := gs.Search(context.Background(), build, "peak_infected")
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := ""
	for _, name := range names {
		header += name + "\t"
	}
	fmt.Fprintln(w, header+"PEAK INFECTED")

	for _, p := range points {
		row := ""
		for _, name := range names {
			row += fmt.Sprintf("%.6g\t", p.Params[name])
		}
		if p.Err != nil {
			fmt.Fprintf(w, "%serror: %v\n", row, p.Err)
			continue
		}
		fmt.Fprintf(w, "%s%.2f\n", row, p.Score)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best != nil {
		fmt.Printf("\nbest: %v (peak %.2f)\n", best.Params, best.Score)
	}
	return nil
}
