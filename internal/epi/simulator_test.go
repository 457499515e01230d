package epi

import (
	"context"
	"errors"
	"math"
	"testing"
)

// decayModel is a one-compartment exponential decay, dX/dt = -X.
type decayModel struct {
	init State
}

func (d *decayModel) Name() string           { return "decay" }
func (d *decayModel) Compartments() []string { return []string{"X"} }
func (d *decayModel) Deriv(x State) State    { return State{-x[0]} }
func (d *decayModel) R0() float64            { return 0 }
func (d *decayModel) Initial() State         { return d.init.Clone() }

type eulerStepper struct{}

func (eulerStepper) Step(m Model, x State, dt float64) State {
	dx := m.Deriv(x)
	out := make(State, len(x))
	for i := range x {
		out[i] = x[i] + dt*dx[i]
	}
	return out
}

func TestSimulatorRun(t *testing.T) {
	sim := New(&decayModel{init: State{1.0}}, eulerStepper{})

	cfg := Config{Samples: 11, Dt: 0.1}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}
	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}

	final := result.Final()[0]
	expected := math.Exp(-1.0)
	if math.Abs(final-expected) > 0.2 {
		t.Errorf("expected final state ~%.4f, got %.4f", expected, final)
	}
}

func TestSimulatorRun_SingleSample(t *testing.T) {
	sim := New(&decayModel{init: State{1.0}}, eulerStepper{})

	result, err := sim.Run(context.Background(), Config{Samples: 1, Dt: 0.1})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 1 {
		t.Fatalf("expected 1 state, got %d", len(result.States))
	}
	if result.States[0][0] != 1.0 {
		t.Errorf("sample 0 = %v, want the untouched initial condition", result.States[0])
	}
}

func TestSimulatorRun_InitialIdentity(t *testing.T) {
	model := &decayModel{init: State{42.0}}
	sim := New(model, eulerStepper{})

	result, err := sim.Run(context.Background(), Config{Samples: 5, Dt: 0.5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.States[0][0] != 42.0 {
		t.Errorf("sample 0 = %v, want 42.0 exactly", result.States[0][0])
	}
	if model.init[0] != 42.0 {
		t.Errorf("run mutated the stored initial condition: %v", model.init)
	}

	// Mutating the returned trajectory must not reach the model either.
	result.States[0][0] = -1
	if model.init[0] != 42.0 {
		t.Error("trajectory aliases the stored initial condition")
	}
}

func TestSimulatorRun_Deterministic(t *testing.T) {
	sim := New(&decayModel{init: State{1.0}}, eulerStepper{})
	cfg := Config{Samples: 50, Dt: 0.01}

	a, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	b, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	for i := range a.States {
		if a.States[i][0] != b.States[i][0] {
			t.Fatalf("runs diverge at sample %d: %v vs %v", i, a.States[i], b.States[i])
		}
	}
}

func TestSimulatorRun_InvalidConfig(t *testing.T) {
	sim := New(&decayModel{init: State{1.0}}, eulerStepper{})

	for _, samples := range []int{0, -1} {
		_, err := sim.Run(context.Background(), Config{Samples: samples, Dt: 0.1})
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("samples=%d: expected ErrInvalidConfig, got %v", samples, err)
		}
	}
}

func TestSimulatorRun_ContextCanceled(t *testing.T) {
	sim := New(&decayModel{init: State{1.0}}, eulerStepper{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sim.Run(ctx, Config{Samples: 1000, Dt: 0.1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || len(result.States) == 0 {
		t.Error("expected the partial trajectory up to cancellation")
	}
}

type countingMetric struct {
	count int
}

func (c *countingMetric) Name() string               { return "count" }
func (c *countingMetric) Observe(x State, t float64) { c.count++ }
func (c *countingMetric) Value() float64             { return float64(c.count) }
func (c *countingMetric) Reset()                     { c.count = 0 }

func TestSimulatorMetrics(t *testing.T) {
	sim := New(&decayModel{init: State{1.0}}, eulerStepper{})

	metric := &countingMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), Config{Samples: 10, Dt: 0.1})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got, ok := result.Metrics["count"]; !ok || got != 10 {
		t.Errorf("metric observed %v samples, want 10", got)
	}

	// A second run resets the metric rather than accumulating.
	result, err = sim.Run(context.Background(), Config{Samples: 10, Dt: 0.1})
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if got := result.Metrics["count"]; got != 10 {
		t.Errorf("metric after second run = %v, want 10", got)
	}
}

func TestCompartmentIndex(t *testing.T) {
	m := &decayModel{init: State{1.0}}

	if got := CompartmentIndex(m, "X"); got != 0 {
		t.Errorf("CompartmentIndex(X) = %d, want 0", got)
	}
	if got := CompartmentIndex(m, "I"); got != -1 {
		t.Errorf("CompartmentIndex(I) = %d, want -1", got)
	}
}

func TestEnsemble_IdenticalResults(t *testing.T) {
	m := &decayModel{init: State{1.0}}
	ens := NewEnsemble(m, func() Stepper { return eulerStepper{} }, 8)

	results, err := ens.Run(context.Background(), Config{Samples: 100, Dt: 0.01})
	if err != nil {
		t.Fatalf("ensemble run failed: %v", err)
	}

	if len(results) != 8 {
		t.Fatalf("expected 8 results, got %d", len(results))
	}

	ref := results[0]
	for n, r := range results[1:] {
		for i := range ref.States {
			if r.States[i][0] != ref.States[i][0] {
				t.Fatalf("run %d diverges at sample %d", n+1, i)
			}
		}
	}
}

// scratchStepper is a two-stage midpoint scheme with a reusable scratch
// buffer, like the RK family. Sharing one instance across goroutines would
// corrupt trajectories, so the ensemble must build one per run.
type scratchStepper struct {
	scratch State
}

func (s *scratchStepper) Step(m Model, x State, dt float64) State {
	if len(s.scratch) != len(x) {
		s.scratch = make(State, len(x))
	}
	dx := m.Deriv(x)
	for i := range x {
		s.scratch[i] = x[i] + 0.5*dt*dx[i]
	}
	mid := m.Deriv(s.scratch)
	out := make(State, len(x))
	for i := range x {
		out[i] = x[i] + dt*mid[i]
	}
	return out
}

func TestEnsemble_StatefulStepperPerRun(t *testing.T) {
	m := &decayModel{init: State{1.0}}
	cfg := Config{Samples: 500, Dt: 0.01}

	ref, err := New(m, &scratchStepper{}).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("reference run failed: %v", err)
	}

	ens := NewEnsemble(m, func() Stepper { return &scratchStepper{} }, 8)
	results, err := ens.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("ensemble run failed: %v", err)
	}

	for n, r := range results {
		for i := range ref.States {
			if r.States[i][0] != ref.States[i][0] {
				t.Fatalf("run %d diverges from the serial reference at sample %d", n, i)
			}
		}
	}
}

func TestParallelFor_CoversRange(t *testing.T) {
	hits := make([]int32, 1000)
	ParallelFor(len(hits), 10, 4, func(start, end int) {
		for i := start; i < end; i++ {
			hits[i]++
		}
	})

	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d visited %d times", i, h)
		}
	}
}
