package epi

import (
	"math"
	"time"
)

// State holds one value per compartment, in the order reported by the
// model's Compartments method.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Sum returns the total population across all compartments.
func (s State) Sum() float64 {
	total := 0.0
	for _, v := range s {
		total += v
	}
	return total
}

// Model is a compartmental epidemic model with bound parameters and a bound
// initial condition. Implementations must not mutate their parameters or
// initial condition during Deriv; the simulator treats them as read-only.
type Model interface {
	Name() string
	Compartments() []string
	// Deriv returns dX/dt for the given state. The returned slice is newly
	// allocated and matches the compartment order.
	Deriv(x State) State
	// R0 returns the basic reproduction number, computed in closed form
	// from the model parameters alone.
	R0() float64
	// Initial returns a copy of the bound initial condition.
	Initial() State
}

// Configurable is implemented by models whose rate parameters can be
// inspected and adjusted at runtime, e.g. by the live view.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Stepper advances a state by one fixed step of size dt seconds.
type Stepper interface {
	Step(m Model, x State, dt float64) State
}

// Metric accumulates a summary statistic over the samples of one run.
type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

// Observer is notified of every emitted sample.
type Observer interface {
	OnSample(x State, t float64)
}

// CompartmentIndex returns the index of the named compartment in m's state
// vector, or -1 when the model has no such compartment.
func CompartmentIndex(m Model, name string) int {
	for i, c := range m.Compartments() {
		if c == name {
			return i
		}
	}
	return -1
}

// Config controls a single run.
type Config struct {
	// Samples is the number of emitted samples including the initial one.
	Samples int
	// Dt is the step size in seconds. Any sign is legal; epidemic runs
	// conventionally use a positive step.
	Dt float64
	// Start labels sample zero. The zero value means the Unix epoch.
	Start time.Time
}

func DefaultConfig() Config {
	return Config{
		Samples: 100,
		Dt:      3600,
	}
}

// Result is the trajectory of one run. States[0] equals the model's initial
// condition exactly; Times[i] is i*Dt seconds after Start.
type Result struct {
	States  []State
	Times   []float64
	Start   time.Time
	Dt      float64
	Metrics map[string]float64
}

// Timestamp returns the label of sample i: Start + i*Dt seconds.
func (r *Result) Timestamp(i int) time.Time {
	return r.Start.Add(time.Duration(r.Times[i] * float64(time.Second)))
}

// Final returns the last sample of the trajectory.
func (r *Result) Final() State {
	return r.States[len(r.States)-1]
}

// Series extracts the time series of one compartment index.
func (r *Result) Series(idx int) []float64 {
	out := make([]float64, len(r.States))
	for i, s := range r.States {
		out[i] = s[idx]
	}
	return out
}
