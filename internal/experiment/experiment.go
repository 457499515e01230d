package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/episim/internal/epi"
)

// Config fully names one scenario: which model, which scheme, which
// parameters, and the sampling grid.
type Config struct {
	Model      string
	Integrator string
	Params     map[string]float64
	Init       map[string]float64
	Samples    int
	DtSecs     float64
	Start      time.Time
}

type Experiment struct {
	cfg       Config
	model     epi.Model
	simulator *epi.Simulator
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup resolves the config against the registry and wires the default
// metrics. Construction errors (unknown names, missing parameters)
// surface here, before any integration happens.
func (e *Experiment) Setup(registry *Registry) error {
	model, err := registry.GetModel(e.cfg.Model, e.cfg.Params, e.cfg.Init)
	if err != nil {
		return err
	}

	stepper, err := registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}

	e.model = model
	e.simulator = epi.New(model, stepper)
	for _, m := range DefaultMetrics(model) {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*epi.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not set up")
	}

	return e.simulator.Run(ctx, epi.Config{
		Samples: e.cfg.Samples,
		Dt:      e.cfg.DtSecs,
		Start:   e.cfg.Start,
	})
}

func (e *Experiment) Model() epi.Model { return e.model }

// Simulator exposes the underlying simulator for adding observers.
func (e *Experiment) Simulator() *epi.Simulator { return e.simulator }
