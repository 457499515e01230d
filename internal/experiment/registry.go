package experiment

import (
	"fmt"

	"github.com/san-kum/episim/internal/epi"
	"github.com/san-kum/episim/internal/integrators"
	"github.com/san-kum/episim/internal/metrics"
	"github.com/san-kum/episim/internal/models"
)

// Registry maps model and integrator names to their factories.
type Registry struct {
	models      map[string]func(params, init map[string]float64) (epi.Model, error)
	integrators map[string]func() epi.Stepper
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]func(params, init map[string]float64) (epi.Model, error)),
		integrators: make(map[string]func() epi.Stepper),
	}

	r.models["sir"] = func(params, init map[string]float64) (epi.Model, error) {
		return models.NewSIR(params, init)
	}
	r.models["seir"] = func(params, init map[string]float64) (epi.Model, error) {
		return models.NewSEIR(params, init)
	}
	r.models["sis"] = func(params, init map[string]float64) (epi.Model, error) {
		return models.NewSIS(params, init)
	}

	r.integrators["euler"] = func() epi.Stepper { return integrators.NewEuler() }
	r.integrators["rk4"] = func() epi.Stepper { return integrators.NewRK4() }

	return r
}

func (r *Registry) GetModel(name string, params, init map[string]float64) (epi.Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(params, init)
}

func (r *Registry) GetIntegrator(name string) (epi.Stepper, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	return names
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	return names
}

// DefaultInit derives a canonical initial condition from the population
// parameter: one infected, everyone else susceptible.
func DefaultInit(model string, params map[string]float64) map[string]float64 {
	n := params["N"]
	switch model {
	case "seir":
		return map[string]float64{"S": n - 1, "E": 0, "I": 1, "R": 0}
	case "sis":
		return map[string]float64{"S": n - 1, "I": 1}
	default:
		return map[string]float64{"S": n - 1, "I": 1, "R": 0}
	}
}

// DefaultMetrics attaches the standard epidemic summary metrics, resolving
// compartment indices from the model itself.
func DefaultMetrics(m epi.Model) []epi.Metric {
	out := []epi.Metric{metrics.NewPopulationDrift()}

	if idx := epi.CompartmentIndex(m, "I"); idx >= 0 {
		out = append(out, metrics.NewPeakInfected(idx))
	}
	if idx := epi.CompartmentIndex(m, "R"); idx >= 0 {
		if p, ok := m.(interface{ Population() float64 }); ok {
			out = append(out, metrics.NewAttackRate(idx, p.Population()))
		}
	}

	return out
}
