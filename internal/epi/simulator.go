package epi

import (
	"context"
	"fmt"
	"time"
)

// Simulator advances a model's state by repeated fixed steps of its stepper.
// It reads the model's parameters and initial condition but never mutates
// them; every run starts fresh from a copy of the initial condition.
type Simulator struct {
	model     Model
	stepper   Stepper
	metrics   []Metric
	observers []Observer
}

func New(m Model, stepper Stepper) *Simulator {
	return &Simulator{
		model:   m,
		stepper: stepper,
	}
}

func (s *Simulator) Model() Model { return s.model }

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run produces a trajectory of exactly cfg.Samples states. Sample zero is
// the model's initial condition with no integration applied; sample i>0 is
// the stepper's advance of sample i-1 by cfg.Dt seconds.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	start := cfg.Start
	if start.IsZero() {
		start = time.Unix(0, 0).UTC()
	}

	result := &Result{
		States:  make([]State, 0, cfg.Samples),
		Times:   make([]float64, 0, cfg.Samples),
		Start:   start,
		Dt:      cfg.Dt,
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := s.model.Initial().Clone()
	s.emit(result, x, 0)

	for i := 1; i < cfg.Samples; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		x = s.stepper.Step(s.model, x, cfg.Dt)
		s.emit(result, x, float64(i)*cfg.Dt)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) emit(result *Result, x State, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	for _, obs := range s.observers {
		obs.OnSample(x, t)
	}
	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Samples < 1 {
		return fmt.Errorf("%w: samples must be >= 1, got %d", ErrInvalidConfig, cfg.Samples)
	}
	return nil
}
