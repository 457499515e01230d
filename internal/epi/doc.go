// Package epi provides core primitives for compartmental epidemic simulation.
//
// The package defines the fundamental interfaces and types for fixed-step
// numerical integration of compartmental ODE models (dX/dt = f(X)):
//
//   - [State]: vector of compartment sizes at one instant
//   - [Model]: a compartmental model binding parameters and initial condition
//   - [Stepper]: numerical integrator interface
//   - [Simulator]: orchestrates simulation runs
//
// # Example
//
//	m, _ := models.NewSIR(params, init)
//	sim := epi.New(m, integrators.NewEuler())
//	result, _ := sim.Run(ctx, epi.DefaultConfig())
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For concurrent runs of the same
// model, use the [Ensemble] type; models are read-only during a run, so an
// Ensemble may share one model across goroutines.
package epi
