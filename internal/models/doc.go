// Package models provides compartmental epidemic model variants.
//
// Each variant implements the [epi.Model] interface, defining the
// differential equations governing the outbreak:
//
//   - [SIR]: susceptible -> infected -> recovered, optional vital dynamics
//   - [SEIR]: adds an exposed (incubating) compartment
//   - [SIS]: infection without immunity
//
// All variants also implement [epi.Configurable] for runtime parameter
// adjustment by the live view.
//
// Variants are constructed from name-keyed parameter and initial-condition
// maps; required keys are validated at construction and a missing key fails
// with [epi.ErrMissingParam] or [epi.ErrMissingCompartment].
package models
