package epi

import (
	"errors"
	"fmt"
)

// Domain errors for model construction and simulation runs.
var (
	// ErrMissingParam indicates a required rate parameter was absent at
	// model construction. Required rates are never defaulted silently.
	ErrMissingParam = errors.New("epi: missing required parameter")

	// ErrMissingCompartment indicates an initial condition without a
	// required compartment.
	ErrMissingCompartment = errors.New("epi: missing required compartment")

	// ErrUnknownParam indicates a parameter name the model does not have.
	ErrUnknownParam = errors.New("epi: unknown parameter")

	// ErrNotImplemented indicates a capability invoked on the placeholder
	// base model rather than a concrete variant.
	ErrNotImplemented = errors.New("epi: not implemented")

	// ErrInvalidConfig indicates a run config that cannot produce a
	// trajectory.
	ErrInvalidConfig = errors.New("epi: invalid run config")
)

// KeyError wraps a missing-key condition with the model and key name.
type KeyError struct {
	Model   string
	Key     string
	Wrapped error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%s (model %s, key %q)", e.Wrapped.Error(), e.Model, e.Key)
}

func (e *KeyError) Unwrap() error {
	return e.Wrapped
}
