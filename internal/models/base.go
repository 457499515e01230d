package models

import "github.com/san-kum/episim/internal/epi"

// Unimplemented is a placeholder for embedding in partially written model
// variants. Deriv and R0 panic with [epi.ErrNotImplemented] so that a
// variant missing its own derivative or reproduction-number logic fails
// loudly the moment it is exercised.
type Unimplemented struct{}

func (Unimplemented) Deriv(epi.State) epi.State {
	panic(epi.ErrNotImplemented)
}

func (Unimplemented) R0() float64 {
	panic(epi.ErrNotImplemented)
}
