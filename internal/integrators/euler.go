package integrators

import "github.com/san-kum/episim/internal/epi"

// Euler is the forward (explicit) Euler scheme: x' = x + dt*f(x).
// It is the reference scheme for epidemic trajectories; runs are
// reproducible bit for bit.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(m epi.Model, x epi.State, dt float64) epi.State {
	dx := m.Deriv(x)
	result := make(epi.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
