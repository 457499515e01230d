package metrics

import "github.com/san-kum/episim/internal/epi"

// AttackRate reports the fraction of the population in one compartment
// (conventionally R) at the last observed sample.
type AttackRate struct {
	name string
	idx  int
	n    float64
	last float64
}

func NewAttackRate(idx int, n float64) *AttackRate {
	return &AttackRate{
		name: "attack_rate",
		idx:  idx,
		n:    n,
	}
}

func (a *AttackRate) Name() string { return a.name }

func (a *AttackRate) Observe(x epi.State, t float64) {
	if a.idx >= len(x) {
		return
	}
	a.last = x[a.idx]
}

func (a *AttackRate) Value() float64 {
	if a.n == 0 {
		return 0
	}
	return a.last / a.n
}

func (a *AttackRate) Reset() {
	a.last = 0
}
