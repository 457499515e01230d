package models

import (
	"fmt"

	"github.com/san-kum/episim/internal/epi"
)

// SEIR extends SIR with an exposed (incubating) compartment:
// S -> E -> I -> R. Incubation ends at rate a, the inverse of the mean
// incubation period under an exponential distribution.
//
// Required parameters: beta, gamma, N, mu, lambda, a. All are required;
// SEIR has no optional rates.
type SEIR struct {
	beta   float64
	gamma  float64
	n      float64
	mu     float64
	lambda float64
	a      float64
	init   epi.State
}

func NewSEIR(params, init map[string]float64) (*SEIR, error) {
	if err := requireParams("seir", params, "beta", "gamma", "N", "mu", "lambda", "a"); err != nil {
		return nil, err
	}
	if err := requireCompartments("seir", init, "S", "E", "I", "R"); err != nil {
		return nil, err
	}
	return &SEIR{
		beta:   params["beta"],
		gamma:  params["gamma"],
		n:      params["N"],
		mu:     params["mu"],
		lambda: params["lambda"],
		a:      params["a"],
		init:   epi.State{init["S"], init["E"], init["I"], init["R"]},
	}, nil
}

func (m *SEIR) Name() string           { return "seir" }
func (m *SEIR) Compartments() []string { return []string{"S", "E", "I", "R"} }
func (m *SEIR) Initial() epi.State     { return m.init.Clone() }
func (m *SEIR) Population() float64    { return m.n }

// Deriv computes dE/dt as -dI/dt - dR/dt - dS/dt, closing the derivative
// sum at exactly zero.
func (m *SEIR) Deriv(x epi.State) epi.State {
	s, e, i, r := x[0], x[1], x[2], x[3]
	dS := (m.lambda-m.mu)*s - m.beta*i*s/m.n
	dR := m.gamma*i - m.mu*r
	dI := m.a*e - (m.gamma+m.mu)*i
	dE := -dI - dR - dS
	return epi.State{dS, dE, dI, dR}
}

// R0 = (a/(mu+a)) * (beta/(mu+gamma)).
func (m *SEIR) R0() float64 {
	return m.a * m.beta / ((m.mu + m.a) * (m.mu + m.gamma))
}

func (m *SEIR) GetParams() map[string]float64 {
	return map[string]float64{
		"beta":   m.beta,
		"gamma":  m.gamma,
		"N":      m.n,
		"mu":     m.mu,
		"lambda": m.lambda,
		"a":      m.a,
	}
}

func (m *SEIR) SetParam(name string, value float64) error {
	switch name {
	case "beta":
		m.beta = value
	case "gamma":
		m.gamma = value
	case "N":
		m.n = value
	case "mu":
		m.mu = value
	case "lambda":
		m.lambda = value
	case "a":
		m.a = value
	default:
		return fmt.Errorf("%w: %q", epi.ErrUnknownParam, name)
	}
	return nil
}
