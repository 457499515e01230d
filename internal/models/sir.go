package models

import (
	"fmt"

	"github.com/san-kum/episim/internal/epi"
)

// SIR models susceptible -> infected -> recovered dynamics, optionally with
// vital dynamics (births into S at rate Lambda, deaths from S and R at rate
// mu). With Lambda = mu = 0 total population is conserved; with unequal
// rates the birth/death terms inject or remove population through S and R.
//
// Required parameters: beta (contact rate, Hz), gamma (recovery rate, Hz),
// N (population count). Optional: Lambda, mu (both default to 0).
type SIR struct {
	beta   float64
	gamma  float64
	n      float64
	lambda float64
	mu     float64
	init   epi.State
}

// NewSIR validates parameters and initial compartments eagerly; a missing
// required key fails here, not at the first derivative evaluation.
func NewSIR(params, init map[string]float64) (*SIR, error) {
	if err := requireParams("sir", params, "beta", "gamma", "N"); err != nil {
		return nil, err
	}
	if err := requireCompartments("sir", init, "S", "I", "R"); err != nil {
		return nil, err
	}
	return &SIR{
		beta:   params["beta"],
		gamma:  params["gamma"],
		n:      params["N"],
		lambda: params["Lambda"],
		mu:     params["mu"],
		init:   epi.State{init["S"], init["I"], init["R"]},
	}, nil
}

func (m *SIR) Name() string           { return "sir" }
func (m *SIR) Compartments() []string { return []string{"S", "I", "R"} }
func (m *SIR) Initial() epi.State     { return m.init.Clone() }
func (m *SIR) Population() float64    { return m.n }

// Deriv computes dI/dt as -dS/dt - dR/dt, so the derivative sum is zero by
// construction even when vital dynamics shift population through S and R.
func (m *SIR) Deriv(x epi.State) epi.State {
	s, i, r := x[0], x[1], x[2]
	dS := (m.lambda-m.mu)*s - m.beta*i*s/m.n
	dR := m.gamma*i - m.mu*r
	dI := -dS - dR
	return epi.State{dS, dI, dR}
}

// R0 = beta/gamma.
func (m *SIR) R0() float64 { return m.beta / m.gamma }

func (m *SIR) GetParams() map[string]float64 {
	return map[string]float64{
		"beta":   m.beta,
		"gamma":  m.gamma,
		"N":      m.n,
		"Lambda": m.lambda,
		"mu":     m.mu,
	}
}

func (m *SIR) SetParam(name string, value float64) error {
	switch name {
	case "beta":
		m.beta = value
	case "gamma":
		m.gamma = value
	case "N":
		m.n = value
	case "Lambda":
		m.lambda = value
	case "mu":
		m.mu = value
	default:
		return fmt.Errorf("%w: %q", epi.ErrUnknownParam, name)
	}
	return nil
}
