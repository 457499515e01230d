package models

import (
	"fmt"

	"github.com/san-kum/episim/internal/epi"
)

// SIS models infection without immunity: S <-> I, recovered individuals
// return directly to the susceptible pool. With no vital dynamics the total
// S + I stays exactly at N for every sample.
//
// Required parameters: beta, gamma, N.
type SIS struct {
	beta  float64
	gamma float64
	n     float64
	init  epi.State
}

func NewSIS(params, init map[string]float64) (*SIS, error) {
	if err := requireParams("sis", params, "beta", "gamma", "N"); err != nil {
		return nil, err
	}
	if err := requireCompartments("sis", init, "S", "I"); err != nil {
		return nil, err
	}
	return &SIS{
		beta:  params["beta"],
		gamma: params["gamma"],
		n:     params["N"],
		init:  epi.State{init["S"], init["I"]},
	}, nil
}

func (m *SIS) Name() string           { return "sis" }
func (m *SIS) Compartments() []string { return []string{"S", "I"} }
func (m *SIS) Initial() epi.State     { return m.init.Clone() }
func (m *SIS) Population() float64    { return m.n }

func (m *SIS) Deriv(x epi.State) epi.State {
	s, i := x[0], x[1]
	dS := m.gamma*i - m.beta*i*s/m.n
	dI := -dS
	return epi.State{dS, dI}
}

// R0 = beta/gamma.
func (m *SIS) R0() float64 { return m.beta / m.gamma }

func (m *SIS) GetParams() map[string]float64 {
	return map[string]float64{
		"beta":  m.beta,
		"gamma": m.gamma,
		"N":     m.n,
	}
}

func (m *SIS) SetParam(name string, value float64) error {
	switch name {
	case "beta":
		m.beta = value
	case "gamma":
		m.gamma = value
	case "N":
		m.n = value
	default:
		return fmt.Errorf("%w: %q", epi.ErrUnknownParam, name)
	}
	return nil
}
