package models

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/episim/internal/epi"
)

func testSIRParams() map[string]float64 {
	return map[string]float64{"beta": 0.0002, "gamma": 0.0001, "N": 1e7}
}

func testSIRInit() map[string]float64 {
	return map[string]float64{"S": 1e7 - 1, "I": 1, "R": 0}
}

func TestSIR_R0(t *testing.T) {
	m, err := NewSIR(testSIRParams(), testSIRInit())
	if err != nil {
		t.Fatalf("NewSIR failed: %v", err)
	}

	if got := m.R0(); got != 2.0 {
		t.Errorf("R0 = %v, want 2.0", got)
	}
}

func TestSIR_DerivSumZero(t *testing.T) {
	m, err := NewSIR(testSIRParams(), testSIRInit())
	if err != nil {
		t.Fatalf("NewSIR failed: %v", err)
	}

	states := []epi.State{
		{1e7 - 1, 1, 0},
		{5e6, 4e6, 1e6},
		{0, 1e7, 0},
	}

	for _, x := range states {
		dx := m.Deriv(x)
		if sum := dx.Sum(); math.Abs(sum) > 1e-9 {
			t.Errorf("derivative sum for %v = %e, want 0", x, sum)
		}
	}
}

func TestSIR_DerivSumZeroWithVitalDynamics(t *testing.T) {
	// dI = -dS - dR holds instantaneously even when Lambda != mu shifts
	// population through S and R.
	params := testSIRParams()
	params["Lambda"] = 2e-5
	params["mu"] = 1e-5
	m, err := NewSIR(params, testSIRInit())
	if err != nil {
		t.Fatalf("NewSIR failed: %v", err)
	}

	dx := m.Deriv(epi.State{5e6, 4e6, 1e6})
	if sum := dx.Sum(); math.Abs(sum) > 1e-6 {
		t.Errorf("derivative sum = %e, want 0", sum)
	}
}

func TestSIR_VitalDynamicsDefaultToZero(t *testing.T) {
	m, err := NewSIR(testSIRParams(), testSIRInit())
	if err != nil {
		t.Fatalf("NewSIR failed: %v", err)
	}

	p := m.GetParams()
	if p["Lambda"] != 0 || p["mu"] != 0 {
		t.Errorf("Lambda=%v mu=%v, want both 0", p["Lambda"], p["mu"])
	}
}

func TestSIR_Deriv(t *testing.T) {
	m, err := NewSIR(testSIRParams(), testSIRInit())
	if err != nil {
		t.Fatalf("NewSIR failed: %v", err)
	}

	x := epi.State{1e7 - 1, 1, 0}
	dx := m.Deriv(x)

	wantDS := -0.0002 * 1 * (1e7 - 1) / 1e7
	wantDR := 0.0001 * 1

	if math.Abs(dx[0]-wantDS) > 1e-12 {
		t.Errorf("dS = %v, want %v", dx[0], wantDS)
	}
	if math.Abs(dx[2]-wantDR) > 1e-12 {
		t.Errorf("dR = %v, want %v", dx[2], wantDR)
	}
	if math.Abs(dx[1]-(-wantDS-wantDR)) > 1e-12 {
		t.Errorf("dI = %v, want %v", dx[1], -wantDS-wantDR)
	}
}

func TestSIR_MissingParam(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]float64
	}{
		{"no beta", map[string]float64{"gamma": 0.0001, "N": 1e7}},
		{"no gamma", map[string]float64{"beta": 0.0002, "N": 1e7}},
		{"no N", map[string]float64{"beta": 0.0002, "gamma": 0.0001}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSIR(tt.params, testSIRInit())
			if !errors.Is(err, epi.ErrMissingParam) {
				t.Errorf("expected ErrMissingParam, got %v", err)
			}
		})
	}
}

func TestSIR_MissingCompartment(t *testing.T) {
	_, err := NewSIR(testSIRParams(), map[string]float64{"S": 1e7 - 1, "I": 1})
	if !errors.Is(err, epi.ErrMissingCompartment) {
		t.Errorf("expected ErrMissingCompartment, got %v", err)
	}

	var keyErr *epi.KeyError
	if !errors.As(err, &keyErr) || keyErr.Key != "R" {
		t.Errorf("expected KeyError for R, got %v", err)
	}
}

func TestSIR_InitialIsACopy(t *testing.T) {
	m, err := NewSIR(testSIRParams(), testSIRInit())
	if err != nil {
		t.Fatalf("NewSIR failed: %v", err)
	}

	x := m.Initial()
	x[0] = -1

	if got := m.Initial()[0]; got != 1e7-1 {
		t.Errorf("stored initial condition mutated: S = %v", got)
	}
}

func TestSIR_SetParam(t *testing.T) {
	m, err := NewSIR(testSIRParams(), testSIRInit())
	if err != nil {
		t.Fatalf("NewSIR failed: %v", err)
	}

	if err := m.SetParam("beta", 0.0004); err != nil {
		t.Fatalf("SetParam failed: %v", err)
	}
	if got := m.R0(); got != 4.0 {
		t.Errorf("R0 after SetParam = %v, want 4.0", got)
	}

	if err := m.SetParam("nope", 1.0); !errors.Is(err, epi.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}
