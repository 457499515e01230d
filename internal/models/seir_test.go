package models

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/episim/internal/epi"
)

const day = 24 * 3600.0

func testSEIRParams() map[string]float64 {
	return map[string]float64{
		"beta":   1 / (3 * day),
		"gamma":  1 / (14 * day),
		"a":      1 / (14 * day),
		"mu":     0,
		"lambda": 0,
		"N":      66.44e6,
	}
}

func testSEIRInit() map[string]float64 {
	return map[string]float64{"S": 66.44e6 - 1, "E": 0, "I": 1, "R": 0}
}

func TestSEIR_R0(t *testing.T) {
	m, err := NewSEIR(testSEIRParams(), testSEIRInit())
	if err != nil {
		t.Fatalf("NewSEIR failed: %v", err)
	}

	if got := m.R0(); math.Abs(got-4.666666666666667) > 1e-9 {
		t.Errorf("R0 = %v, want ~4.6666667", got)
	}
}

func TestSEIR_R0WithMortality(t *testing.T) {
	params := testSEIRParams()
	params["mu"] = 1 / (70 * 365 * day)
	m, err := NewSEIR(params, testSEIRInit())
	if err != nil {
		t.Fatalf("NewSEIR failed: %v", err)
	}

	a, beta, gamma, mu := params["a"], params["beta"], params["gamma"], params["mu"]
	want := a * beta / ((mu + a) * (mu + gamma))
	if got := m.R0(); math.Abs(got-want) > 1e-12 {
		t.Errorf("R0 = %v, want %v", got, want)
	}
}

func TestSEIR_DerivSumZero(t *testing.T) {
	m, err := NewSEIR(testSEIRParams(), testSEIRInit())
	if err != nil {
		t.Fatalf("NewSEIR failed: %v", err)
	}

	states := []epi.State{
		{66.44e6 - 1, 0, 1, 0},
		{3e7, 1e6, 2e6, 3.344e7},
	}

	for _, x := range states {
		dx := m.Deriv(x)
		if sum := dx.Sum(); math.Abs(sum) > 1e-9 {
			t.Errorf("derivative sum for %v = %e, want 0", x, sum)
		}
	}
}

func TestSEIR_IncubationFlow(t *testing.T) {
	m, err := NewSEIR(testSEIRParams(), testSEIRInit())
	if err != nil {
		t.Fatalf("NewSEIR failed: %v", err)
	}

	// With everyone exposed and nobody infectious, infections grow at a*E.
	x := epi.State{0, 1000, 0, 0}
	dx := m.Deriv(x)

	wantDI := testSEIRParams()["a"] * 1000
	if math.Abs(dx[2]-wantDI) > 1e-12 {
		t.Errorf("dI = %v, want %v", dx[2], wantDI)
	}
}

func TestSEIR_AllParamsRequired(t *testing.T) {
	for _, key := range []string{"beta", "gamma", "N", "mu", "lambda", "a"} {
		params := testSEIRParams()
		delete(params, key)
		_, err := NewSEIR(params, testSEIRInit())
		if !errors.Is(err, epi.ErrMissingParam) {
			t.Errorf("dropping %q: expected ErrMissingParam, got %v", key, err)
		}
	}
}
