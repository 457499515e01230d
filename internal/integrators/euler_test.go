package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/episim/internal/epi"
	"github.com/san-kum/episim/internal/models"
)

// growthModel is dX/dt = X, so one Euler step multiplies by (1 + dt).
type growthModel struct{}

func (growthModel) Name() string                { return "growth" }
func (growthModel) Compartments() []string      { return []string{"X"} }
func (growthModel) Deriv(x epi.State) epi.State { return epi.State{x[0]} }
func (growthModel) R0() float64                 { return 0 }
func (growthModel) Initial() epi.State          { return epi.State{1.0} }

func TestEuler_StepIsExactlyLinear(t *testing.T) {
	e := NewEuler()
	x := epi.State{2.0}

	got := e.Step(growthModel{}, x, 0.5)
	if got[0] != 3.0 {
		t.Errorf("Step = %v, want exactly 3.0", got[0])
	}

	// Negative steps are legal and run the dynamics backwards.
	got = e.Step(growthModel{}, x, -0.5)
	if got[0] != 1.0 {
		t.Errorf("Step with dt=-0.5 = %v, want exactly 1.0", got[0])
	}
}

func TestEuler_DoesNotMutateInput(t *testing.T) {
	e := NewEuler()
	x := epi.State{2.0}

	_ = e.Step(growthModel{}, x, 0.5)
	if x[0] != 2.0 {
		t.Errorf("input state mutated: %v", x)
	}
}

func TestEuler_ConservesSIRPopulation(t *testing.T) {
	m, err := models.NewSIR(
		map[string]float64{"beta": 0.0002, "gamma": 0.0001, "N": 1e7},
		map[string]float64{"S": 1e7 - 1, "I": 1, "R": 0},
	)
	if err != nil {
		t.Fatalf("NewSIR failed: %v", err)
	}

	e := NewEuler()
	x := m.Initial()
	for i := 0; i < 1000; i++ {
		x = e.Step(m, x, 3600)
	}

	if drift := math.Abs(x.Sum() - 1e7); drift > 1e-2 {
		t.Errorf("population drifted by %e over 1000 steps", drift)
	}
}

func TestRK4_MatchesEulerOrderOfMagnitude(t *testing.T) {
	m, err := models.NewSIS(
		map[string]float64{"beta": 0.0002, "gamma": 0.0001, "N": 1e7},
		map[string]float64{"S": 1e7 - 1, "I": 1},
	)
	if err != nil {
		t.Fatalf("NewSIS failed: %v", err)
	}

	euler := NewEuler()
	rk4 := NewRK4()

	xe := m.Initial()
	xr := m.Initial()
	for i := 0; i < 100; i++ {
		xe = euler.Step(m, xe, 3600)
		xr = rk4.Step(m, xr, 3600)
	}

	// Both head toward the same endemic equilibrium.
	if math.Abs(xe[1]-xr[1]) > 0.05*1e7 {
		t.Errorf("Euler and RK4 diverge: I=%v vs %v", xe[1], xr[1])
	}

	if drift := math.Abs(xr.Sum() - 1e7); drift > 1e-2 {
		t.Errorf("RK4 population drifted by %e", drift)
	}
}
