package analysis

import (
	"math"

	"github.com/san-kum/episim/internal/epi"
)

// Peak returns the maximum of compartment idx over the trajectory and the
// simulated time (seconds from run start) at which it occurs.
func Peak(states []epi.State, times []float64, idx int) (peak, at float64) {
	if len(states) == 0 || idx >= len(states[0]) {
		return 0, 0
	}
	peak = states[0][idx]
	at = times[0]
	for i, x := range states {
		if x[idx] > peak {
			peak = x[idx]
			at = times[i]
		}
	}
	return peak, at
}

// FinalSize returns the value of compartment idx at the last sample.
func FinalSize(states []epi.State, idx int) float64 {
	if len(states) == 0 || idx >= len(states[0]) {
		return 0
	}
	return states[len(states)-1][idx]
}

// DoublingTime estimates the early-outbreak doubling time of compartment
// idx by a least-squares fit of ln(x) against t over the initial growth
// window (samples up to the observed peak). It returns 0 when the series
// never grows.
func DoublingTime(states []epi.State, times []float64, idx int) float64 {
	if len(states) < 2 || idx >= len(states[0]) {
		return 0
	}

	end := 0
	peak := states[0][idx]
	for i, x := range states {
		if x[idx] > peak {
			peak = x[idx]
			end = i
		}
	}
	if end < 2 {
		return 0
	}

	// Fit ln(x) = a + r*t on [0, end]; doubling time is ln(2)/r.
	var n, sumT, sumY, sumTT, sumTY float64
	for i := 0; i <= end; i++ {
		v := states[i][idx]
		if v <= 0 {
			continue
		}
		t := times[i]
		y := math.Log(v)
		n++
		sumT += t
		sumY += y
		sumTT += t * t
		sumTY += t * y
	}
	if n < 2 {
		return 0
	}

	denom := n*sumTT - sumT*sumT
	if denom == 0 {
		return 0
	}
	r := (n*sumTY - sumT*sumY) / denom
	if r <= 0 {
		return 0
	}
	return math.Ln2 / r
}

// HerdImmunityThreshold returns the classic 1 - 1/R0 immunity fraction
// above which an outbreak cannot sustain itself, or 0 when R0 <= 1.
func HerdImmunityThreshold(r0 float64) float64 {
	if r0 <= 1 {
		return 0
	}
	return 1 - 1/r0
}
