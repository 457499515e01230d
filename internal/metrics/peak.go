package metrics

import "github.com/san-kum/episim/internal/epi"

// PeakInfected tracks the maximum of one compartment (conventionally I)
// over a run, and the simulated time at which it occurred.
type PeakInfected struct {
	name   string
	idx    int
	peak   float64
	peakAt float64
	seen   bool
}

func NewPeakInfected(idx int) *PeakInfected {
	return &PeakInfected{
		name: "peak_infected",
		idx:  idx,
	}
}

func (p *PeakInfected) Name() string { return p.name }

func (p *PeakInfected) Observe(x epi.State, t float64) {
	if p.idx >= len(x) {
		return
	}
	if !p.seen || x[p.idx] > p.peak {
		p.peak = x[p.idx]
		p.peakAt = t
		p.seen = true
	}
}

func (p *PeakInfected) Value() float64 { return p.peak }

// PeakTime returns the simulated time (seconds from run start) of the peak.
func (p *PeakInfected) PeakTime() float64 { return p.peakAt }

func (p *PeakInfected) Reset() {
	p.peak = 0
	p.peakAt = 0
	p.seen = false
}
