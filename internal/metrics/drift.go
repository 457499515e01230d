package metrics

import "github.com/san-kum/episim/internal/epi"

// PopulationDrift tracks the largest relative deviation of total population
// from its value at sample zero. For models without vital dynamics this is
// pure integration error and should stay near machine precision.
type PopulationDrift struct {
	name     string
	baseline float64
	maxDrift float64
	seen     bool
}

func NewPopulationDrift() *PopulationDrift {
	return &PopulationDrift{name: "population_drift"}
}

func (d *PopulationDrift) Name() string { return d.name }

func (d *PopulationDrift) Observe(x epi.State, t float64) {
	total := x.Sum()
	if !d.seen {
		d.baseline = total
		d.seen = true
		return
	}
	if d.baseline == 0 {
		return
	}
	drift := (total - d.baseline) / d.baseline
	if drift < 0 {
		drift = -drift
	}
	if drift > d.maxDrift {
		d.maxDrift = drift
	}
}

func (d *PopulationDrift) Value() float64 { return d.maxDrift }

func (d *PopulationDrift) Reset() {
	d.baseline = 0
	d.maxDrift = 0
	d.seen = false
}
