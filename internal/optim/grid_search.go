package optim

import (
	"context"
	"math"
	"runtime"

	"github.com/san-kum/episim/internal/epi"
	"github.com/san-kum/episim/internal/experiment"
)

// GridSearch sweeps rate parameters over a cartesian grid and scores each
// point by one run metric, e.g. minimizing peak_infected over candidate
// intervention strengths.
type GridSearch struct {
	paramNames []string
	values     [][]float64
}

func NewGridSearch(params []string, values [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, values: values}
}

// Range builds n evenly spaced values across [min, max] inclusive.
func Range(min, max float64, n int) []float64 {
	if n < 2 {
		return []float64{min}
	}
	out := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := range out {
		out[i] = min + float64(i)*step
	}
	return out
}

// Point is one evaluated grid cell.
type Point struct {
	Params map[string]float64
	Score  float64
	Err    error
}

// Search evaluates every grid point concurrently and returns all points
// plus the minimizing one. Each point gets its own experiment via build, so
// runs never share mutable state.
func (g *GridSearch) Search(
	ctx context.Context,
	build func(overrides map[string]float64) (*experiment.Experiment, error),
	metricName string,
) ([]Point, *Point, error) {

	grid := g.enumerate()
	points := make([]Point, len(grid))

	epi.ParallelFor(len(grid), 1, runtime.NumCPU(), func(start, end int) {
		for i := start; i < end; i++ {
			points[i] = evaluate(ctx, grid[i], build, metricName)
		}
	})

	best := -1
	bestScore := math.Inf(1)
	for i := range points {
		if points[i].Err != nil {
			continue
		}
		if points[i].Score < bestScore {
			bestScore = points[i].Score
			best = i
		}
	}

	if best < 0 {
		// Every cell failed; surface the first error.
		for i := range points {
			if points[i].Err != nil {
				return points, nil, points[i].Err
			}
		}
		return points, nil, nil
	}

	return points, &points[best], nil
}

func evaluate(
	ctx context.Context,
	overrides map[string]float64,
	build func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
) Point {
	p := Point{Params: overrides}

	exp, err := build(overrides)
	if err != nil {
		p.Err = err
		return p
	}

	result, err := exp.Run(ctx)
	if err != nil {
		p.Err = err
		return p
	}

	p.Score = result.Metrics[metricName]
	return p
}

func (g *GridSearch) enumerate() []map[string]float64 {
	grid := []map[string]float64{{}}

	for depth, name := range g.paramNames {
		next := make([]map[string]float64, 0, len(grid)*len(g.values[depth]))
		for _, base := range grid {
			for _, v := range g.values[depth] {
				point := make(map[string]float64, len(base)+1)
				for k, bv := range base {
					point[k] = bv
				}
				point[name] = v
				next = append(next, point)
			}
		}
		grid = next
	}

	return grid
}
