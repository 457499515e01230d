package epi

import (
	"context"
	"sync"
)

// Ensemble runs the same model several times concurrently. Each run gets its
// own Simulator, its own state accumulator, and its own stepper from the
// factory; steppers may carry scratch buffers, so one instance must never be
// shared across runs. The model is read-only for the duration, so no
// synchronization on it is needed.
type Ensemble struct {
	model   Model
	stepper func() Stepper
	numRuns int
}

func NewEnsemble(m Model, stepper func() Stepper, numRuns int) *Ensemble {
	return &Ensemble{model: m, stepper: stepper, numRuns: numRuns}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			s := New(e.model, e.stepper())
			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// ParallelFor executes fn over [0, n) split across worker goroutines.
// Chunks smaller than minChunk run inline.
func ParallelFor(n, minChunk, numWorkers int, fn func(start, end int)) {
	if n <= minChunk || numWorkers <= 1 {
		fn(0, n)
		return
	}

	workers := numWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
