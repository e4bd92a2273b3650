package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Outcome pairs one input with its result or error. A per-document error
// never aborts the rest of the batch.
type Outcome struct {
	Source string
	Result Result
	Err    error
}

// ProcessBatch runs inputs concurrently, bounded by workers, and returns one
// Outcome per input in input order.
func (p *Processor) ProcessBatch(ctx context.Context, inputs []Input, workers int) []Outcome {
	if workers <= 0 {
		workers = 1
	}

	sem := semaphore.NewWeighted(int64(workers))
	outcomes := make([]Outcome, len(inputs))
	var wg sync.WaitGroup

	for i, in := range inputs {
		if err := sem.Acquire(ctx, 1); err != nil {
			// context cancelled: record the error for the remaining inputs
			for j := i; j < len(inputs); j++ {
				outcomes[j] = Outcome{Source: inputs[j].Source, Err: err}
			}
			break
		}
		wg.Add(1)
		go func(i int, in Input) {
			defer wg.Done()
			defer sem.Release(1)
			res, err := p.Process(ctx, in)
			outcomes[i] = Outcome{Source: in.Source, Result: res, Err: err}
		}(i, in)
	}

	wg.Wait()
	return outcomes
}
