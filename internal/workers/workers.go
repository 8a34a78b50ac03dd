package workers

import (
	"context"
	"sync"
)

// Workers runs a set of background workers as one unit.
type Workers struct {
	workers []Worker
}

// NewWorkers bundles the given workers.
func NewWorkers(ws ...Worker) *Workers {
	return &Workers{workers: ws}
}

// Run starts every worker on its own goroutine and blocks until all of them
// return, which they do when ctx is canceled.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, worker := range w.workers {
		wg.Add(1)
		go func(worker Worker) {
			defer wg.Done()
			worker.Run(ctx)
		}(worker)
	}
	wg.Wait()
}
