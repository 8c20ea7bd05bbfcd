package workflow

import (
	"context"
	"sync"

	"evtsweep/internal/types"
)

// Runner fans the workflow out over the host list. Hosts are independent, so
// the only shared state is the run log (mutex-serialized) and the outcome
// slice, which each worker writes at its own index. Outcomes always come back
// in input order regardless of concurrency, keeping the report deterministic.
type Runner struct {
	wf      *Workflow
	workers int
}

// NewRunner creates a Runner. workers below 2 means strictly sequential
// processing in list order, the default behavior.
func NewRunner(wf *Workflow, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{wf: wf, workers: workers}
}

// Run processes every host and returns exactly one outcome per input entry,
// duplicates included.
func (r *Runner) Run(ctx context.Context, hosts []string) []types.HostOutcome {
	outcomes := make([]types.HostOutcome, len(hosts))

	if r.workers == 1 {
		for i, host := range hosts {
			outcomes[i] = r.wf.RunHost(ctx, host)
		}
		return outcomes
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = r.wf.RunHost(ctx, hosts[i])
			}
		}()
	}
	for i := range hosts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return outcomes
}
