package worker

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/numreach/internal/engine"
)

// Job is one named puzzle in a batch.
type Job struct {
	Name    string
	Request engine.Request
}

// Outcome is the result of one Job. Err is set when the engine rejected
// the request; Result is nil in that case.
type Outcome struct {
	Job    Job
	Result *engine.Result
	Err    error
}

// Batch solves jobs concurrently with at most workers searches running at
// once. Each search gets its own engine session. Outcomes are returned in
// job order. A per-job error does not stop the batch; the returned error
// is non-nil only when ctx ends before every job has started.
//
// workers <= 0 selects runtime.GOMAXPROCS(0).
func Batch(ctx context.Context, solver Solver, jobs []Job, workers int) ([]Outcome, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]Outcome, len(jobs))
	for i, job := range jobs {
		outcomes[i].Job = job
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i].Err = err
				return err
			}
			res, err := solver.Solve(gctx, job.Request)
			outcomes[i].Result, outcomes[i].Err = res, err
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	if err := ctx.Err(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}
