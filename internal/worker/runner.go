package worker

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/roach88/numreach/internal/engine"
	"github.com/roach88/numreach/internal/expr"
)

// ErrSuperseded is returned to the caller of a search that was cancelled
// because a newer request was submitted to the same Runner.
var ErrSuperseded = errors.New("search superseded by a newer request")

// Solver runs one search. *engine.Engine implements it.
type Solver interface {
	Solve(ctx context.Context, req engine.Request) (*engine.Result, error)
}

type response struct {
	res *engine.Result
	err error
}

// Runner executes searches on a background goroutine, at most one at a
// time.
//
// Thread-safety model:
//   - Submit(): safe from any goroutine; a later call supersedes an earlier one
//   - Cancel(): safe from any goroutine
type Runner struct {
	solver Solver
	logger *slog.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets the logger for supersede and fault events.
func WithRunnerLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

// NewRunner creates a Runner around solver.
func NewRunner(solver Solver, opts ...RunnerOption) *Runner {
	r := &Runner{
		solver: solver,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Submit starts a search for req, cancelling any search still in flight,
// and blocks until it finishes.
//
// If another Submit supersedes this one, Submit returns ErrSuperseded at
// once without waiting for the abandoned search to unwind. Cancelling ctx
// stops the search cooperatively; the partial result is returned with
// status cancelled.
func (r *Runner) Submit(ctx context.Context, req engine.Request) (*engine.Result, error) {
	sctx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.logger.Debug("search superseded", "event", "search_superseded", "generation", r.gen)
	}
	r.gen++
	gen := r.gen
	r.cancel = cancel
	r.mu.Unlock()

	defer r.release(gen, cancel)

	done := make(chan response, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				fault := engine.NewInternalFault(p, debug.Stack())
				r.logger.Error("solver panicked", "event", "solver_fault", "error", fault)
				done <- response{res: failedResult(fault)}
			}
		}()
		res, err := r.solver.Solve(sctx, req)
		done <- response{res: res, err: err}
	}()

	select {
	case resp := <-done:
		if r.superseded(gen) {
			return nil, ErrSuperseded
		}
		return resp.res, resp.err
	case <-sctx.Done():
		if r.superseded(gen) {
			return nil, ErrSuperseded
		}
		resp := <-done
		return resp.res, resp.err
	}
}

// Cancel stops the in-flight search, if any. Its caller receives the
// partial result with status cancelled.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
}

// InFlight reports whether a search is running.
func (r *Runner) InFlight() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

func (r *Runner) superseded(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen != gen
}

func (r *Runner) release(gen uint64, cancel context.CancelFunc) {
	cancel()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen == gen {
		r.cancel = nil
	}
}

func failedResult(fault error) *engine.Result {
	return &engine.Result{
		Solutions: []*expr.Item{},
		Status:    engine.StatusFailed,
		Fault:     fault,
	}
}
