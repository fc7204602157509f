package engine

import (
	"cmp"
	"context"
	"log/slog"
	"math"
	"runtime/debug"
	"slices"
	"time"

	"github.com/roach88/numreach/internal/expr"
	"github.com/roach88/numreach/internal/ops"
)

// Default time budgets. Five-input puzzles have a much larger state space
// and get the longer one.
const (
	DefaultBudget      = 10 * time.Second
	DefaultLargeBudget = 20 * time.Second
	largePuzzleSize    = 5
)

// DefaultBudgetFor returns the time budget for a puzzle with n inputs.
func DefaultBudgetFor(n int) time.Duration {
	if n >= largePuzzleSize {
		return DefaultLargeBudget
	}
	return DefaultBudget
}

// Request is one puzzle: reach Target from Numbers using the operators
// Level allows. Every number must be used exactly once.
type Request struct {
	Numbers []int `json:"numbers"`
	Target  int   `json:"target"`
	Level   int   `json:"level"`
}

func (r Request) validate() error {
	if len(r.Numbers) == 0 {
		return NewInvalidRequestError("at least one number is required")
	}
	if r.Level < int(ops.LevelBasic) || r.Level > int(ops.MaxLevel) {
		return NewInvalidRequestError("level %d out of range [%d, %d]", r.Level, ops.LevelBasic, ops.MaxLevel)
	}
	return nil
}

// Status describes how a search ended.
type Status string

const (
	// StatusComplete means the whole state space was explored.
	StatusComplete Status = "complete"

	// StatusTimedOut means the time budget or the context deadline ran out.
	StatusTimedOut Status = "timed_out"

	// StatusCancelled means the context was cancelled.
	StatusCancelled Status = "cancelled"

	// StatusStateLimit means the configured state cap was reached.
	StatusStateLimit Status = "state_limit"

	// StatusFailed means the search faulted. The result carries no
	// solutions and no closest item.
	StatusFailed Status = "failed"

	statusRunning Status = ""
)

// Partial reports whether the search stopped before exploring everything
// but still returned valid results.
func (s Status) Partial() bool {
	return s == StatusTimedOut || s == StatusCancelled || s == StatusStateLimit
}

// Stats counts the work a search did.
type Stats struct {
	States    int           `json:"states"`
	MemoHits  int           `json:"memo_hits"`
	Terminals int           `json:"terminals"`
	Elapsed   time.Duration `json:"elapsed_ns"`
}

// Result is the outcome of one search.
//
// Solutions hit the target within expr.Tolerance and are ordered by
// ascending complexity. Closest is the integer-valued terminal item nearest
// to the target, or nil when none was produced; it is only tracked for
// terminals that are not solutions.
type Result struct {
	Solutions []*expr.Item `json:"solutions"`
	Closest   *expr.Item   `json:"closest"`
	Status    Status       `json:"status"`
	Fault     error        `json:"-"`
	Stats     Stats        `json:"stats"`
}

// Best returns the lowest-complexity solution, or nil.
func (r *Result) Best() *expr.Item {
	if len(r.Solutions) == 0 {
		return nil
	}
	return r.Solutions[0]
}

// Engine runs searches. It holds configuration only; every Solve call gets
// its own session, so one Engine may serve concurrent callers.
type Engine struct {
	clock       Clock
	budget      time.Duration // 0 selects DefaultBudgetFor
	maxStates   int
	pruneFactor float64
	logger      *slog.Logger
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithBudget overrides the per-search time budget.
func WithBudget(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.budget = d
	}
}

// WithClock sets the clock used for the time budget.
func WithClock(c Clock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithMaxStates caps the number of expanded states per search.
// Zero means unlimited.
func WithMaxStates(n int) EngineOption {
	return func(e *Engine) {
		e.maxStates = n
	}
}

// WithPruneFactor discards intermediate items whose magnitude exceeds
// f times max(|target|, 1). Zero disables pruning.
//
// Pruning trades completeness for speed: a solution that passes through a
// large intermediate value, such as 6!/30, is no longer found.
func WithPruneFactor(f float64) EngineOption {
	return func(e *Engine) {
		e.pruneFactor = f
	}
}

// WithLogger sets the logger for search lifecycle events.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine.
func New(opts ...EngineOption) *Engine {
	e := &Engine{
		clock:  SystemClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Solve searches for every expression over req.Numbers that reaches
// req.Target.
//
// The returned error is non-nil only for a request the engine cannot
// search. Running out of time, cancellation and internal faults all produce
// a Result: see Result.Status.
func (e *Engine) Solve(ctx context.Context, req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	limit := e.budget
	if limit <= 0 {
		limit = DefaultBudgetFor(len(req.Numbers))
	}

	s := &session{
		target:      float64(req.Target),
		level:       ops.Level(req.Level),
		budget:      newBudget(ctx, e.clock, limit, e.maxStates),
		memo:        newMemo(),
		byParent:    make(map[string]int),
		texts:       make(map[string]struct{}),
		closestDist: math.Inf(1),
	}
	if e.pruneFactor > 0 {
		s.pruneAbove = e.pruneFactor * math.Max(math.Abs(s.target), 1)
	}

	e.logger.Debug("search started",
		"event", "search_start",
		"numbers", req.Numbers,
		"target", req.Target,
		"level", req.Level,
		"budget", limit,
	)

	// The memo keeps the first derivation of each state, so leaves start in
	// canonical order.
	leaves := make([]*expr.Item, len(req.Numbers))
	for i, n := range req.Numbers {
		leaves[i] = expr.Leaf(n)
	}
	slices.SortFunc(leaves, func(a, b *expr.Item) int {
		return cmp.Or(cmp.Compare(a.Value, b.Value), cmp.Compare(a.Text, b.Text))
	})

	status, fault := e.run(s, leaves)
	res := s.result(status)
	res.Fault = fault
	res.Stats.Elapsed = s.budget.elapsed()

	if fault != nil {
		e.logger.Error("search failed",
			"event", "search_fault",
			"numbers", req.Numbers,
			"target", req.Target,
			"error", fault,
		)
	}
	e.logger.Debug("search finished",
		"event", "search_stop",
		"status", res.Status,
		"solutions", len(res.Solutions),
		"states", res.Stats.States,
		"memo_hits", res.Stats.MemoHits,
		"elapsed", res.Stats.Elapsed,
	)
	return res, nil
}

// run drives the session and contains any panic raised inside it.
func (e *Engine) run(s *session, leaves []*expr.Item) (status Status, fault error) {
	defer func() {
		if r := recover(); r != nil {
			status = StatusFailed
			fault = NewInternalFault(r, debug.Stack())
		}
	}()

	status = s.find(leaves, "")
	if status == statusRunning {
		status = StatusComplete
	}
	return status, nil
}
