package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/numreach/internal/engine"
	"github.com/roach88/numreach/internal/expr"
	"github.com/roach88/numreach/internal/trace"
)

// Harness runs scenarios against an engine configuration.
type Harness struct {
	logger *slog.Logger
	opts   []engine.EngineOption
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger passed to the engine. The default discards
// engine logs so scenario output stays readable.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// WithEngineOptions appends engine options applied to every scenario,
// before the scenario's own budget and state cap.
func WithEngineOptions(opts ...engine.EngineOption) Option {
	return func(h *Harness) {
		h.opts = append(h.opts, opts...)
	}
}

// New creates a Harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default Harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(context.Background(), scenario)
}

// Run solves the scenario's puzzle in a fresh engine session and evaluates
// its assertions.
//
// The returned error is reserved for scenarios that cannot run at all;
// failed assertions are reported in Result.Errors.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	budget, err := scenario.BudgetDuration()
	if err != nil {
		return nil, fmt.Errorf("budget: %w", err)
	}

	opts := append([]engine.EngineOption{engine.WithLogger(h.logger)}, h.opts...)
	if budget > 0 {
		opts = append(opts, engine.WithBudget(budget))
	}
	if scenario.MaxStates > 0 {
		opts = append(opts, engine.WithMaxStates(scenario.MaxStates))
	}

	search, err := engine.New(opts...).Solve(ctx, scenario.Request())
	if err != nil {
		return nil, fmt.Errorf("failed to solve: %w", err)
	}

	result := NewResult()
	result.Search = search
	if item := Featured(search); item != nil {
		result.Steps = trace.Build(item)
	}

	for _, msg := range EvaluateAssertions(search, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// Featured returns the item a result is presented by: the best solution,
// else the closest item, else nil.
func Featured(res *engine.Result) *expr.Item {
	if best := res.Best(); best != nil {
		return best
	}
	return res.Closest
}
