package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/numreach/internal/engine"
	"github.com/roach88/numreach/internal/expr"
	"github.com/roach88/numreach/internal/puzzle"
	"github.com/roach88/numreach/internal/trace"
	"github.com/roach88/numreach/internal/worker"
)

// SearchOptions are the engine flags shared by solve and batch.
type SearchOptions struct {
	Budget    time.Duration
	MaxStates int
	Prune     float64
	Database  string

	// Clock overrides the engine clock. Tests use it for deterministic
	// timeouts.
	Clock engine.Clock
}

func (o *SearchOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&o.Budget, "budget", 0, "time budget per search (default 10s, 20s for 5+ numbers)")
	cmd.Flags().IntVar(&o.MaxStates, "max-states", 0, "stop after expanding this many states (0 = unlimited)")
	cmd.Flags().Float64Var(&o.Prune, "prune", 0, "skip intermediates larger than this multiple of the target (0 = off)")
	cmd.Flags().StringVar(&o.Database, "db", "", "record runs in this SQLite database")
}

func (o *SearchOptions) newEngine(logger *slog.Logger) *engine.Engine {
	opts := []engine.EngineOption{engine.WithLogger(logger)}
	if o.Budget > 0 {
		opts = append(opts, engine.WithBudget(o.Budget))
	}
	if o.MaxStates > 0 {
		opts = append(opts, engine.WithMaxStates(o.MaxStates))
	}
	if o.Prune > 0 {
		opts = append(opts, engine.WithPruneFactor(o.Prune))
	}
	if o.Clock != nil {
		opts = append(opts, engine.WithClock(o.Clock))
	}
	return engine.New(opts...)
}

// SolveOptions holds flags for the solve command.
type SolveOptions struct {
	*RootOptions
	SearchOptions
	Target int
	Level  int
	All    bool // list every solution
	LaTeX  bool // spell multiplication as \times in steps
}

// ItemView is the display form of one expression.
type ItemView struct {
	Text       string  `json:"text"`
	Value      string  `json:"value"`
	Complexity float64 `json:"complexity"`
}

// SolveReport is the data payload of the solve command.
type SolveReport struct {
	Request   engine.Request `json:"request"`
	Status    engine.Status  `json:"status"`
	Solutions []ItemView     `json:"solutions"`
	Closest   *ItemView      `json:"closest,omitempty"`
	Steps     []string       `json:"steps"`
	Stats     engine.Stats   `json:"stats"`
	RunID     string         `json:"run_id,omitempty"`
}

// NewSolveCommand creates the solve command.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "solve <number>... --target <n>",
		Short: "Search for expressions reaching a target",
		Long: `Search for expressions that use every input number exactly once and
evaluate to the target. Prints the simplest solution's derivation, or the
closest integer result when no exact solution exists.

Levels:
  0 - add, subtract, multiply, divide
  1 - adds exponents
  2 - adds nth roots, square roots and double square roots
  3 - adds factorial and summation

Below level 2 a fraction may only be formed while another item of the
state is already fractional.

Exit codes:
  0 - Exact solution found
  1 - No exact solution, or the search failed
  2 - Command error (bad arguments, database errors)

Examples:
  numreach solve 1 3 4 6 --target 24 --level 2
  numreach solve 2 2 --target 4 --all
  numreach solve 1 1 1 1 --target 100 --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(opts, args, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Target, "target", "t", 0, "target value (required)")
	cmd.Flags().IntVarP(&opts.Level, "level", "l", 0, "operator level 0-3")
	cmd.Flags().BoolVar(&opts.All, "all", false, "list every solution")
	cmd.Flags().BoolVar(&opts.LaTeX, "latex", false, `write multiplication as \times`)
	opts.addFlags(cmd)
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

// parseNumbers converts positional arguments to integers.
func parseNumbers(args []string) ([]int, error) {
	numbers := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %q is not an integer", i+1, arg)
		}
		numbers[i] = n
	}
	return numbers, nil
}

// signalContext returns the command context, cancelled on SIGINT/SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runSolve(opts *SolveOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	numbers, err := parseNumbers(args)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidRequest, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid arguments", err)
	}
	req := engine.Request{Numbers: numbers, Target: opts.Target, Level: opts.Level}

	if verrs := puzzle.Validate(req, puzzle.ModeAny); len(verrs) > 0 {
		_ = formatter.Error(ErrCodeInvalidRequest, verrs[0].Error(), verrs)
		return NewExitError(ExitCommandError, "invalid request")
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	formatter.VerboseLog("Solving %v -> %d at level %d", numbers, opts.Target, opts.Level)
	runner := worker.NewRunner(opts.newEngine(logger), worker.WithRunnerLogger(logger))
	res, err := runner.Submit(ctx, req)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidRequest, err.Error(), nil)
		return WrapExitError(ExitCommandError, "search rejected", err)
	}

	report := newSolveReport(req, res, opts.LaTeX)

	if opts.Database != "" {
		ids, err := recordRuns(ctx, opts.Database, logger, recordable{req, res})
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		report.RunID = ids[0]
	}

	if !formatter.JSON() {
		renderSolve(formatter, report, opts.All)
	}

	switch {
	case res.Status == engine.StatusFailed:
		msg := "calculation too complex or unexpected error"
		if err := formatter.Failure(report, ErrCodeSearchFailed, msg); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	case len(res.Solutions) == 0:
		msg := "no exact solution"
		if err := formatter.Failure(report, ErrCodeNoSolution, msg); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}

	if formatter.JSON() {
		return formatter.Success(report)
	}
	return nil
}

func newItemView(it *expr.Item) ItemView {
	return ItemView{Text: it.Text, Value: expr.FormatNumber(it.Value), Complexity: it.Complexity}
}

func newSolveReport(req engine.Request, res *engine.Result, latex bool) *SolveReport {
	report := &SolveReport{
		Request:   req,
		Status:    res.Status,
		Solutions: make([]ItemView, 0, len(res.Solutions)),
		Steps:     []string{},
		Stats:     res.Stats,
	}
	for _, s := range res.Solutions {
		report.Solutions = append(report.Solutions, newItemView(s))
	}

	featured := res.Best()
	if featured == nil && res.Closest != nil {
		featured = res.Closest
		view := newItemView(res.Closest)
		report.Closest = &view
	}
	if featured != nil {
		for _, step := range trace.Build(featured) {
			if latex {
				step = trace.LaTeX(step)
			}
			report.Steps = append(report.Steps, step)
		}
	}
	return report
}

func renderSolve(f *OutputFormatter, r *SolveReport, all bool) {
	w := f.Writer
	p := f.Printer()

	switch {
	case r.Status == engine.StatusFailed:
		fmt.Fprintln(w, "Calculation too complex or unexpected error.")
		return
	case len(r.Solutions) > 0:
		fmt.Fprintf(w, "Solution: %s = %d\n", r.Solutions[0].Text, r.Request.Target)
	case r.Closest != nil:
		fmt.Fprintln(w, "No exact solution.")
		fmt.Fprintf(w, "Closest: %s = %s\n", r.Closest.Text, r.Closest.Value)
	default:
		fmt.Fprintln(w, "No solution found.")
	}

	if len(r.Steps) > 0 {
		fmt.Fprintln(w, "Steps:")
		for _, step := range r.Steps {
			fmt.Fprintf(w, "  %s\n", step)
		}
	}

	if all && len(r.Solutions) > 1 {
		p.Fprintf(w, "All %d solutions:\n", len(r.Solutions))
		for i, s := range r.Solutions {
			fmt.Fprintf(w, "  [%d] %s (complexity %s)\n", i+1, s.Text, strconv.FormatFloat(s.Complexity, 'f', -1, 64))
		}
	}

	if r.Status.Partial() {
		fmt.Fprintf(w, "Search stopped early (%s); results may be incomplete.\n", r.Status)
	}
	p.Fprintf(w, "Searched %d states in %v.\n", r.Stats.States, r.Stats.Elapsed.Round(time.Millisecond))
	if r.RunID != "" {
		fmt.Fprintf(w, "Recorded run %s\n", r.RunID)
	}
}
