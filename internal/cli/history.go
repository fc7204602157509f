package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/numreach/internal/engine"
	"github.com/roach88/numreach/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	RunID    string // show one run with its solutions
}

// RunView is the display form of a recorded run.
type RunView struct {
	ID          string   `json:"id"`
	Seq         int64    `json:"seq"`
	Fingerprint string   `json:"fingerprint"`
	Numbers     []int    `json:"numbers"`
	Target      int      `json:"target"`
	Level       int      `json:"level"`
	Status      string   `json:"status"`
	Solutions   int      `json:"solutions"`
	Closest     string   `json:"closest,omitempty"`
	States      int      `json:"states"`
	ElapsedMS   int64    `json:"elapsed_ms"`
	Texts       []string `json:"texts,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history --db <path>",
		Short: "List recorded runs",
		Long: `List runs recorded with --db, most recent first.

Examples:
  numreach history --db ./numreach.db
  numreach history --db ./numreach.db --limit 5
  numreach history --db ./numreach.db --run <id>`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 = all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show a single run with its solutions")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	if opts.RunID != "" {
		run, err := st.ReadRun(ctx, opts.RunID)
		if errors.Is(err, store.ErrRunNotFound) {
			_ = formatter.Error(ErrCodeStore, fmt.Sprintf("run %s not found", opts.RunID), nil)
			return NewExitError(ExitFailure, "run not found")
		}
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}
		view := newRunView(run)
		if formatter.JSON() {
			return formatter.Success(view)
		}
		renderRun(formatter, view)
		return nil
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	views := make([]RunView, len(runs))
	for i, run := range runs {
		views[i] = newRunView(run)
	}
	if formatter.JSON() {
		return formatter.Success(views)
	}
	renderHistory(formatter, views)
	return nil
}

func newRunView(run store.Run) RunView {
	v := RunView{
		ID:          run.ID,
		Seq:         run.Seq,
		Fingerprint: run.Fingerprint,
		Numbers:     run.Numbers,
		Target:      run.Target,
		Level:       run.Level,
		Status:      string(run.Status),
		Solutions:   run.SolutionCount,
		States:      run.States,
		ElapsedMS:   run.ElapsedMS,
	}
	if run.ClosestText != "" {
		v.Closest = run.ClosestText + " = " + run.ClosestValue
	}
	for _, s := range run.Solutions {
		v.Texts = append(v.Texts, s.Text)
	}
	return v
}

func joinNumbers(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

func renderHistory(f *OutputFormatter, views []RunView) {
	if len(views) == 0 {
		fmt.Fprintln(f.Writer, "No runs recorded.")
		return
	}

	p := f.Printer()
	tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tRUN\tNUMBERS\tTARGET\tLEVEL\tSTATUS\tSOLUTIONS\tSTATES")
	for _, v := range views {
		p.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\t%d\t%d\n",
			v.Seq, v.ID, joinNumbers(v.Numbers), v.Target, v.Level, v.Status, v.Solutions, v.States)
	}
	_ = tw.Flush()
}

func renderRun(f *OutputFormatter, v RunView) {
	w := f.Writer
	fmt.Fprintf(w, "Run %s (seq %d)\n", v.ID, v.Seq)
	fmt.Fprintf(w, "  Puzzle: %s -> %d, level %d\n", joinNumbers(v.Numbers), v.Target, v.Level)
	fmt.Fprintf(w, "  Status: %s\n", v.Status)
	f.Printer().Fprintf(w, "  States: %d in %dms\n", v.States, v.ElapsedMS)
	if v.Closest != "" {
		fmt.Fprintf(w, "  Closest: %s\n", v.Closest)
	}
	for i, text := range v.Texts {
		fmt.Fprintf(w, "  [%d] %s\n", i+1, text)
	}
}

// recordable pairs a request with its result for recordRuns.
type recordable struct {
	req engine.Request
	res *engine.Result
}

// recordRuns writes runs to the database at path and returns their IDs in
// order.
func recordRuns(ctx context.Context, path string, logger *slog.Logger, runs ...recordable) ([]string, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	ids := make([]string, 0, len(runs))
	for _, r := range runs {
		run, err := store.NewRun(r.req, r.res)
		if err != nil {
			return nil, err
		}
		// A cancelled search is still recorded.
		id, err := st.WriteRun(context.WithoutCancel(ctx), run)
		if err != nil {
			return nil, err
		}
		logger.Debug("run recorded", "event", "run_recorded", "id", id, "status", run.Status)
		ids = append(ids, id)
	}
	return ids, nil
}
