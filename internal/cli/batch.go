package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/numreach/internal/engine"
	"github.com/roach88/numreach/internal/puzzle"
	"github.com/roach88/numreach/internal/worker"
)

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
	SearchOptions
	Workers int
}

// BatchEntry is the outcome of one puzzle in a batch.
type BatchEntry struct {
	Name      string        `json:"name"`
	Numbers   []int         `json:"numbers"`
	Target    int           `json:"target"`
	Level     int           `json:"level"`
	Status    engine.Status `json:"status"`
	Solutions int           `json:"solutions"`
	Best      string        `json:"best,omitempty"`
	Closest   *ItemView     `json:"closest,omitempty"`
	Error     string        `json:"error,omitempty"`
	RunID     string        `json:"run_id,omitempty"`
}

// BatchReport is the data payload of the batch command.
type BatchReport struct {
	Puzzles []BatchEntry `json:"puzzles"`
	Solved  int          `json:"solved"`
	Total   int          `json:"total"`
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batch <file.cue|file.yaml|dir>",
		Short: "Solve a set of puzzles concurrently",
		Long: `Solve every puzzle in a CUE or YAML puzzle set. Each puzzle runs in
its own search session; up to --workers searches run at once.

A CUE set defines puzzles under a top-level "puzzle" struct:

  puzzle: classic: {numbers: [1, 3, 4, 6], target: 24, level: 2}

A YAML set lists them under "puzzles":

  puzzles:
    - name: classic
      numbers: [1, 3, 4, 6]
      target: 24
      level: 2

Exit codes:
  0 - Every puzzle has an exact solution
  1 - One or more puzzles unsolved
  2 - Command error (unreadable or invalid puzzle set)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "concurrent searches (default GOMAXPROCS)")
	opts.addFlags(cmd)

	return cmd
}

func runBatch(opts *BatchOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	puzzles, err := puzzle.LoadSet(path)
	if err != nil {
		_ = formatter.Error(ErrCodeLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load puzzles", err)
	}
	formatter.VerboseLog("Loaded %d puzzle(s) from %s", len(puzzles), path)

	jobs := make([]worker.Job, len(puzzles))
	for i, p := range puzzles {
		jobs[i] = worker.Job{Name: p.Name, Request: p.Request}
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	outcomes, err := worker.Batch(ctx, opts.newEngine(logger), jobs, opts.Workers)
	if err != nil {
		logger.Info("batch interrupted", "event", "batch_interrupted", "error", err)
	}

	report := BatchReport{Puzzles: make([]BatchEntry, len(outcomes)), Total: len(outcomes)}
	var finished []recordable
	var finishedIdx []int
	for i, o := range outcomes {
		entry := BatchEntry{
			Name:    o.Job.Name,
			Numbers: o.Job.Request.Numbers,
			Target:  o.Job.Request.Target,
			Level:   o.Job.Request.Level,
		}
		switch {
		case o.Err != nil:
			entry.Status = engine.StatusFailed
			entry.Error = o.Err.Error()
		case o.Result == nil:
			entry.Status = engine.StatusCancelled
		default:
			entry.Status = o.Result.Status
			entry.Solutions = len(o.Result.Solutions)
			if best := o.Result.Best(); best != nil {
				entry.Best = best.Text
				report.Solved++
			} else if o.Result.Closest != nil {
				view := newItemView(o.Result.Closest)
				entry.Closest = &view
			}
			finished = append(finished, recordable{o.Job.Request, o.Result})
			finishedIdx = append(finishedIdx, i)
		}
		report.Puzzles[i] = entry
	}

	if opts.Database != "" && len(finished) > 0 {
		ids, err := recordRuns(ctx, opts.Database, logger, finished...)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to record runs", err)
		}
		for j, i := range finishedIdx {
			report.Puzzles[i].RunID = ids[j]
		}
	}

	if !formatter.JSON() {
		renderBatch(formatter, report)
	}

	if report.Solved < report.Total {
		msg := fmt.Sprintf("%d of %d puzzles unsolved", report.Total-report.Solved, report.Total)
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

func renderBatch(f *OutputFormatter, r BatchReport) {
	tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PUZZLE\tNUMBERS\tTARGET\tSTATUS\tSOLUTIONS\tRESULT")
	for _, e := range r.Puzzles {
		result := e.Best
		switch {
		case e.Error != "":
			result = "error: " + e.Error
		case result == "" && e.Closest != nil:
			result = fmt.Sprintf("closest %s = %s", e.Closest.Text, e.Closest.Value)
		case result == "":
			result = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%s\n",
			e.Name, joinNumbers(e.Numbers), e.Target, e.Status, e.Solutions, result)
	}
	_ = tw.Flush()

	f.Printer().Fprintf(f.Writer, "\n%d of %d puzzles solved\n", r.Solved, r.Total)
}
