package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/numreach/internal/puzzle"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool     `json:"valid"`
	Puzzles []string `json:"puzzles,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file.cue|file.yaml|dir>",
		Short: "Validate a puzzle set without solving it",
		Long: `Check a CUE or YAML puzzle set against the puzzle schema: numbers must
be a non-empty list of integers, target an integer, and level 0-3.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	puzzles, err := puzzle.LoadSet(path)
	if err != nil {
		result := ValidationResult{Errors: flattenErrors(err)}
		if formatter.JSON() {
			if err := formatter.Failure(result, ErrCodeLoad, "validation failed"); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(formatter.Writer, "✗ %s\n", path)
			for _, e := range result.Errors {
				fmt.Fprintf(formatter.Writer, "  %s\n", e)
			}
		}
		return NewExitError(ExitFailure, "validation failed")
	}

	result := ValidationResult{Valid: true}
	for _, p := range puzzles {
		formatter.VerboseLog("Validated puzzle: %s", p.Name)
		result.Puzzles = append(result.Puzzles, p.Name)
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	formatter.Printer().Fprintf(formatter.Writer, "✓ %d puzzle(s) valid\n", len(puzzles))
	return nil
}

// flattenErrors splits a possibly joined error into one message per line.
func flattenErrors(err error) []string {
	return strings.Split(err.Error(), "\n")
}
