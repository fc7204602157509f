package cli

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/numreach/internal/engine"
	"github.com/roach88/numreach/internal/testutil"
)

func TestSolve_TextSolution(t *testing.T) {
	out, err := execute(t, "solve", "4", "6", "--target", "24")
	require.NoError(t, err)

	assert.Contains(t, out, "Solution: 4*6 = 24")
	assert.Contains(t, out, "Steps:")
	assert.Contains(t, out, "  4*6 = 24")
	assert.Contains(t, out, "Searched ")
}

func TestSolve_LaTeX(t *testing.T) {
	out, err := execute(t, "solve", "4", "6", "--target", "24", "--latex")
	require.NoError(t, err)
	assert.Contains(t, out, `4\times 6 = 24`)
}

func TestSolve_All(t *testing.T) {
	out, err := execute(t, "solve", "1", "2", "3", "4", "--target", "24", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "All ")
	assert.Contains(t, out, "[1] ")
}

func TestSolve_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "solve", "2", "2", "--target", "4")
	require.NoError(t, err)

	var report SolveReport
	resp := decodeResponse(t, out, &report)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, engine.StatusComplete, report.Status)
	require.Len(t, report.Solutions, 1)
	assert.Equal(t, "(2+2)", report.Solutions[0].Text)
	assert.Equal(t, "4", report.Solutions[0].Value)
	assert.Equal(t, []string{"4 = 4", "(2+2) = 4"}, report.Steps)
	assert.Nil(t, report.Closest)
}

func TestSolve_ClassicAtRootLevel(t *testing.T) {
	out, err := execute(t, "--format", "json", "solve", "1", "3", "4", "6", "--target", "24", "--level", "2")
	require.NoError(t, err)

	var report SolveReport
	resp := decodeResponse(t, out, &report)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, engine.StatusComplete, report.Status)
	assert.NotEmpty(t, report.Solutions)
}

func TestSolve_NoExactSolution(t *testing.T) {
	out, err := execute(t, "solve", "1", "1", "1", "1", "--target", "100")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, "No exact solution.")
	assert.Contains(t, out, "Closest: ")
	assert.Contains(t, out, "= 4\n")
	assert.Contains(t, out, "Error [E500]")
}

func TestSolve_NoExactSolutionJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "solve", "1", "1", "1", "1", "--target", "100")
	require.Error(t, err)

	var report SolveReport
	resp := decodeResponse(t, out, &report)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNoSolution, resp.Error.Code)
	require.NotNil(t, report.Closest)
	assert.Equal(t, "4", report.Closest.Value)
	assert.Empty(t, report.Solutions)
}

func TestSolve_InvalidArguments(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantOut string
	}{
		{"not an integer", []string{"solve", "1", "x", "--target", "3"}, `"x" is not an integer`},
		{"level out of range", []string{"solve", "1", "2", "--target", "3", "--level", "9"}, "E100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestSolve_MissingTarget(t *testing.T) {
	_, err := execute(t, "solve", "1", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target")
}

func TestSolve_StateLimitReported(t *testing.T) {
	out, err := execute(t, "solve", "3", "5", "7", "9", "--target", "997", "--level", "3", "--max-states", "3")
	require.Error(t, err)
	assert.Contains(t, out, "Search stopped early (state_limit)")
}

func TestSolve_FakeClockTimeout(t *testing.T) {
	opts := &SolveOptions{
		RootOptions: &RootOptions{Format: "json"},
		Target:      997,
		Level:       3,
	}
	opts.Budget = time.Second
	opts.Clock = testutil.NewFakeClock(time.Second)

	cmd := NewSolveCommand(opts.RootOptions)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})

	err := runSolve(opts, []string{"3", "5", "7", "9", "11"}, cmd)
	require.Error(t, err)

	var report SolveReport
	decodeResponse(t, out.String(), &report)
	assert.Equal(t, engine.StatusTimedOut, report.Status)
}

func TestSolve_RecordsRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	out, err := execute(t, "--format", "json", "solve", "4", "6", "--target", "24", "--db", db)
	require.NoError(t, err)

	var report SolveReport
	decodeResponse(t, out, &report)
	require.NotEmpty(t, report.RunID)

	out, err = execute(t, "--format", "json", "history", "--db", db, "--run", report.RunID)
	require.NoError(t, err)

	var view RunView
	decodeResponse(t, out, &view)
	assert.Equal(t, report.RunID, view.ID)
	assert.Equal(t, []int{4, 6}, view.Numbers)
	assert.Equal(t, []string{"4*6"}, view.Texts)
}
