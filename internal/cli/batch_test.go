package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/numreach/internal/engine"
)

const mixedSet = `
puzzles:
  - name: product
    numbers: [4, 6]
    target: 24
  - name: ones
    numbers: [1, 1, 1, 1]
    target: 100
`

func TestBatch_TextSummary(t *testing.T) {
	path := writeFile(t, t.TempDir(), "set.yaml", mixedSet)

	out, err := execute(t, "batch", path, "--workers", "2")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, "PUZZLE")
	assert.Contains(t, out, "product")
	assert.Contains(t, out, "4*6")
	assert.Contains(t, out, "closest ")
	assert.Contains(t, out, "1 of 2 puzzles solved")
}

func TestBatch_JSONKeepsJobOrder(t *testing.T) {
	path := writeFile(t, t.TempDir(), "set.yaml", mixedSet)

	out, err := execute(t, "--format", "json", "batch", path)
	require.Error(t, err)

	var report BatchReport
	resp := decodeResponse(t, out, &report)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Solved)
	require.Len(t, report.Puzzles, 2)

	assert.Equal(t, "product", report.Puzzles[0].Name)
	assert.Equal(t, "4*6", report.Puzzles[0].Best)
	assert.Equal(t, engine.StatusComplete, report.Puzzles[0].Status)

	assert.Equal(t, "ones", report.Puzzles[1].Name)
	assert.Empty(t, report.Puzzles[1].Best)
	require.NotNil(t, report.Puzzles[1].Closest)
	assert.Equal(t, "4", report.Puzzles[1].Closest.Value)
}

func TestBatch_AllSolved(t *testing.T) {
	path := writeFile(t, t.TempDir(), "puzzles.cue", `
puzzle: {
	product: {numbers: [4, 6], target: 24}
	twos: {numbers: [2, 2], target: 4, level: 1}
}
`)

	out, err := execute(t, "batch", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 of 2 puzzles solved")
}

func TestBatch_RecordsRuns(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "set.yaml", mixedSet)
	db := filepath.Join(dir, "history.db")

	out, err := execute(t, "--format", "json", "batch", path, "--db", db)
	require.Error(t, err)

	var report BatchReport
	decodeResponse(t, out, &report)
	for _, p := range report.Puzzles {
		assert.NotEmpty(t, p.RunID, "puzzle %s should be recorded", p.Name)
	}

	out, err = execute(t, "--format", "json", "history", "--db", db)
	require.NoError(t, err)

	var runs []RunView
	decodeResponse(t, out, &runs)
	assert.Len(t, runs, 2)
}

func TestBatch_LoadError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "puzzles:\n  - numbers: [1]\n    targt: 1\n")

	out, err := execute(t, "batch", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "E300")
}

func TestBatch_MissingFile(t *testing.T) {
	_, err := execute(t, "batch", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
