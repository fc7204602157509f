package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/numreach/internal/engine"
	"github.com/roach88/numreach/internal/expr"
)

// createTestStore creates a new store in a temp dir for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun builds a run with the given solution texts.
func createTestRun(t *testing.T, numbers []int, target int, texts ...string) Run {
	t.Helper()
	res := &engine.Result{Status: engine.StatusComplete}
	for i, text := range texts {
		res.Solutions = append(res.Solutions, &expr.Item{Value: float64(target), Text: text, Complexity: float64(i + 1)})
	}
	run, err := NewRun(engine.Request{Numbers: numbers, Target: target}, res)
	if err != nil {
		t.Fatalf("NewRun() failed: %v", err)
	}
	return run
}
