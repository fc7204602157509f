package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/numreach/internal/canon"
	"github.com/roach88/numreach/internal/expr"
)

// Snapshot captures the presentable outcome of a scenario. Only strings
// and integers are included so the canonical JSON is stable.
type Snapshot struct {
	ScenarioName string   `json:"scenario_name"`
	Status       string   `json:"status"`
	Solutions    int      `json:"solutions"`
	Featured     string   `json:"featured,omitempty"`
	Value        string   `json:"value,omitempty"`
	Steps        []string `json:"steps"`
}

// NewSnapshot builds the snapshot of a scenario result.
func NewSnapshot(name string, result *Result) *Snapshot {
	s := &Snapshot{
		ScenarioName: name,
		Status:       string(result.Search.Status),
		Solutions:    len(result.Search.Solutions),
		Steps:        result.Steps,
	}
	if item := Featured(result.Search); item != nil {
		s.Featured = item.Text
		s.Value = expr.FormatNumber(item.Value)
	}
	return s
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON serialization.
func (s *Snapshot) toCanonicalMap() map[string]any {
	steps := make([]any, len(s.Steps))
	for i, step := range s.Steps {
		steps[i] = step
	}
	m := map[string]any{
		"scenario_name": s.ScenarioName,
		"status":        s.Status,
		"solutions":     s.Solutions,
		"steps":         steps,
	}
	if s.Featured != "" {
		m["featured"] = s.Featured
		m["value"] = s.Value
	}
	return m
}

// MarshalCanonical returns the snapshot as canonical JSON.
func (s *Snapshot) MarshalCanonical() ([]byte, error) {
	return canon.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check assertions. Test failure
// (via goldie) occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := New().Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's snapshot against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := NewSnapshot(scenarioName, result).MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
