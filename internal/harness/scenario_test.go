package harness

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes content to name in a fresh temp dir and returns the path.
func writeScenario(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, "test.yaml", `
name: test_scenario
description: "Test scenario for validation"
numbers: [1, 2, 3, 4]
target: 24
level: 1
mode: 4
budget: 2s
max_states: 500
golden: true
assertions:
  - type: min_solutions
    count: 1
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	assert.Equal(t, []int{1, 2, 3, 4}, scenario.Numbers)
	assert.Equal(t, 24, scenario.Target)
	assert.Equal(t, 1, scenario.Level)
	assert.Equal(t, 4, scenario.Mode)
	assert.Equal(t, 500, scenario.MaxStates)
	assert.True(t, scenario.Golden)
	assert.Len(t, scenario.Assertions, 1)

	budget, err := scenario.BudgetDuration()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, budget)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
description: "x"
numbers: [1]
target: 1
assertions: [{type: status, status: complete}]
`,
			wantErr: "name is required",
		},
		{
			name: "missing description",
			content: `
name: x
numbers: [1]
target: 1
assertions: [{type: status, status: complete}]
`,
			wantErr: "description is required",
		},
		{
			name: "missing numbers",
			content: `
name: x
description: "x"
target: 1
assertions: [{type: status, status: complete}]
`,
			wantErr: "E200",
		},
		{
			name: "level out of range",
			content: `
name: x
description: "x"
numbers: [1]
target: 1
level: 7
assertions: [{type: status, status: complete}]
`,
			wantErr: "E200",
		},
		{
			name: "mode mismatch",
			content: `
name: x
description: "x"
numbers: [1, 2, 3]
target: 1
mode: 4
assertions: [{type: status, status: complete}]
`,
			wantErr: "E201",
		},
		{
			name: "bad budget",
			content: `
name: x
description: "x"
numbers: [1]
target: 1
budget: soon
assertions: [{type: status, status: complete}]
`,
			wantErr: "budget",
		},
		{
			name: "negative max_states",
			content: `
name: x
description: "x"
numbers: [1]
target: 1
max_states: -1
assertions: [{type: status, status: complete}]
`,
			wantErr: "max_states must be non-negative",
		},
		{
			name: "no assertions",
			content: `
name: x
description: "x"
numbers: [1]
target: 1
`,
			wantErr: "assertions list is required",
		},
		{
			name: "malformed yaml",
			content: `
name: x
  description: [
`,
			wantErr: "failed to parse YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, "bad.yaml", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_UnknownFieldsRejected(t *testing.T) {
	path := writeScenario(t, "typo.yaml", `
name: typo
description: "typo in a field name"
numbers: [1, 2]
target: 3
assertion:
  - type: status
    status: complete
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
	assert.Contains(t, err.Error(), "assertion")
}

func TestLoadScenario_AssertionTypes(t *testing.T) {
	tests := []struct {
		name      string
		assertion string
		wantErr   string
	}{
		{"min_solutions valid", "{type: min_solutions, count: 2}", ""},
		{"min_solutions zero", "{type: min_solutions, count: 0}", "count must be positive"},
		{"exact valid", "{type: exact, value: false}", ""},
		{"exact not bool", "{type: exact, value: 3}", "value must be true or false"},
		{"contains_text valid", `{type: contains_text, text: "(1+2)"}`, ""},
		{"contains_text empty", "{type: contains_text}", "text is required"},
		{"closest_value int", "{type: closest_value, value: 4}", ""},
		{"closest_value float", "{type: closest_value, value: 2.5}", ""},
		{"closest_value missing", "{type: closest_value}", "numeric value is required"},
		{"status valid", "{type: status, status: timed_out}", ""},
		{"status unknown", "{type: status, status: done}", "unknown status"},
		{"missing type", "{count: 1}", "type is required"},
		{"unknown type", "{type: trace_contains}", "unknown assertion type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, "a.yaml", `
name: a
description: "assertion check"
numbers: [1, 2]
target: 3
assertions:
  - `+tt.assertion+`
`)
			_, err := LoadScenario(path)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	for name, target := range map[string]string{"b.yml": "3", "a.yaml": "1"} {
		content := "name: " + name + "\ndescription: d\nnumbers: [1, 2]\ntarget: " + target +
			"\nassertions: [{type: status, status: complete}]\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	scenarios, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "a.yaml", scenarios[0].Name)
	assert.Equal(t, "b.yml", scenarios[1].Name)
}

func TestLoadDir_Empty(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenario files")
}

func TestLoadDir_ReportsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: x\n"), 0644))

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}

func TestAssertionConstants(t *testing.T) {
	assert.Equal(t, "min_solutions", AssertMinSolutions)
	assert.Equal(t, "exact", AssertExact)
	assert.Equal(t, "contains_text", AssertContainsText)
	assert.Equal(t, "closest_value", AssertClosestValue)
	assert.Equal(t, "status", AssertStatus)
}

// TestLoadExampleScenarios validates the example scenario files in testdata/scenarios.
// These serve as documentation and regression tests.
func TestLoadExampleScenarios(t *testing.T) {
	scenarios, err := LoadDir("../../testdata/scenarios")
	require.NoError(t, err)

	names := make([]string, len(scenarios))
	for i, s := range scenarios {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"classic_24", "two_twos", "unreachable"}, names)
}
