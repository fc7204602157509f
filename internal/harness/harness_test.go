package harness

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/numreach/internal/engine"
	"github.com/roach88/numreach/internal/testutil"
)

func TestRun_MinimalScenario(t *testing.T) {
	scenario := &Scenario{
		Name:        "minimal",
		Description: "Minimal test scenario",
		Numbers:     []int{5},
		Target:      5,
		Assertions: []Assertion{
			{Type: AssertExact, Value: true},
			{Type: AssertStatus, Status: "complete"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []string{"5 = 5"}, result.Steps)
}

func TestRun_StepsOfBestSolution(t *testing.T) {
	scenario := &Scenario{
		Name:        "two_twos",
		Description: "Two twos make four",
		Numbers:     []int{2, 2},
		Target:      4,
		Assertions:  []Assertion{{Type: AssertMinSolutions, Count: 1}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, []string{"4 = 4", "(2+2) = 4"}, result.Steps)
}

func TestRun_ClosestWhenUnreachable(t *testing.T) {
	scenario := &Scenario{
		Name:        "unreachable",
		Description: "Four ones cannot make 100",
		Numbers:     []int{1, 1, 1, 1},
		Target:      100,
		Assertions: []Assertion{
			{Type: AssertExact, Value: false},
			{Type: AssertClosestValue, Value: 4},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.NotNil(t, result.Search.Closest)
	require.NotEmpty(t, result.Steps)
	assert.Equal(t, result.Search.Closest.Text+" = 4", result.Steps[len(result.Steps)-1])
}

func TestRun_FailedAssertionsReported(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong_expectations",
		Description: "Every assertion is wrong",
		Numbers:     []int{2, 2},
		Target:      4,
		Assertions: []Assertion{
			{Type: AssertExact, Value: false},
			{Type: AssertContainsText, Text: "2^2"},
			{Type: AssertMinSolutions, Count: 5},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Len(t, result.Errors, 3)
}

func TestRun_StateLimit(t *testing.T) {
	scenario := &Scenario{
		Name:        "capped",
		Description: "A tiny state cap stops the search early",
		Numbers:     []int{1, 2, 3, 4},
		Target:      24,
		MaxStates:   3,
		Assertions:  []Assertion{{Type: AssertStatus, Status: "state_limit"}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_ScenarioBudget(t *testing.T) {
	scenario := &Scenario{
		Name:        "budgeted",
		Description: "A fake clock exhausts a one second budget",
		Numbers:     []int{3, 5, 7, 9, 11},
		Target:      997,
		Level:       3,
		Budget:      "1s",
		Assertions:  []Assertion{{Type: AssertStatus, Status: "timed_out"}},
	}

	h := New(WithEngineOptions(engine.WithClock(testutil.NewFakeClock(time.Second))))
	result, err := h.Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_InvalidRequest(t *testing.T) {
	scenario := &Scenario{
		Name:        "empty",
		Description: "No numbers",
		Target:      1,
		Assertions:  []Assertion{{Type: AssertStatus, Status: "complete"}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.True(t, engine.IsInvalidRequest(err))
}

func TestRun_Deterministic(t *testing.T) {
	scenario := &Scenario{
		Name:        "deterministic",
		Description: "Repeated runs agree",
		Numbers:     []int{1, 2, 3, 4},
		Target:      24,
		Assertions:  []Assertion{{Type: AssertMinSolutions, Count: 1}},
	}

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first.Steps, second.Steps)
	assert.Equal(t, len(first.Search.Solutions), len(second.Search.Solutions))
}

func TestRun_ExampleScenarios(t *testing.T) {
	scenarios, err := LoadDir("../../testdata/scenarios")
	require.NoError(t, err)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestResult_AddError(t *testing.T) {
	result := NewResult()
	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)

	result.AddError("test error")
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"test error"}, result.Errors)
}

func TestFeatured(t *testing.T) {
	assert.Nil(t, Featured(&engine.Result{}))
}
