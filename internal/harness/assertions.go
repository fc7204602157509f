package harness

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/numreach/internal/engine"
	"github.com/roach88/numreach/internal/expr"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type      string   // Assertion type for categorization
	Expected  string   // Human-readable expected outcome
	Actual    string   // Human-readable actual outcome
	Solutions []string // Solution texts for debugging context
}

// maxListedSolutions bounds the solution list printed with a failure.
const maxListedSolutions = 10

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Solutions) > 0 {
		fmt.Fprintf(&buf, "\nSolutions:\n")
		for i, s := range e.Solutions {
			if i == maxListedSolutions {
				fmt.Fprintf(&buf, "  ... %d more\n", len(e.Solutions)-i)
				break
			}
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, s)
		}
	}

	return buf.String()
}

func solutionTexts(res *engine.Result) []string {
	out := make([]string, len(res.Solutions))
	for i, s := range res.Solutions {
		out[i] = s.Text
	}
	return out
}

func describeClosest(it *expr.Item) string {
	if it == nil {
		return "none"
	}
	return fmt.Sprintf("%s = %s", it.Text, expr.FormatNumber(it.Value))
}

// assertMinSolutions checks that at least Count solutions were found.
func assertMinSolutions(res *engine.Result, a Assertion) error {
	if len(res.Solutions) >= a.Count {
		return nil
	}
	return &AssertionError{
		Type:      AssertMinSolutions,
		Expected:  fmt.Sprintf("at least %d solutions", a.Count),
		Actual:    fmt.Sprintf("%d solutions (status %s)", len(res.Solutions), res.Status),
		Solutions: solutionTexts(res),
	}
}

// assertExact checks whether an exact solution exists.
func assertExact(res *engine.Result, a Assertion) error {
	want := a.Value.(bool)
	got := len(res.Solutions) > 0
	if got == want {
		return nil
	}
	return &AssertionError{
		Type:      AssertExact,
		Expected:  fmt.Sprintf("exact solution exists: %t", want),
		Actual:    fmt.Sprintf("%d solutions, closest %s", len(res.Solutions), describeClosest(res.Closest)),
		Solutions: solutionTexts(res),
	}
}

// assertContainsText checks that a solution displays exactly as Text.
func assertContainsText(res *engine.Result, a Assertion) error {
	for _, s := range res.Solutions {
		if s.Text == a.Text {
			return nil
		}
	}
	return &AssertionError{
		Type:      AssertContainsText,
		Expected:  fmt.Sprintf("solution %q", a.Text),
		Actual:    "not found",
		Solutions: solutionTexts(res),
	}
}

// assertClosestValue checks that no solution exists and that the closest
// item has the expected value.
func assertClosestValue(res *engine.Result, a Assertion) error {
	want, _ := toFloat(a.Value)
	if len(res.Solutions) == 0 && res.Closest != nil && math.Abs(res.Closest.Value-want) < expr.Tolerance {
		return nil
	}
	return &AssertionError{
		Type:      AssertClosestValue,
		Expected:  fmt.Sprintf("no solution, closest value %s", expr.FormatNumber(want)),
		Actual:    fmt.Sprintf("%d solutions, closest %s", len(res.Solutions), describeClosest(res.Closest)),
		Solutions: solutionTexts(res),
	}
}

// assertStatus checks how the search ended.
func assertStatus(res *engine.Result, a Assertion) error {
	if string(res.Status) == a.Status {
		return nil
	}
	return &AssertionError{
		Type:     AssertStatus,
		Expected: fmt.Sprintf("status %s", a.Status),
		Actual:   fmt.Sprintf("status %s", res.Status),
	}
}

// EvaluateAssertions evaluates all assertions against a search result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(res *engine.Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertMinSolutions:
			err = assertMinSolutions(res, assertion)
		case AssertExact:
			if _, ok := assertion.Value.(bool); !ok {
				err = fmt.Errorf("assertion[%d]: exact needs a boolean value", i)
			} else {
				err = assertExact(res, assertion)
			}
		case AssertContainsText:
			err = assertContainsText(res, assertion)
		case AssertClosestValue:
			if _, ok := toFloat(assertion.Value); !ok {
				err = fmt.Errorf("assertion[%d]: closest_value needs a numeric value", i)
			} else {
				err = assertClosestValue(res, assertion)
			}
		case AssertStatus:
			err = assertStatus(res, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
