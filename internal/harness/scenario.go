package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/numreach/internal/engine"
	"github.com/roach88/numreach/internal/puzzle"
)

// Scenario defines one puzzle and the outcome expected from solving it.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Numbers, Target and Level form the request.
	Numbers []int `yaml:"numbers"`
	Target  int   `yaml:"target"`
	Level   int   `yaml:"level"`

	// Mode, when set, requires exactly that many numbers (4 or 5).
	Mode int `yaml:"mode,omitempty"`

	// Budget overrides the engine's time budget, e.g. "5s".
	Budget string `yaml:"budget,omitempty"`

	// MaxStates caps expanded states. Zero means unlimited.
	MaxStates int `yaml:"max_states,omitempty"`

	// Golden enables golden file comparison of the best trace.
	Golden bool `yaml:"golden,omitempty"`

	// Assertions validate the search result.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one aspect of a search result.
type Assertion struct {
	// Type specifies the assertion type:
	// - "min_solutions": at least Count solutions
	// - "exact": an exact solution exists iff Value is true
	// - "contains_text": a solution displays exactly as Text
	// - "closest_value": no solution; the closest item's value is Value
	// - "status": the search ended with Status
	Type string `yaml:"type"`

	// Count is used by min_solutions.
	Count int `yaml:"count,omitempty"`

	// Value is used by exact (bool) and closest_value (number).
	Value any `yaml:"value,omitempty"`

	// Text is used by contains_text.
	Text string `yaml:"text,omitempty"`

	// Status is used by status.
	Status string `yaml:"status,omitempty"`
}

// Assertion type constants.
const (
	AssertMinSolutions = "min_solutions"
	AssertExact        = "exact"
	AssertContainsText = "contains_text"
	AssertClosestValue = "closest_value"
	AssertStatus       = "status"
)

// Request returns the engine request the scenario describes.
func (s *Scenario) Request() engine.Request {
	return engine.Request{Numbers: s.Numbers, Target: s.Target, Level: s.Level}
}

// BudgetDuration parses Budget. An empty Budget yields zero, which selects
// the engine default.
func (s *Scenario) BudgetDuration() (time.Duration, error) {
	if s.Budget == "" {
		return 0, nil
	}
	return time.ParseDuration(s.Budget)
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or fails validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadDir loads every .yaml and .yml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}
	sort.Strings(files)

	scenarios := make([]*Scenario, 0, len(files))
	for _, f := range files {
		s, err := LoadScenario(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(f), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if errs := puzzle.Validate(s.Request(), puzzle.Mode(s.Mode)); len(errs) > 0 {
		return errs[0]
	}

	if _, err := s.BudgetDuration(); err != nil {
		return fmt.Errorf("budget: %w", err)
	}

	if s.MaxStates < 0 {
		return fmt.Errorf("max_states must be non-negative")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertMinSolutions:
		if a.Count < 1 {
			return fmt.Errorf("assertions[%d]: count must be positive for min_solutions", index)
		}
	case AssertExact:
		if _, ok := a.Value.(bool); !ok {
			return fmt.Errorf("assertions[%d]: value must be true or false for exact", index)
		}
	case AssertContainsText:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for contains_text", index)
		}
	case AssertClosestValue:
		if _, ok := toFloat(a.Value); !ok {
			return fmt.Errorf("assertions[%d]: numeric value is required for closest_value", index)
		}
	case AssertStatus:
		switch engine.Status(a.Status) {
		case engine.StatusComplete, engine.StatusTimedOut, engine.StatusCancelled,
			engine.StatusStateLimit, engine.StatusFailed:
		default:
			return fmt.Errorf("assertions[%d]: unknown status %q", index, a.Status)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

// toFloat converts a YAML scalar to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
