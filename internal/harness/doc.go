// Package harness runs puzzle scenarios: a request plus the outcome the
// engine is expected to produce.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario checks"
//	numbers: [1, 2, 3, 4]
//	target: 24
//	level: 0
//	mode: 4            # optional, 4 or 5: the exact number count
//	budget: 5s         # optional time budget
//	max_states: 0      # optional state cap, 0 = unlimited
//	golden: true       # optional, compare the best trace with a golden file
//	assertions:
//	  - type: min_solutions
//	    count: 1
//	  - type: contains_text
//	    text: "((1+2)+3)*4"
//
// # Assertion Types
//
//   - min_solutions: at least count exact solutions
//   - exact: whether an exact solution exists (value: true or false)
//   - contains_text: a solution with exactly this display text
//   - closest_value: no solution, and the closest item has this value
//   - status: the search ended with this status
//
// Scenario files are decoded strictly; an unknown field is an error.
//
// # Golden Files
//
// With golden: true, RunWithGolden snapshots the scenario's best solution
// (or closest item) and its derivation steps as canonical JSON and
// compares it with testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
