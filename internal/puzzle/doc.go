// Package puzzle validates search requests and loads puzzle sets.
//
// Requests are checked against a CUE schema (schema.cue) plus the input
// count the chosen mode expects. Puzzle sets are read from CUE files,
// where puzzles are declared under a top-level puzzle struct, or from
// strictly decoded YAML files.
package puzzle
