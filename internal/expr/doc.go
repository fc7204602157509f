// Package expr defines the expression items the solver combines.
//
// An Item is an immutable value node: a float64 value, its display text,
// an accumulated complexity score and, for every item that is not an
// original input, the Derivation that produced it. Derivations point at
// their operand items, so the items produced by one search form a DAG with
// the original inputs as its leaves.
//
// This package imports nothing internal. Every other package builds on it.
//
// Key constraints:
//   - Values are always finite; callers never construct an Item from NaN or Inf
//   - Items are never mutated after construction and may be shared freely
//   - Complexity of a derived item is the sum of its operands' complexities
//     plus a positive operator weight
package expr
