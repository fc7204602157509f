// Package trace reconstructs the step-by-step evaluation of an expression.
//
// Steps are produced by textual substitution: starting from the full
// expression text, each derived sub-expression is replaced, simplest
// first, by its computed value. Every change becomes one displayed step.
// The functions are pure and may be called concurrently.
package trace
