// Package worker runs searches away from the caller's goroutine.
//
// Runner enforces one in-flight search per caller session: submitting a
// new request cancels the previous search and abandons its state. Batch
// solves many independent puzzles with bounded parallelism, each in its
// own engine session.
package worker
