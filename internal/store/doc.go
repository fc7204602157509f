// Package store provides SQLite-backed history of solved puzzles.
//
// Each search is recorded as one run with its ranked solutions:
//   - runs: the request, its fingerprint, how the search ended, and the
//     closest item when there was no exact solution
//   - solutions: solution texts in ascending complexity order
//
// # Ordering
//
// Runs carry a seq INTEGER assigned inside the write transaction. Every
// query orders by seq, never by wall time, so listings are stable.
//
// # Identity
//
// Run IDs are UUIDv7 by default. The fingerprint column is
// canon.RequestFingerprint of the request, so repeated runs of the same
// puzzle (in any input order) can be grouped.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
