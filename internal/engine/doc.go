// Package engine implements the numreach search engine.
//
// A search starts from the input numbers as leaf items and explores, depth
// first, every state reachable by legal operator applications. Each state
// is a bag of items; a state of one item is terminal and is scored against
// the target instead of being expanded.
//
// SEARCH ORDER:
//
// From every non-terminal state the engine applies, in order:
// 1. Unary operators to each item (state size unchanged)
// 2. Summations over boundary sets, at the advanced level only
// 3. Binary operators over each unordered pair (state shrinks by one)
//
// A state is expanded at most once per search. Its memo key is checked and
// set before expansion, so a move that reproduces the same multiset of
// values (sqrt of 1, for example) returns immediately.
//
// ANYTIME BEHAVIOUR:
//
// Every recursive entry checks the time budget, the context and the
// optional state cap. When one of them trips, the search unwinds with a
// stop status and returns whatever it has recorded so far. Solutions found
// before the cutoff are always exact; only completeness is lost.
//
// Each call to Solve owns a fresh session. An Engine holds configuration
// only and may be shared between goroutines.
package engine
