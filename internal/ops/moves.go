package ops

import (
	"iter"
	"slices"

	"github.com/roach88/numreach/internal/expr"
)

// Moves yield (item, remaining) pairs: the newly derived item and the items
// of the state it did not consume. The remaining slice may be shared by
// several moves over the same operands; callers must copy it before
// appending to it.

// Unaries yields every legal unary application to each item of the state.
func Unaries(items []*expr.Item, level Level) iter.Seq2[*expr.Item, []*expr.Item] {
	return func(yield func(*expr.Item, []*expr.Item) bool) {
		if level < LevelRoot {
			return
		}
		for i, it := range items {
			rest := without(items, i)
			for _, op := range []expr.OpKind{expr.OpSqrt, expr.OpDoubleSqrt, expr.OpFactorial} {
				if !level.Allows(op) {
					continue
				}
				next, ok := Unary(op, it)
				if !ok {
					continue
				}
				if !yield(next, rest) {
					return
				}
			}
		}
	}
}

// Binaries yields every legal binary application over each unordered pair
// of items. Non-commutative operators are tried in both operand orders.
func Binaries(items []*expr.Item, level Level) iter.Seq2[*expr.Item, []*expr.Item] {
	return func(yield func(*expr.Item, []*expr.Item) bool) {
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				a, b := items[i], items[j]
				rest := without(items, i, j)
				for _, c := range pairMoves(a, b, level) {
					next, ok := Binary(c.op, c.left, c.right)
					if !ok {
						continue
					}
					if !yield(next, rest) {
						return
					}
				}
			}
		}
	}
}

type binaryMove struct {
	op          expr.OpKind
	left, right *expr.Item
}

func pairMoves(a, b *expr.Item, level Level) []binaryMove {
	moves := []binaryMove{
		{expr.OpAdd, a, b},
		{expr.OpMul, a, b},
		{expr.OpSub, a, b},
		{expr.OpSub, b, a},
		{expr.OpDiv, a, b},
		{expr.OpDiv, b, a},
	}
	if level.Allows(expr.OpPow) {
		moves = append(moves, binaryMove{expr.OpPow, a, b}, binaryMove{expr.OpPow, b, a})
	}
	if level.Allows(expr.OpRoot) {
		moves = append(moves, binaryMove{expr.OpRoot, a, b}, binaryMove{expr.OpRoot, b, a})
	}
	return moves
}

// Aggregates yields every summation over the state: a start set and a
// disjoint end set of one or two items each, every pair of their boundary
// values, the simple patterns, and the constant patterns with each
// remaining item captured as k.
func Aggregates(items []*expr.Item, level Level) iter.Seq2[*expr.Item, []*expr.Item] {
	return func(yield func(*expr.Item, []*expr.Item) bool) {
		if !level.Allows(expr.OpSum) || len(items) < 2 {
			return
		}
		for startMask := 1; startMask < 1<<len(items); startMask++ {
			startSet, afterStart := partition(items, startMask)
			if len(startSet) > 2 {
				continue
			}
			for endMask := 1; endMask < 1<<len(afterStart); endMask++ {
				endSet, rest := partition(afterStart, endMask)
				if len(endSet) > 2 {
					continue
				}
				for _, lo := range Boundaries(startSet) {
					for _, hi := range Boundaries(endSet) {
						for _, s := range Sums(lo, hi, nil) {
							if !yield(s, rest) {
								return
							}
						}
						for ki, k := range rest {
							final := without(rest, ki)
							for _, s := range Sums(lo, hi, k) {
								if !yield(s, final) {
									return
								}
							}
						}
					}
				}
			}
		}
	}
}

// Admit applies the filters that depend on the rest of the state. Below
// LevelRoot a non-integer result is rejected while every remaining item is
// an integer, which keeps easy levels on integer-friendly branches.
func Admit(item *expr.Item, remaining []*expr.Item, level Level) bool {
	if !expr.IsFinite(item.Value) {
		return false
	}
	if level >= LevelRoot || item.IsInteger() {
		return true
	}
	for _, r := range remaining {
		if !r.IsInteger() {
			return true
		}
	}
	return false
}

// without returns a new slice holding items minus the given indexes.
func without(items []*expr.Item, skip ...int) []*expr.Item {
	out := make([]*expr.Item, 0, len(items))
	for i, it := range items {
		if slices.Contains(skip, i) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// partition splits items by bitmask: set bits go to in, the rest to out.
func partition(items []*expr.Item, mask int) (in, out []*expr.Item) {
	for i, it := range items {
		if mask&(1<<i) != 0 {
			in = append(in, it)
		} else {
			out = append(out, it)
		}
	}
	return in, out
}
