package ops

import (
	"math"

	"github.com/roach88/numreach/internal/expr"
)

// Summation range limits. Ranges are enumerated term by term, so their
// length is kept small.
const (
	maxSumEnd  = 12
	maxSumSpan = 10
)

// pattern is one per-term formula of the summation operator.
type pattern struct {
	name    string
	display func(k string) string
	weight  float64
	term    func(i, k float64) (float64, bool)
}

func fixed(s string) func(string) string { return func(string) string { return s } }

// simplePatterns use only the index variable.
var simplePatterns = []pattern{
	{"i", fixed("i"), 10, func(i, _ float64) (float64, bool) { return i, true }},
	{"i+i", fixed("i+i"), 11, func(i, _ float64) (float64, bool) { return i + i, true }},
	{"i*i", fixed(`i \times i`), 11, func(i, _ float64) (float64, bool) { return i * i, true }},
	{"i!", fixed("i!"), 15, func(i, _ float64) (float64, bool) {
		if i > maxFactorial {
			return 0, false
		}
		return factorials[int(i)], true
	}},
	{"i^i", fixed("i^i"), 16, func(i, _ float64) (float64, bool) { return math.Pow(i, i), true }},
	{"sqrt(i)", fixed(`\sqrt{i}`), 14, func(i, _ float64) (float64, bool) { return math.Sqrt(i), true }},
}

// constantPatterns capture one extra operand k.
var constantPatterns = []pattern{
	{"i+k", func(k string) string { return "i+" + k }, 12,
		func(i, k float64) (float64, bool) { return i + k, true }},
	{"i*k", func(k string) string { return `i \times ` + k }, 13,
		func(i, k float64) (float64, bool) { return i * k, true }},
	{"k-i", func(k string) string { return k + "-i" }, 12,
		func(i, k float64) (float64, bool) { return k - i, k >= i }},
	{"i-k", func(k string) string { return "i-" + k }, 12,
		func(i, k float64) (float64, bool) { return i - k, i >= k }},
	{"i^k", func(k string) string { return "i^{" + k + "}" }, 14,
		func(i, k float64) (float64, bool) { return math.Pow(i, k), true }},
	{"k^i", func(k string) string { return k + "^{i}" }, 14,
		func(i, k float64) (float64, bool) { return math.Pow(k, i), true }},
}

// Sums applies every summation pattern over the range bounded by a and b.
// With k == nil the simple patterns are used; otherwise the patterns that
// capture k. Bounds are the rounded values of a and b in ascending order.
// A range that starts at or below zero, ends above 12 or spans more than
// ten integers yields nothing.
func Sums(a, b, k *expr.Item) []*expr.Item {
	lo, hi := a, b
	if !(a.Value < b.Value) {
		lo, hi = b, a
	}
	start, end := roundHalfUp(lo.Value), roundHalfUp(hi.Value)
	if start <= 0 || end > maxSumEnd || end-start > maxSumSpan {
		return nil
	}

	prefix := `\sum_{i=` + lo.Text + `}^{` + hi.Text + `} `
	var out []*expr.Item
	if k == nil {
		for _, p := range simplePatterns {
			v, ok := sumTerms(start, end, p, 0)
			if !ok {
				continue
			}
			out = append(out, expr.Derive(expr.OpSum, v, prefix+p.display(""), p.weight, lo, hi))
		}
		return out
	}

	for _, p := range constantPatterns {
		v, ok := sumTerms(start, end, p, k.Value)
		if !ok {
			continue
		}
		out = append(out, expr.Derive(expr.OpSum, v, prefix+"("+p.display(k.Text)+")", p.weight, lo, hi, k))
	}
	return out
}

// sumTerms adds the pattern's terms for i in [start, end]. Any undefined or
// non-finite term rejects the whole sum.
func sumTerms(start, end int, p pattern, k float64) (float64, bool) {
	sum := 0.0
	for i := start; i <= end; i++ {
		t, ok := p.term(float64(i), k)
		if !ok || !expr.IsFinite(t) {
			return 0, false
		}
		sum += t
	}
	return sum, expr.IsFinite(sum)
}

// roundHalfUp rounds half-way values toward +Inf.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Boundaries generates the candidate boundary values a summation may use
// for a set of one or two items. A single item is its own boundary. A pair
// a, b (ordered by text) yields a+b, a*b and whichever of a-b, b-a is
// non-negative.
func Boundaries(set []*expr.Item) []*expr.Item {
	switch len(set) {
	case 1:
		return []*expr.Item{set[0]}
	case 2:
		a, b := set[0], set[1]
		if a.Text > b.Text {
			a, b = b, a
		}
		out := []*expr.Item{add(a, b), mul(a, b)}
		if a.Value >= b.Value {
			out = append(out, sub(a, b))
		} else {
			out = append(out, sub(b, a))
		}
		return out
	default:
		return nil
	}
}
