package canon

import (
	"slices"
	"strings"

	"github.com/roach88/numreach/internal/expr"
)

// KeySeparator joins canonical values inside a state key.
const KeySeparator = "|"

// StateKey returns the memo key of a state. Each item contributes its value
// rounded to three fractional digits; the values are sorted numerically, so
// the key does not depend on item order or on how a value was derived.
func StateKey(items []*expr.Item) string {
	vals := make([]float64, len(items))
	for i, it := range items {
		vals[i] = expr.Canonical(it.Value)
	}
	slices.Sort(vals)

	var b strings.Builder
	for i, v := range vals {
		if i > 0 {
			b.WriteString(KeySeparator)
		}
		b.WriteString(expr.FormatNumber(v))
	}
	return b.String()
}
