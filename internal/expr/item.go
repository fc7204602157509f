package expr

import (
	"encoding/json"
	"math"
	"strconv"
)

// Tolerance is the maximum distance between a value and the target for the
// value to count as an exact hit.
const Tolerance = 1e-4

// Item is one value produced so far during a search.
type Item struct {
	Value      float64
	Text       string
	Complexity float64
	Derivation *Derivation // nil for original inputs
}

// Derivation records how a derived item was computed.
type Derivation struct {
	Op       OpKind
	Operands []*Item // shared with other derivations, never cyclic
	Result   string  // short display token for the item's value
}

// Leaf creates an original input item with zero complexity.
func Leaf(n int) *Item {
	return &Item{
		Value: float64(n),
		Text:  strconv.Itoa(n),
	}
}

// Derive builds a derived item. Complexity is the operands' complexities
// plus weight. The caller guarantees value is finite.
func Derive(op OpKind, value float64, text string, weight float64, operands ...*Item) *Item {
	complexity := weight
	for _, o := range operands {
		complexity += o.Complexity
	}
	return &Item{
		Value:      value,
		Text:       text,
		Complexity: complexity,
		Derivation: &Derivation{
			Op:       op,
			Operands: operands,
			Result:   FormatNumber(value),
		},
	}
}

// IsLeaf reports whether the item is an original input.
func (it *Item) IsLeaf() bool {
	return it.Derivation == nil
}

// IsInteger reports whether the item's value is integral.
func (it *Item) IsInteger() bool {
	return IsInteger(it.Value)
}

// Precedence returns the binding strength of the item's outermost operator.
func (it *Item) Precedence() Precedence {
	if it.Derivation == nil {
		return PrecAtomic
	}
	return it.Derivation.Op.Precedence()
}

// Hits reports whether the item's value is within Tolerance of target.
func (it *Item) Hits(target float64) bool {
	return math.Abs(it.Value-target) < Tolerance
}

// IsInteger reports whether v is finite and has no fractional part.
func IsInteger(v float64) bool {
	return !math.IsInf(v, 0) && v == math.Trunc(v)
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Canonical rounds v to three fractional digits, folding negative zero.
func Canonical(v float64) float64 {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		return 0
	}
	return r
}

// FormatNumber renders v at three fractional digits with trailing zeros
// stripped: 4 -> "4", 0.75 -> "0.75", 1.4142135 -> "1.414".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(Canonical(v), 'f', -1, 64)
}

// itemJSON is the wire shape of an Item. The derivation DAG is written as a
// tree; shared operands are repeated.
type itemJSON struct {
	Value      float64         `json:"value"`
	Text       string          `json:"text"`
	Complexity float64         `json:"complexity"`
	Derivation *derivationJSON `json:"derivation,omitempty"`
}

type derivationJSON struct {
	Op       string  `json:"op"`
	Result   string  `json:"result"`
	Operands []*Item `json:"operands"`
}

// MarshalJSON implements json.Marshaler.
func (it *Item) MarshalJSON() ([]byte, error) {
	out := itemJSON{
		Value:      it.Value,
		Text:       it.Text,
		Complexity: roundComplexity(it.Complexity),
	}
	if d := it.Derivation; d != nil {
		out.Derivation = &derivationJSON{
			Op:       d.Op.String(),
			Result:   d.Result,
			Operands: d.Operands,
		}
	}
	return json.Marshal(out)
}

// roundComplexity hides float accumulation noise (1.1 + 1.2 = 2.3000000000000003).
func roundComplexity(c float64) float64 {
	return math.Round(c*1e6) / 1e6
}
