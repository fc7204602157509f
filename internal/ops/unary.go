package ops

import (
	"math"

	"github.com/roach88/numreach/internal/expr"
)

const maxFactorial = 10

var factorials = func() [maxFactorial + 1]float64 {
	var f [maxFactorial + 1]float64
	f[0] = 1
	for i := 1; i <= maxFactorial; i++ {
		f[i] = f[i-1] * float64(i)
	}
	return f
}()

// Unary applies a unary operator to a. ok is false when the application is
// illegal. Square roots do not nest; double sqrt covers the fourth root.
func Unary(op expr.OpKind, a *expr.Item) (*expr.Item, bool) {
	switch op {
	case expr.OpSqrt:
		if a.Value <= 0 || isSqrt(a) {
			return nil, false
		}
		return expr.Derive(expr.OpSqrt, math.Sqrt(a.Value), `\sqrt{`+a.Text+`}`, weightSqrt, a), true
	case expr.OpDoubleSqrt:
		if a.Value <= 0 || isSqrt(a) {
			return nil, false
		}
		return expr.Derive(expr.OpDoubleSqrt, math.Sqrt(math.Sqrt(a.Value)),
			`\sqrt{\sqrt{`+a.Text+`}}`, weightDoubleSqrt, a), true
	case expr.OpFactorial:
		if !a.IsInteger() || a.Value < 0 || a.Value > maxFactorial {
			return nil, false
		}
		return expr.Derive(expr.OpFactorial, factorials[int(a.Value)],
			postfixOperand(a)+"!", weightFactorial, a), true
	default:
		return nil, false
	}
}

func isSqrt(it *expr.Item) bool {
	if it.Derivation == nil {
		return false
	}
	return it.Derivation.Op == expr.OpSqrt || it.Derivation.Op == expr.OpDoubleSqrt
}
