package ops

import (
	"math"

	"github.com/roach88/numreach/internal/expr"
)

const (
	maxExponent = 10
	maxBase     = 20
	maxRootIdx  = 10
)

// Binary applies op to (a, b). For commutative operators the operands are
// put in canonical order (lexicographic by text) first, so a+b and b+a
// produce the same item text. ok is false when the application is illegal
// or the result is not finite.
func Binary(op expr.OpKind, a, b *expr.Item) (*expr.Item, bool) {
	if op.Commutative() && a.Text > b.Text {
		a, b = b, a
	}

	var item *expr.Item
	switch op {
	case expr.OpAdd:
		item = add(a, b)
	case expr.OpSub:
		if a.Value < b.Value {
			return nil, false
		}
		item = sub(a, b)
	case expr.OpMul:
		if a.Value == 1 || b.Value == 1 {
			return nil, false
		}
		item = mul(a, b)
	case expr.OpDiv:
		if b.Value == 0 || b.Value == 1 {
			return nil, false
		}
		item = expr.Derive(expr.OpDiv, a.Value/b.Value,
			`\frac{`+a.Text+`}{`+b.Text+`}`, weightDiv, a, b)
	case expr.OpPow:
		if b.Value == 1 || math.Abs(b.Value) > maxExponent || math.Abs(a.Value) > maxBase {
			return nil, false
		}
		item = expr.Derive(expr.OpPow, math.Pow(a.Value, b.Value),
			"{"+wrap(a, expr.OpPow)+"}^{"+b.Text+"}", weightPow, a, b)
	case expr.OpRoot:
		if b.Value <= 1 || b.Value > maxRootIdx || a.Value < 0 {
			return nil, false
		}
		item = expr.Derive(expr.OpRoot, math.Pow(a.Value, 1/b.Value),
			`\sqrt[`+b.Text+`]{`+a.Text+`}`, weightRoot, a, b)
	default:
		return nil, false
	}

	if !expr.IsFinite(item.Value) {
		return nil, false
	}
	return item, true
}

// add, sub and mul build items without legality checks. They are shared
// with the boundary-value generator.
func add(a, b *expr.Item) *expr.Item {
	return expr.Derive(expr.OpAdd, a.Value+b.Value, "("+a.Text+"+"+b.Text+")", weightAdd, a, b)
}

func sub(a, b *expr.Item) *expr.Item {
	return expr.Derive(expr.OpSub, a.Value-b.Value, "("+a.Text+"-"+b.Text+")", weightSub, a, b)
}

func mul(a, b *expr.Item) *expr.Item {
	return expr.Derive(expr.OpMul, a.Value*b.Value, wrap(a, expr.OpMul)+"*"+wrap(b, expr.OpMul), weightMul, a, b)
}
