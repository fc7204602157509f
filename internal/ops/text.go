package ops

import "github.com/roach88/numreach/internal/expr"

// wrap parenthesizes an operand whose own operator binds looser than the
// enclosing one, unless its text is already enclosed.
func wrap(it *expr.Item, outer expr.OpKind) string {
	if it.Precedence() < outer.Precedence() && !enclosed(it.Text) {
		return "(" + it.Text + ")"
	}
	return it.Text
}

// postfixOperand renders the operand of a postfix operator.
func postfixOperand(it *expr.Item) string {
	if (it.IsLeaf() && it.Value >= 0) || enclosed(it.Text) {
		return it.Text
	}
	return "(" + it.Text + ")"
}

// enclosed reports whether s is a single parenthesized group: "(a+b)" is,
// "(a+b)*(c+d)" is not.
func enclosed(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}
