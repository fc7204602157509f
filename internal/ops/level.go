package ops

import "github.com/roach88/numreach/internal/expr"

// Level is the difficulty level that gates which operators are legal.
type Level int

const (
	LevelBasic Level = iota
	LevelPower
	LevelRoot
	LevelAdvanced
)

// MaxLevel is the highest supported difficulty level.
const MaxLevel = LevelAdvanced

// Complexity weights per operator. Summation weights depend on the term
// pattern and live in the pattern table.
const (
	weightAdd        = 1.0
	weightSub        = 1.1
	weightMul        = 1.2
	weightDiv        = 1.5
	weightPow        = 4.0
	weightRoot       = 5.0
	weightSqrt       = 5.0
	weightDoubleSqrt = 6.0
	weightFactorial  = 8.0
)

// Weight returns the fixed complexity weight of op. OpSum has no single
// weight and returns 0.
func Weight(op expr.OpKind) float64 {
	switch op {
	case expr.OpAdd:
		return weightAdd
	case expr.OpSub:
		return weightSub
	case expr.OpMul:
		return weightMul
	case expr.OpDiv:
		return weightDiv
	case expr.OpPow:
		return weightPow
	case expr.OpRoot:
		return weightRoot
	case expr.OpSqrt:
		return weightSqrt
	case expr.OpDoubleSqrt:
		return weightDoubleSqrt
	case expr.OpFactorial:
		return weightFactorial
	default:
		return 0
	}
}

// Allows reports whether op is legal at level l.
func (l Level) Allows(op expr.OpKind) bool {
	switch op {
	case expr.OpAdd, expr.OpSub, expr.OpMul, expr.OpDiv:
		return true
	case expr.OpPow:
		return l >= LevelPower
	case expr.OpRoot, expr.OpSqrt, expr.OpDoubleSqrt:
		return l >= LevelRoot
	case expr.OpFactorial, expr.OpSum:
		return l >= LevelAdvanced
	default:
		return false
	}
}
