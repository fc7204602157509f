package expr

// OpKind identifies the operator that produced a derived item.
type OpKind int

const (
	OpAdd OpKind = iota + 1
	OpSub
	OpMul
	OpDiv
	OpPow
	OpRoot
	OpSqrt
	OpDoubleSqrt
	OpFactorial
	OpSum
)

// Precedence orders operators by binding strength for parenthesization.
type Precedence int

const (
	PrecAdditive Precedence = iota
	PrecMultiplicative
	PrecPower
	PrecAtomic
)

// String returns the short tag used in logs and JSON output.
func (k OpKind) String() string {
	switch k {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpPow:
		return "^"
	case OpRoot:
		return "root"
	case OpSqrt:
		return "sqrt"
	case OpDoubleSqrt:
		return "sqrt2"
	case OpFactorial:
		return "!"
	case OpSum:
		return "sum"
	default:
		return "unknown"
	}
}

// Precedence returns the binding strength of the operator.
// Unary and aggregate operators render as self-delimited atoms.
func (k OpKind) Precedence() Precedence {
	switch k {
	case OpAdd, OpSub:
		return PrecAdditive
	case OpMul, OpDiv:
		return PrecMultiplicative
	case OpPow, OpRoot:
		return PrecPower
	default:
		return PrecAtomic
	}
}

// Commutative reports whether operand order is irrelevant to the value.
func (k OpKind) Commutative() bool {
	return k == OpAdd || k == OpMul
}
