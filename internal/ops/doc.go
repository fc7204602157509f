// Package ops is the operator catalog: every unary, binary and aggregate
// operator the solver may apply, with its legality check, value, display
// text and complexity weight.
//
// Illegal applications are not errors. Each constructor reports ok=false and
// the caller skips the move. The only filters that look beyond the operands
// themselves live in Admit.
//
// Operators are gated by difficulty level:
//
//	LevelBasic     + - * /
//	LevelPower     adds ^
//	LevelRoot      adds n-th root, square root, double square root and
//	               lifts the integer-only rule
//	LevelAdvanced  adds factorial and bounded summation
package ops
