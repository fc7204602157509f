package expr

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{4, "4"},
		{0.75, "0.75"},
		{math.Sqrt2, "1.414"},
		{2.0000001, "2"},
		{-0.0001, "0"},
		{-3.5, "-3.5"},
		{1.0005, "1.001"},
		{3628800, "3628800"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.in))
		})
	}
}

func TestCanonical_FoldsNegativeZero(t *testing.T) {
	got := Canonical(-0.0002)
	assert.False(t, math.Signbit(got), "negative zero must be folded")
}

func TestIsInteger(t *testing.T) {
	assert.True(t, IsInteger(4))
	assert.True(t, IsInteger(0))
	assert.True(t, IsInteger(-7))
	assert.False(t, IsInteger(0.5))
	assert.False(t, IsInteger(math.Inf(1)))
	assert.False(t, IsInteger(math.NaN()))
}

func TestLeaf(t *testing.T) {
	it := Leaf(7)
	assert.Equal(t, 7.0, it.Value)
	assert.Equal(t, "7", it.Text)
	assert.Zero(t, it.Complexity)
	assert.True(t, it.IsLeaf())
	assert.Equal(t, PrecAtomic, it.Precedence())
}

func TestDerive_AccumulatesComplexity(t *testing.T) {
	a, b := Leaf(2), Leaf(3)
	sum := Derive(OpAdd, 5, "(2+3)", 1, a, b)
	prod := Derive(OpMul, 20, "(2+3)*4", 1.2, sum, Leaf(4))

	assert.InDelta(t, 1.0, sum.Complexity, 1e-9)
	assert.InDelta(t, 2.2, prod.Complexity, 1e-9)
	require.NotNil(t, prod.Derivation)
	assert.Equal(t, "20", prod.Derivation.Result)
	assert.Same(t, sum, prod.Derivation.Operands[0], "operands are shared, not copied")
	assert.Greater(t, prod.Complexity, sum.Complexity)
}

func TestItem_Hits(t *testing.T) {
	it := &Item{Value: 24.00005}
	assert.True(t, it.Hits(24))
	assert.False(t, (&Item{Value: 24.001}).Hits(24))
}

func TestOpKind_Precedence(t *testing.T) {
	assert.Equal(t, PrecAdditive, OpSub.Precedence())
	assert.Equal(t, PrecMultiplicative, OpDiv.Precedence())
	assert.Equal(t, PrecPower, OpRoot.Precedence())
	assert.Equal(t, PrecAtomic, OpFactorial.Precedence())
	assert.Equal(t, PrecAtomic, OpSum.Precedence())
	assert.True(t, OpAdd.Commutative())
	assert.False(t, OpPow.Commutative())
}

func TestItem_MarshalJSON(t *testing.T) {
	it := Derive(OpSub, 2.3, "(3.3-1)", 1.1, &Item{Value: 3.3, Text: "3.3", Complexity: 1.2}, Leaf(1))

	data, err := json.Marshal(it)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "(3.3-1)", decoded["text"])
	assert.Equal(t, 2.3, decoded["complexity"])

	deriv, ok := decoded["derivation"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "-", deriv["op"])
	assert.Equal(t, "2.3", deriv["result"])
	assert.Len(t, deriv["operands"], 2)
}
