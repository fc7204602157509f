package trace

import (
	"cmp"
	"slices"
	"strings"

	"github.com/roach88/numreach/internal/expr"
)

// Build returns the evaluation steps of item, each formatted as
// "<equation> = <value>", where value is the item's own value. The last
// step is always the item's full text equated to its value.
//
// If substitution fails unexpectedly, Build falls back to the final step
// alone. A nil item yields no steps.
func Build(item *expr.Item) (steps []string) {
	if item == nil {
		return nil
	}
	final := Equation(item.Text, item.Value)

	defer func() {
		if r := recover(); r != nil {
			steps = []string{final}
		}
	}()

	current := item.Text
	for _, sub := range subExpressions(item) {
		next := strings.Replace(current, sub.Text, sub.Derivation.Result, 1)
		if next == current {
			continue
		}
		steps = append(steps, Equation(next, item.Value))
		current = next
	}
	return append(steps, final)
}

// subExpressions collects the derived nodes reachable from item,
// breadth first, one per distinct text, ordered by ascending complexity.
// Nodes of equal complexity keep their breadth-first order.
func subExpressions(item *expr.Item) []*expr.Item {
	var subs []*expr.Item
	seen := make(map[string]bool)

	queue := []*expr.Item{item}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if node == nil || node.IsLeaf() || seen[node.Text] {
			continue
		}
		seen[node.Text] = true
		subs = append(subs, node)
		queue = append(queue, node.Derivation.Operands...)
	}

	slices.SortStableFunc(subs, func(a, b *expr.Item) int {
		return cmp.Compare(a.Complexity, b.Complexity)
	})
	return subs
}

// Equation formats one step.
func Equation(lhs string, value float64) string {
	return lhs + " = " + expr.FormatNumber(value)
}

// LaTeX prepares a step for a TeX typesetter by spelling multiplication
// as \times.
func LaTeX(step string) string {
	return strings.ReplaceAll(step, "*", `\times `)
}
