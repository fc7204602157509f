package engine

import (
	"cmp"
	"math"
	"slices"

	"github.com/roach88/numreach/internal/canon"
	"github.com/roach88/numreach/internal/expr"
	"github.com/roach88/numreach/internal/ops"
)

// session holds the mutable state of one search.
type session struct {
	target     float64
	level      ops.Level
	pruneAbove float64 // 0 disables pruning
	budget     *budget
	memo       *memo

	solutions []*expr.Item
	byParent  map[string]int      // penultimate state key -> index in solutions
	texts     map[string]struct{} // texts of recorded solutions

	closest     *expr.Item
	closestDist float64

	stats Stats
}

// find explores the state items. parentKey is the memo key of the state
// items was derived from.
func (s *session) find(items []*expr.Item, parentKey string) Status {
	if st := s.budget.check(); st != statusRunning {
		return st
	}

	if len(items) == 1 {
		s.evaluate(items[0], parentKey)
		return statusRunning
	}

	key := canon.StateKey(items)
	if !s.memo.visit(key) {
		s.stats.MemoHits++
		return statusRunning
	}
	if st := s.budget.expand(); st != statusRunning {
		return st
	}
	s.stats.States++

	for next, rest := range ops.Unaries(items, s.level) {
		if st := s.descend(next, rest, key); st != statusRunning {
			return st
		}
	}
	for next, rest := range ops.Aggregates(items, s.level) {
		if st := s.descend(next, rest, key); st != statusRunning {
			return st
		}
	}
	for next, rest := range ops.Binaries(items, s.level) {
		if st := s.descend(next, rest, key); st != statusRunning {
			return st
		}
	}
	return statusRunning
}

// descend recurses into the state rest + item, if item is admissible.
func (s *session) descend(item *expr.Item, rest []*expr.Item, parentKey string) Status {
	if !ops.Admit(item, rest, s.level) {
		return statusRunning
	}
	if s.pruneAbove > 0 && len(rest) > 0 && math.Abs(item.Value) > s.pruneAbove {
		return statusRunning
	}

	state := make([]*expr.Item, 0, len(rest)+1)
	state = append(state, rest...)
	state = append(state, item)
	return s.find(state, parentKey)
}

// evaluate scores a terminal item.
func (s *session) evaluate(item *expr.Item, parentKey string) {
	s.stats.Terminals++

	if item.Hits(s.target) {
		s.recordSolution(item, parentKey)
		return
	}
	if !item.IsInteger() {
		return
	}

	d := math.Abs(item.Value - s.target)
	if d < s.closestDist || (d == s.closestDist && item.Complexity < s.closest.Complexity) {
		s.closest = item
		s.closestDist = d
	}
}

// recordSolution keeps one solution per penultimate state, the cheapest,
// and never two solutions with the same text. (2+2) and 2*2 both finish
// the state {2, 2}; only (2+2) is kept.
func (s *session) recordSolution(item *expr.Item, parentKey string) {
	if _, dup := s.texts[item.Text]; dup {
		return
	}

	if idx, ok := s.byParent[parentKey]; ok {
		prev := s.solutions[idx]
		if item.Complexity < prev.Complexity {
			delete(s.texts, prev.Text)
			s.solutions[idx] = item
			s.texts[item.Text] = struct{}{}
		}
		return
	}

	s.byParent[parentKey] = len(s.solutions)
	s.solutions = append(s.solutions, item)
	s.texts[item.Text] = struct{}{}
}

// result assembles the session's findings. A failed search reports
// nothing, since its records may be incomplete mid-update.
func (s *session) result(status Status) *Result {
	res := &Result{Status: status, Stats: s.stats}
	if status == StatusFailed {
		res.Solutions = []*expr.Item{}
		return res
	}

	res.Solutions = slices.Clone(s.solutions)
	slices.SortStableFunc(res.Solutions, func(a, b *expr.Item) int {
		return cmp.Compare(a.Complexity, b.Complexity)
	})
	if res.Solutions == nil {
		res.Solutions = []*expr.Item{}
	}
	res.Closest = s.closest
	return res
}
