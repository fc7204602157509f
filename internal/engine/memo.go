package engine

// memo records the state keys a session has already expanded.
//
// The engine checks and sets the key in one step before expanding a state.
// Setting the key only after expansion would let a move that reproduces
// its own state recurse without bound.
//
// A memo belongs to one session and is not safe for concurrent use.
type memo struct {
	seen map[string]struct{}
}

func newMemo() *memo {
	return &memo{seen: make(map[string]struct{})}
}

// visit marks key as expanded. It returns false if key was already marked.
func (m *memo) visit(key string) bool {
	if _, ok := m.seen[key]; ok {
		return false
	}
	m.seen[key] = struct{}{}
	return true
}

// size returns the number of distinct keys recorded.
func (m *memo) size() int {
	return len(m.seen)
}
