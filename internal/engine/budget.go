package engine

import (
	"context"
	"errors"
	"time"
)

// budget decides when a search must stop early.
//
// Three independent limits are enforced:
//   - Wall time: elapsed time since the start of Solve against a fixed limit
//   - Context: cancellation or deadline of the caller's context
//   - State cap: number of expanded states, when configured
//
// None of them is an error. A tripped limit is reported as the Status the
// search unwinds with.
type budget struct {
	ctx       context.Context
	clock     Clock
	start     time.Time
	limit     time.Duration
	maxStates int // 0 means unlimited
	states    int
}

func newBudget(ctx context.Context, clock Clock, limit time.Duration, maxStates int) *budget {
	return &budget{
		ctx:       ctx,
		clock:     clock,
		start:     clock.Now(),
		limit:     limit,
		maxStates: maxStates,
	}
}

// check reports whether the search may continue. It never blocks.
func (b *budget) check() Status {
	select {
	case <-b.ctx.Done():
		if errors.Is(b.ctx.Err(), context.DeadlineExceeded) {
			return StatusTimedOut
		}
		return StatusCancelled
	default:
	}
	if b.clock.Now().Sub(b.start) > b.limit {
		return StatusTimedOut
	}
	return statusRunning
}

// expand counts one more expanded state against the cap.
func (b *budget) expand() Status {
	b.states++
	if b.maxStates > 0 && b.states > b.maxStates {
		return StatusStateLimit
	}
	return statusRunning
}

// elapsed returns the time spent since the search started.
func (b *budget) elapsed() time.Duration {
	return b.clock.Now().Sub(b.start)
}
