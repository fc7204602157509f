package engine

import "time"

// Clock supplies wall-clock time to the budget check.
//
// Production code uses SystemClock. Tests inject testutil.FakeClock so a
// timeout can be reached deterministically without sleeping.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}
