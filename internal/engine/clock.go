package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// The engine never reads it directly: callers resolve "today" once and pass it down.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant. It backs the --today override.
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.At
}
