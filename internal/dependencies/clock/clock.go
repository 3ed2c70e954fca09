package clock

import "time"

// Resolution is the precision of every timestamp the service hands out.
// Room and action log times travel as Unix milliseconds.
const Resolution = time.Millisecond

// Clock supplies the current time to the room controller and handlers
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock in UTC, truncated to Resolution
type RealClock struct{}

// New returns the system clock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current UTC time at millisecond precision. Truncation also
// drops the monotonic reading so stored times compare by wall clock only.
func (c *RealClock) Now() time.Time {
	return time.Now().UTC().Truncate(Resolution)
}
