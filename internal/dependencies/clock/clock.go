package clock

import "time"

// Clock provides time operations that can be mocked for testing.
// The location of the returned time decides calendar-day boundaries.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct {
	loc *time.Location
}

// New creates a RealClock reporting times in loc (time.Local when nil)
func New(loc *time.Location) *RealClock {
	if loc == nil {
		loc = time.Local
	}
	return &RealClock{loc: loc}
}

// Now returns the current time in the clock's location
func (c *RealClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Location returns the clock's time zone
func (c *RealClock) Location() *time.Location {
	return c.loc
}
