package clock

import "time"

// Clock is the only source of "now" for booking rules and outbox scheduling.
type Clock interface {
	Now() time.Time
}

// Local reads c in the booking time zone. Past-date and advance-window checks
// compare calendar dates, so they must agree on the zone. A nil loc means UTC.
func Local(c Clock, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return c.Now().In(loc)
}

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// FixedClock stands still until a test moves it.
type FixedClock struct {
	now time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t}
}

func (c *FixedClock) Now() time.Time {
	return c.now
}

func (c *FixedClock) Set(t time.Time) {
	c.now = t
}

func (c *FixedClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
