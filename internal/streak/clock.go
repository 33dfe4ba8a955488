package streak

import "time"

// Clock supplies "today" for anchor selection.
type Clock interface {
	Now() time.Time
	Today() Day
	Location() *time.Location
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	loc *time.Location
}

func NewSystemClock(loc *time.Location) *SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return &SystemClock{loc: loc}
}

func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *SystemClock) Today() Day {
	return DayOf(time.Now(), c.loc)
}

func (c *SystemClock) Location() *time.Location {
	return c.loc
}

// FixedClock always reports the same instant. Used by tests and replays.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time {
	return c.At
}

func (c FixedClock) Today() Day {
	return DayOf(c.At, c.At.Location())
}

func (c FixedClock) Location() *time.Location {
	return c.At.Location()
}
