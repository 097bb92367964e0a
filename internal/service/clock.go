package service

import "time"

// Clock supplies the current time used to derive the reference date
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

// Now returns f()
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock returns a wall clock
func SystemClock() Clock {
	return ClockFunc(time.Now)
}

// ReferenceDate returns the civil date of t in loc, as midnight UTC so it
// compares directly with stored race dates
func ReferenceDate(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
