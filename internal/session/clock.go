package session

import "time"

// Clock supplies the current time. Injecting it keeps due-set selection and
// review stamping reproducible in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by the wall clock, in UTC.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock is a Clock pinned to a single instant.
type FixedClock struct {
	Time time.Time
}

// Now implements Clock.
func (c FixedClock) Now() time.Time {
	return c.Time
}
