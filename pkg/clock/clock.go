package clock

import "time"

// Clock abstracts the wall clock so scheduling runs are deterministic in tests.
type Clock interface {
	Now() time.Time
	Today() time.Time
}

// Real reads the system clock.
type Real struct {
	Location *time.Location
}

// NewReal returns a Clock backed by the system clock in the given location.
// A nil location falls back to time.Local.
func NewReal(loc *time.Location) Real {
	if loc == nil {
		loc = time.Local
	}
	return Real{Location: loc}
}

func (r Real) Now() time.Time {
	return time.Now().In(r.Location)
}

func (r Real) Today() time.Time {
	return Midnight(r.Now())
}

// Frozen always reports the same instant.
type Frozen struct {
	Instant time.Time
}

func (f Frozen) Now() time.Time {
	return f.Instant
}

func (f Frozen) Today() time.Time {
	return Midnight(f.Instant)
}

// Midnight truncates a timestamp to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
