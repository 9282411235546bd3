package scheduling

import (
	"math"
	"time"
)

// IsWeekend reports whether t falls on a Saturday or Sunday. The floor does
// not run weekends; overtime weekends are modeled as capacity overrides, not
// calendar days.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// AddBusinessDays walks |days| weekdays from start, forward for positive
// days and backward for negative. Fractional days round up to a whole
// weekday, and zero returns start unchanged. Saturday and Sunday are skipped
// but a weekend start itself is fine; the walk simply steps off it.
func AddBusinessDays(start time.Time, days float64) time.Time {
	remaining := int(math.Ceil(math.Abs(days)))
	step := 1
	if days < 0 {
		step = -1
	}

	current := start
	for remaining > 0 {
		current = current.AddDate(0, 0, step)
		if !IsWeekend(current) {
			remaining--
		}
	}
	return current
}

// Midnight truncates t to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
