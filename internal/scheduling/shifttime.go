package scheduling

import (
	"strconv"
	"strings"
	"time"

	"github.com/lineflow-mfg/lineflow-backend/pkg/db/models"
)

const minutesPerDay = 24 * 60

// parseClock converts an "HH:MM" wall-clock string to minutes from midnight.
func parseClock(s string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// isoWeekday maps Go's Sunday-based weekday onto ISO numbering, Monday=1
// through Sunday=7, matching the shift active_days encoding.
func isoWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}

// shiftActiveOn reports whether the shift runs on the given weekday. A blank
// active_days list means the shift never matches.
func shiftActiveOn(s models.Shift, day time.Weekday) bool {
	want := isoWeekday(day)
	for _, tok := range strings.Split(s.ActiveDays, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err == nil && n == want {
			return true
		}
	}
	return false
}

// shiftSpanMinutes returns the gross working span of a shift. An end at or
// before the start rolls into the next day.
func shiftSpanMinutes(s models.Shift) (int, bool) {
	start, ok := parseClock(s.StartTime)
	if !ok {
		return 0, false
	}
	end, ok := parseClock(s.EndTime)
	if !ok {
		return 0, false
	}
	span := end - start
	if span <= 0 {
		span += minutesPerDay
	}
	return span, true
}

// shiftNetHours is the shift span minus its unpaid breaks, in hours.
// Malformed clock strings invalidate the shift rather than contributing a
// bogus number.
func shiftNetHours(s models.Shift) (float64, bool) {
	span, ok := shiftSpanMinutes(s)
	if !ok {
		return 0, false
	}
	for _, br := range s.Breaks {
		if br.IsPaid {
			continue
		}
		bs, ok := parseClock(br.StartTime)
		if !ok {
			continue
		}
		be, ok := parseClock(br.EndTime)
		if !ok {
			continue
		}
		dur := be - bs
		if dur <= 0 {
			dur += minutesPerDay
		}
		span -= dur
	}
	if span < 0 {
		span = 0
	}
	return float64(span) / 60, true
}
