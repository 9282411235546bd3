package scheduling

import (
	"time"

	"github.com/lineflow-mfg/lineflow-backend/pkg/db/models"
)

// DefaultHoursPerDay applies when a line's flat fallback is itself unset.
const DefaultHoursPerDay = 8.0

// CapacityForDate resolves a line's working hours for one calendar day.
//
// Precedence: a capacity override covering the date wins outright, including
// an explicit zero for downtime. Otherwise active shifts scheduled for that
// weekday contribute their net hours (span minus unpaid breaks). When no
// shift matches, or the matching shifts net out to zero, the line's flat
// HoursPerDay applies so a misconfigured shift table cannot silently starve
// the simulator.
//
// Weekends are not special-cased here; the calendar walkers skip them before
// asking for capacity.
func CapacityForDate(line *models.Line, date time.Time) float64 {
	day := Midnight(date)

	for _, ov := range line.Overrides {
		if ov.Covers(day) {
			if ov.TotalHours < 0 {
				return 0
			}
			return ov.TotalHours
		}
	}

	total := 0.0
	matched := false
	for _, sh := range line.Shifts {
		if !sh.IsActive || !shiftActiveOn(sh, day.Weekday()) {
			continue
		}
		net, ok := shiftNetHours(sh)
		if !ok {
			continue
		}
		matched = true
		total += net
	}

	if matched && total > 0 {
		return total
	}
	if line.HoursPerDay > 0 {
		return line.HoursPerDay
	}
	return DefaultHoursPerDay
}

// HasCapacity reports whether the line can do any work on the date: a
// weekday with nonzero resolved hours.
func HasCapacity(line *models.Line, date time.Time) bool {
	return !IsWeekend(date) && CapacityForDate(line, date) > 0
}

// CapacitySource names which rule produced a day's hours.
type CapacitySource string

const (
	SourceOverride CapacitySource = "override"
	SourceShifts   CapacitySource = "shifts"
	SourceDefault  CapacitySource = "default"
	SourceWeekend  CapacitySource = "weekend"
)

// DayCapacity is the resolved capacity for one calendar day with its
// provenance, for calendar views.
type DayCapacity struct {
	Date   time.Time      `json:"date"`
	Hours  float64        `json:"hours"`
	Source CapacitySource `json:"source"`
}

// ResolveDay mirrors CapacityForDate but also reports which rule won.
// Weekends resolve to zero unless an override explicitly covers them.
func ResolveDay(line *models.Line, date time.Time) DayCapacity {
	day := Midnight(date)

	for _, ov := range line.Overrides {
		if ov.Covers(day) {
			hours := ov.TotalHours
			if hours < 0 {
				hours = 0
			}
			return DayCapacity{Date: day, Hours: hours, Source: SourceOverride}
		}
	}
	if IsWeekend(day) {
		return DayCapacity{Date: day, Hours: 0, Source: SourceWeekend}
	}

	total := 0.0
	matched := false
	for _, sh := range line.Shifts {
		if !sh.IsActive || !shiftActiveOn(sh, day.Weekday()) {
			continue
		}
		net, ok := shiftNetHours(sh)
		if !ok {
			continue
		}
		matched = true
		total += net
	}
	if matched && total > 0 {
		return DayCapacity{Date: day, Hours: total, Source: SourceShifts}
	}

	hours := line.HoursPerDay
	if hours <= 0 {
		hours = DefaultHoursPerDay
	}
	return DayCapacity{Date: day, Hours: hours, Source: SourceDefault}
}
