package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lineflow-mfg/lineflow-backend/pkg/db/models"
)

func weekdayShift(start, end string, breaks ...models.ShiftBreak) models.Shift {
	return models.Shift{
		ID:         uuid.New(),
		Name:       "Day",
		StartTime:  start,
		EndTime:    end,
		ActiveDays: "1,2,3,4,5",
		IsActive:   true,
		Breaks:     breaks,
	}
}

func unpaidBreak(start, end string) models.ShiftBreak {
	return models.ShiftBreak{ID: uuid.New(), Name: "Lunch", StartTime: start, EndTime: end, IsPaid: false}
}

func paidBreak(start, end string) models.ShiftBreak {
	return models.ShiftBreak{ID: uuid.New(), Name: "Coffee", StartTime: start, EndTime: end, IsPaid: true}
}

func TestCapacityFlatFallback(t *testing.T) {
	line := &models.Line{HoursPerDay: 8}
	monday := date(2026, time.January, 5)
	if got := CapacityForDate(line, monday); got != 8 {
		t.Fatalf("got %v hours, want 8", got)
	}
}

func TestCapacityFromShiftMinusUnpaidLunch(t *testing.T) {
	// 07:30-16:30 is 9h gross; the unpaid lunch nets it to 8h, 480 minutes
	// of work on a Monday.
	line := &models.Line{
		HoursPerDay: 10,
		Shifts:      []models.Shift{weekdayShift("07:30", "16:30", unpaidBreak("11:30", "12:30"))},
	}
	monday := date(2026, time.January, 5)
	if got := CapacityForDate(line, monday); got != 8 {
		t.Fatalf("got %v hours, want 8", got)
	}
	if gotMinutes := CapacityForDate(line, monday) * 60; gotMinutes != 480 {
		t.Fatalf("got %v minutes, want 480", gotMinutes)
	}
}

func TestCapacityPaidBreakDoesNotReduce(t *testing.T) {
	line := &models.Line{
		Shifts: []models.Shift{weekdayShift("08:00", "16:00", paidBreak("10:00", "10:15"))},
	}
	if got := CapacityForDate(line, date(2026, time.January, 6)); got != 8 {
		t.Fatalf("got %v hours, want 8", got)
	}
}

func TestCapacityShiftInactiveDayFallsBack(t *testing.T) {
	// Shift runs Monday only; Tuesday falls back to the flat hours.
	shift := weekdayShift("08:00", "16:00")
	shift.ActiveDays = "1"
	line := &models.Line{HoursPerDay: 6, Shifts: []models.Shift{shift}}

	if got := CapacityForDate(line, date(2026, time.January, 5)); got != 8 {
		t.Fatalf("monday: got %v, want 8", got)
	}
	if got := CapacityForDate(line, date(2026, time.January, 6)); got != 6 {
		t.Fatalf("tuesday: got %v, want 6", got)
	}
}

func TestCapacityOverrideWins(t *testing.T) {
	monday := date(2026, time.January, 5)
	line := &models.Line{
		HoursPerDay: 8,
		Shifts:      []models.Shift{weekdayShift("08:00", "16:00")},
		Overrides: []models.CapacityOverride{{
			StartDate: monday, EndDate: monday, TotalHours: 12,
		}},
	}
	if got := CapacityForDate(line, monday); got != 12 {
		t.Fatalf("got %v hours, want 12 from override", got)
	}
	if got := CapacityForDate(line, monday.AddDate(0, 0, 1)); got != 8 {
		t.Fatalf("day after override: got %v, want 8", got)
	}
}

func TestCapacityZeroOverrideMeansDowntime(t *testing.T) {
	monday := date(2026, time.January, 5)
	line := &models.Line{
		HoursPerDay: 8,
		Overrides: []models.CapacityOverride{{
			StartDate: monday, EndDate: monday.AddDate(0, 0, 2), TotalHours: 0,
		}},
	}
	if got := CapacityForDate(line, monday.AddDate(0, 0, 1)); got != 0 {
		t.Fatalf("got %v hours, want 0", got)
	}
	if HasCapacity(line, monday) {
		t.Fatal("downed day should have no capacity")
	}
}

func TestCapacityCrossMidnightShift(t *testing.T) {
	// 22:00-06:00 spans midnight: 8 gross hours.
	line := &models.Line{Shifts: []models.Shift{weekdayShift("22:00", "06:00")}}
	if got := CapacityForDate(line, date(2026, time.January, 7)); got != 8 {
		t.Fatalf("got %v hours, want 8", got)
	}
}

func TestCapacityZeroNetShiftFallsBack(t *testing.T) {
	// Breaks consume the whole shift; the flat fallback keeps the line
	// from starving.
	line := &models.Line{
		HoursPerDay: 8,
		Shifts:      []models.Shift{weekdayShift("08:00", "09:00", unpaidBreak("08:00", "09:00"))},
	}
	if got := CapacityForDate(line, date(2026, time.January, 5)); got != 8 {
		t.Fatalf("got %v hours, want flat fallback 8", got)
	}
}

func TestResolveDaySources(t *testing.T) {
	monday := date(2026, time.January, 5)
	saturday := date(2026, time.January, 10)
	line := &models.Line{
		HoursPerDay: 8,
		Shifts:      []models.Shift{weekdayShift("08:00", "16:00")},
		Overrides: []models.CapacityOverride{{
			StartDate: saturday, EndDate: saturday, TotalHours: 6,
		}},
	}

	if dc := ResolveDay(line, monday); dc.Source != SourceShifts || dc.Hours != 8 {
		t.Fatalf("monday: got %+v", dc)
	}
	if dc := ResolveDay(line, saturday); dc.Source != SourceOverride || dc.Hours != 6 {
		t.Fatalf("saturday override: got %+v", dc)
	}
	if dc := ResolveDay(line, saturday.AddDate(0, 0, 1)); dc.Source != SourceWeekend || dc.Hours != 0 {
		t.Fatalf("sunday: got %+v", dc)
	}
}
