package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lineflow-mfg/lineflow-backend/pkg/db/models"
)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestRoundUpToInterval(t *testing.T) {
	ts := at(2026, time.January, 5, 9, 7)
	if got := RoundUpToInterval(ts, 15); !got.Equal(at(2026, time.January, 5, 9, 15)) {
		t.Fatalf("got %v", got)
	}
	exact := at(2026, time.January, 5, 9, 15)
	if got := RoundUpToInterval(exact, 15); !got.Equal(exact) {
		t.Fatalf("exact boundary moved: %v", got)
	}
	if got := RoundUpToInterval(ts, 0); !got.Equal(ts) {
		t.Fatalf("zero interval should be identity: %v", got)
	}
}

func TestAddWorkTimePausesForLunch(t *testing.T) {
	win := defaultWindow()
	// 11:00 plus 60 working minutes: 30 before lunch, lunch 11:30-12:30,
	// 30 after.
	start := at(2026, time.January, 5, 11, 0)
	got := AddWorkTime(start, 60, win, 0)
	if want := at(2026, time.January, 5, 13, 0); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestAddWorkTimeSpillsToNextMorning(t *testing.T) {
	win := defaultWindow()
	// 16:00 plus 60 minutes: 30 tonight, 30 tomorrow from 07:30.
	start := at(2026, time.January, 5, 16, 0)
	got := AddWorkTime(start, 60, win, 0)
	if want := at(2026, time.January, 6, 8, 0); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestAddWorkTimeSkipsWeekend(t *testing.T) {
	win := defaultWindow()
	// Friday 16:00 plus 60 minutes finishes Monday 08:00.
	start := at(2026, time.January, 9, 16, 0)
	got := AddWorkTime(start, 60, win, 0)
	if want := at(2026, time.January, 12, 8, 0); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestAddWorkTimeBeforeShiftStartsAtOpen(t *testing.T) {
	win := defaultWindow()
	start := at(2026, time.January, 5, 6, 0)
	got := AddWorkTime(start, 30, win, 0)
	if want := at(2026, time.January, 5, 8, 0); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestAddWorkTimeBufferIsWorkingTime(t *testing.T) {
	win := defaultWindow()
	// Job ends at 16:30 shift close; the 15-minute buffer lands next
	// morning.
	start := at(2026, time.January, 5, 16, 0)
	got := AddWorkTime(start, 30, win, 15)
	if want := at(2026, time.January, 6, 7, 45); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNextAvailableStart(t *testing.T) {
	win := defaultWindow()

	// Mid-shift time rounds up to the next quarter hour.
	got := NextAvailableStart(at(2026, time.January, 5, 9, 3), win, 15)
	if want := at(2026, time.January, 5, 9, 15); !got.Equal(want) {
		t.Fatalf("mid-shift: got %v, want %v", got, want)
	}

	// Before the shift opens, work starts at 07:30.
	got = NextAvailableStart(at(2026, time.January, 5, 5, 0), win, 15)
	if want := at(2026, time.January, 5, 7, 30); !got.Equal(want) {
		t.Fatalf("early: got %v, want %v", got, want)
	}

	// After close, work starts the next weekday morning.
	got = NextAvailableStart(at(2026, time.January, 9, 17, 0), win, 15)
	if want := at(2026, time.January, 12, 7, 30); !got.Equal(want) {
		t.Fatalf("after close Friday: got %v, want %v", got, want)
	}

	// Inside lunch, work resumes at its end.
	got = NextAvailableStart(at(2026, time.January, 5, 11, 45), win, 15)
	if want := at(2026, time.January, 5, 12, 30); !got.Equal(want) {
		t.Fatalf("lunch: got %v, want %v", got, want)
	}
}

func TestSimulateQueueTimesBackToBack(t *testing.T) {
	line := &models.Line{ID: uuid.New(), Name: "SMT-1", HoursPerDay: 8, TimeMultiplier: 1}
	a := order("WO-1", 60)
	b := order("WO-2", 60)
	now := at(2026, time.January, 5, 8, 0)

	times := SimulateQueueTimes(line, []*models.WorkOrder{a, b}, now)

	ta := times[a.ID]
	if !ta.StartAt.Equal(now) {
		t.Fatalf("first start: got %v, want %v", ta.StartAt, now)
	}
	// 60 minutes plus the default 15-minute buffer.
	if want := at(2026, time.January, 5, 9, 15); !ta.EndAt.Equal(want) {
		t.Fatalf("first end: got %v, want %v", ta.EndAt, want)
	}
	tb := times[b.ID]
	if !tb.StartAt.Equal(ta.EndAt) {
		t.Fatalf("second start: got %v, want %v", tb.StartAt, ta.EndAt)
	}
}

func TestSimulateQueueTimesManualAnchorHolds(t *testing.T) {
	line := &models.Line{ID: uuid.New(), Name: "SMT-1", HoursPerDay: 8, TimeMultiplier: 1}
	anchor := at(2026, time.January, 5, 13, 0)
	wo := order("WO-ANCHORED", 60)
	wo.ManualStartAt = &anchor

	times := SimulateQueueTimes(line, []*models.WorkOrder{wo}, at(2026, time.January, 5, 8, 0))
	if got := times[wo.ID].StartAt; !got.Equal(anchor) {
		t.Fatalf("got %v, want anchor %v", got, anchor)
	}
}

func TestSimulateQueueTimesLockedKeepsStamps(t *testing.T) {
	line := &models.Line{ID: uuid.New(), Name: "SMT-1", HoursPerDay: 8, TimeMultiplier: 1}
	startAt := at(2026, time.January, 5, 9, 0)
	endAt := at(2026, time.January, 5, 14, 0)
	locked := order("WO-LOCKED", 60)
	locked.IsLocked = true
	locked.CalculatedStartAt = &startAt
	locked.CalculatedEndAt = &endAt
	follower := order("WO-NEXT", 60)

	times := SimulateQueueTimes(line, []*models.WorkOrder{locked, follower}, at(2026, time.January, 5, 8, 0))
	if got := times[locked.ID]; !got.StartAt.Equal(startAt) || !got.EndAt.Equal(endAt) {
		t.Fatalf("locked stamps moved: %+v", got)
	}
	if got := times[follower.ID].StartAt; got.Before(endAt) {
		t.Fatalf("follower starts %v, before locked end %v", got, endAt)
	}
}

func TestShiftWindowForUsesLowestShiftNumber(t *testing.T) {
	second := weekdayShift("14:00", "22:00")
	second.ShiftNumber = 2
	first := weekdayShift("06:00", "14:00")
	first.ShiftNumber = 1
	line := &models.Line{Shifts: []models.Shift{second, first}}

	win := shiftWindowFor(line)
	if win.Start != 6*60 || win.End != 14*60 {
		t.Fatalf("got window %d-%d, want first shift", win.Start, win.End)
	}
}
