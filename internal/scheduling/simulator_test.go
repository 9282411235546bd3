package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lineflow-mfg/lineflow-backend/pkg/db/models"
)

func flatLine(hoursPerDay float64) *models.Line {
	return &models.Line{ID: uuid.New(), Name: "SMT-1", HoursPerDay: hoursPerDay, TimeMultiplier: 1, IsActive: true}
}

func order(number string, minutes float64) *models.WorkOrder {
	return &models.WorkOrder{ID: uuid.New(), Number: number, ProcessingMinutes: minutes}
}

func TestSimulateQueueDatesSequential(t *testing.T) {
	line := flatLine(8)
	// Two one-day jobs starting Monday: first occupies Monday, second Tuesday.
	a := order("WO-1", 480)
	b := order("WO-2", 480)
	monday := date(2026, time.January, 5)

	dates, err := SimulateQueueDates(line, []*models.WorkOrder{a, b}, monday, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d := dates[a.ID]; !d.Start.Equal(monday) || !d.End.Equal(monday) {
		t.Fatalf("first job: got %+v", d)
	}
	tuesday := monday.AddDate(0, 0, 1)
	if d := dates[b.ID]; !d.Start.Equal(tuesday) || !d.End.Equal(tuesday) {
		t.Fatalf("second job: got %+v", d)
	}
}

func TestSimulateQueueDatesSpansWeekend(t *testing.T) {
	line := flatLine(8)
	// 16 hours of work starting Friday: Friday plus Monday.
	wo := order("WO-1", 960)
	friday := date(2026, time.January, 9)

	dates, err := SimulateQueueDates(line, []*models.WorkOrder{wo}, friday, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := dates[wo.ID]
	if !d.Start.Equal(friday) {
		t.Fatalf("start: got %v, want %v", d.Start, friday)
	}
	if want := date(2026, time.January, 12); !d.End.Equal(want) {
		t.Fatalf("end: got %v, want %v", d.End, want)
	}
}

func TestSimulateQueueDatesSkipsDowntime(t *testing.T) {
	monday := date(2026, time.January, 5)
	line := flatLine(8)
	line.Overrides = []models.CapacityOverride{{
		StartDate: monday, EndDate: monday.AddDate(0, 0, 1), TotalHours: 0,
	}}
	wo := order("WO-1", 480)

	dates, err := SimulateQueueDates(line, []*models.WorkOrder{wo}, monday, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := monday.AddDate(0, 0, 2); !dates[wo.ID].Start.Equal(want) {
		t.Fatalf("start: got %v, want %v after downtime", dates[wo.ID].Start, want)
	}
}

func TestSimulateQueueDatesLockedOrderKeepsDates(t *testing.T) {
	line := flatLine(8)
	monday := date(2026, time.January, 5)
	wednesday := monday.AddDate(0, 0, 2)

	locked := order("WO-LOCKED", 480)
	locked.IsLocked = true
	locked.ScheduledStartDate = &monday
	locked.ScheduledEndDate = &wednesday
	follower := order("WO-NEXT", 480)

	dates, err := SimulateQueueDates(line, []*models.WorkOrder{locked, follower}, monday, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d := dates[locked.ID]; !d.Start.Equal(monday) || !d.End.Equal(wednesday) {
		t.Fatalf("locked order moved: %+v", d)
	}
	if want := wednesday.AddDate(0, 0, 1); !dates[follower.ID].Start.Equal(want) {
		t.Fatalf("follower start: got %v, want %v", dates[follower.ID].Start, want)
	}
}

func TestSimulateQueueDatesZeroDurationSameDay(t *testing.T) {
	line := flatLine(8)
	wo := order("WO-EMPTY", 0)
	monday := date(2026, time.January, 5)

	dates, err := SimulateQueueDates(line, []*models.WorkOrder{wo}, monday, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d := dates[wo.ID]; !d.Start.Equal(monday) || !d.End.Equal(monday) {
		t.Fatalf("got %+v, want same-day window", d)
	}
}

func TestSimulateQueueDatesDeadLineErrorsPerOrder(t *testing.T) {
	monday := date(2026, time.January, 5)
	line := flatLine(8)
	// Line is down for the entire lookahead window.
	line.Overrides = []models.CapacityOverride{{
		StartDate: monday, EndDate: monday.AddDate(0, 0, 60), TotalHours: 0,
	}}
	wo := order("WO-STUCK", 480)

	dates, err := SimulateQueueDates(line, []*models.WorkOrder{wo}, monday, 30)
	if err == nil {
		t.Fatal("expected an error for the unplaceable order")
	}
	if _, ok := dates[wo.ID]; ok {
		t.Fatal("stuck order should have no dates")
	}
}

func TestSimulateQueueDatesMonotonic(t *testing.T) {
	line := flatLine(8)
	queue := []*models.WorkOrder{
		order("WO-1", 700), order("WO-2", 120), order("WO-3", 1500), order("WO-4", 60),
	}
	monday := date(2026, time.January, 5)

	dates, err := SimulateQueueDates(line, queue, monday, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var prevEnd time.Time
	for i, wo := range queue {
		d := dates[wo.ID]
		if d.End.Before(d.Start) {
			t.Fatalf("order %d ends before it starts: %+v", i, d)
		}
		if i > 0 && !d.Start.After(prevEnd) {
			t.Fatalf("order %d starts %v, not after predecessor end %v", i, d.Start, prevEnd)
		}
		prevEnd = d.End
	}
}

func TestSimulateQueueDatesMultiplierStretchesWork(t *testing.T) {
	line := flatLine(8)
	line.TimeMultiplier = 2
	// 480 minutes doubled needs two 8h days.
	wo := order("WO-SLOW", 480)
	monday := date(2026, time.January, 5)

	dates, err := SimulateQueueDates(line, []*models.WorkOrder{wo}, monday, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := monday.AddDate(0, 0, 1); !dates[wo.ID].End.Equal(want) {
		t.Fatalf("end: got %v, want %v", dates[wo.ID].End, want)
	}
}
