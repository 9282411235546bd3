package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lineflow-mfg/lineflow-backend/pkg/clock"
	"github.com/lineflow-mfg/lineflow-backend/pkg/config"
	"github.com/lineflow-mfg/lineflow-backend/pkg/db/models"
	"github.com/lineflow-mfg/lineflow-backend/pkg/enums"
	"github.com/lineflow-mfg/lineflow-backend/pkg/errors"
)

type fakeLines struct {
	lines []*models.Line
}

func (f *fakeLines) ListForScheduling(context.Context) ([]*models.Line, error) {
	return f.lines, nil
}

func (f *fakeLines) FindByID(_ context.Context, id uuid.UUID) (*models.Line, error) {
	for _, l := range f.lines {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, errors.New(errors.CodeNotFound, "line %s not found", id)
}

type fakeOrders struct {
	queues    map[uuid.UUID][]*models.WorkOrder
	pool      []*models.WorkOrder
	persisted [][]*models.WorkOrder
}

func (f *fakeOrders) ListQueues(_ context.Context, lineIDs []uuid.UUID) (map[uuid.UUID][]*models.WorkOrder, error) {
	out := map[uuid.UUID][]*models.WorkOrder{}
	for _, id := range lineIDs {
		out[id] = f.queues[id]
	}
	return out, nil
}

func (f *fakeOrders) ListUnassignedEligible(context.Context) ([]*models.WorkOrder, error) {
	return f.pool, nil
}

func (f *fakeOrders) QueueForLine(_ context.Context, lineID uuid.UUID) ([]*models.WorkOrder, error) {
	return f.queues[lineID], nil
}

func (f *fakeOrders) PersistPlan(_ context.Context, orders []*models.WorkOrder) error {
	f.persisted = append(f.persisted, orders)
	return nil
}

type fakeLock struct {
	held     bool
	acquired int
	released int
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	f.acquired++
	if f.held {
		return false, nil
	}
	f.held = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.released++
	f.held = false
	return nil
}

func newTestService(t *testing.T, lines *fakeLines, orders *fakeOrders, lock Locker) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Lines:  lines,
		Orders: orders,
		Lock:   lock,
		Clock:  clock.Frozen{Instant: time.Date(2026, time.January, 5, 6, 0, 0, 0, time.UTC)},
		Cfg: config.Scheduling{
			TrolleyLimit:       24,
			TrolleyWarnAt:      22,
			DefaultHoursPerDay: 8,
			LookaheadDays:      365,
		},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func serviceFixture() (*fakeLines, *fakeOrders) {
	line := namedLine("SMT-1", 1)
	wo := poolOrder("WO-1", "Acme", enums.PriorityFactoryDefault, date(2026, time.February, 2), 480)
	return &fakeLines{lines: []*models.Line{line}},
		&fakeOrders{queues: map[uuid.UUID][]*models.WorkOrder{line.ID: nil}, pool: []*models.WorkOrder{wo}}
}

func TestRunAssignmentPersistsPlan(t *testing.T) {
	lines, orders := serviceFixture()
	lock := &fakeLock{}
	svc := newTestService(t, lines, orders, lock)

	report, err := svc.RunAssignment(context.Background(), AssignParams{Mode: enums.ScheduleModeBalanced})
	if err != nil {
		t.Fatalf("RunAssignment: %v", err)
	}
	if len(report.Assigned) != 1 {
		t.Fatalf("assigned %d, want 1", len(report.Assigned))
	}
	if len(orders.persisted) != 1 {
		t.Fatalf("persist calls: %d, want 1", len(orders.persisted))
	}
	if lock.acquired != 1 || lock.released != 1 {
		t.Fatalf("lock acquire=%d release=%d, want 1/1", lock.acquired, lock.released)
	}
}

func TestRunAssignmentDryRunSkipsPersist(t *testing.T) {
	lines, orders := serviceFixture()
	svc := newTestService(t, lines, orders, &fakeLock{})

	report, err := svc.RunAssignment(context.Background(), AssignParams{
		Mode: enums.ScheduleModeBalanced, DryRun: true,
	})
	if err != nil {
		t.Fatalf("RunAssignment: %v", err)
	}
	if len(report.Assigned) != 1 {
		t.Fatalf("dry run should still plan, got %d assigned", len(report.Assigned))
	}
	if len(orders.persisted) != 0 {
		t.Fatal("dry run must not persist")
	}
}

func TestRunAssignmentRejectsConcurrentRun(t *testing.T) {
	lines, orders := serviceFixture()
	lock := &fakeLock{held: true}
	svc := newTestService(t, lines, orders, lock)

	_, err := svc.RunAssignment(context.Background(), AssignParams{Mode: enums.ScheduleModeBalanced})
	if !errors.Is(err, errors.CodeConflict) {
		t.Fatalf("got %v, want conflict", err)
	}
	if len(orders.persisted) != 0 {
		t.Fatal("contended run must not persist")
	}
}

func TestRunAssignmentIsIdempotent(t *testing.T) {
	lines, orders := serviceFixture()
	svc := newTestService(t, lines, orders, &fakeLock{})

	first, err := svc.RunAssignment(context.Background(), AssignParams{Mode: enums.ScheduleModeBalanced})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}

	// The assigned order is now on the line's queue; the pool is empty.
	assigned := orders.pool[0]
	orders.queues[*assigned.LineID] = []*models.WorkOrder{assigned}
	orders.pool = nil

	second, err := svc.RunAssignment(context.Background(), AssignParams{Mode: enums.ScheduleModeBalanced})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(second.Assigned) != 0 {
		t.Fatalf("second run re-placed %d orders", len(second.Assigned))
	}
	if first.Assigned[0].LineID != *assigned.LineID || *assigned.Position != 1 {
		t.Fatal("assignment changed between identical runs")
	}
	if !assigned.ScheduledStartDate.Equal(date(2026, time.January, 5)) {
		t.Fatalf("scheduled start drifted: %v", assigned.ScheduledStartDate)
	}
}

func TestComputeQueueDatesPersistsProjection(t *testing.T) {
	line := namedLine("SMT-1", 1)
	a := poolOrder("WO-1", "Acme", enums.PriorityFactoryDefault, date(2026, time.February, 2), 480)
	lineID := line.ID
	posA := 1
	a.LineID = &lineID
	a.Position = &posA
	b := poolOrder("WO-2", "Acme", enums.PriorityFactoryDefault, date(2026, time.February, 2), 480)
	posB := 2
	b.LineID = &lineID
	b.Position = &posB

	lines := &fakeLines{lines: []*models.Line{line}}
	orders := &fakeOrders{queues: map[uuid.UUID][]*models.WorkOrder{line.ID: {a, b}}}
	svc := newTestService(t, lines, orders, nil)

	projection, err := svc.ComputeQueueDates(context.Background(), line.ID)
	if err != nil {
		t.Fatalf("ComputeQueueDates: %v", err)
	}
	if len(projection.Orders) != 2 {
		t.Fatalf("projection has %d orders, want 2", len(projection.Orders))
	}
	monday := date(2026, time.January, 5)
	if got := projection.Orders[0]; got.StartDate == nil || !got.StartDate.Equal(monday) {
		t.Fatalf("first order start: %+v", got)
	}
	if got := projection.Orders[1]; got.StartDate == nil || !got.StartDate.Equal(monday.AddDate(0, 0, 1)) {
		t.Fatalf("second order start: %+v", got)
	}
	if len(orders.persisted) != 1 {
		t.Fatalf("persist calls: %d, want 1", len(orders.persisted))
	}
}

func TestComputeQueueDatesUnknownLine(t *testing.T) {
	lines := &fakeLines{}
	svc := newTestService(t, lines, &fakeOrders{}, nil)

	_, err := svc.ComputeQueueDates(context.Background(), uuid.New())
	if !errors.Is(err, errors.CodeNotFound) {
		t.Fatalf("got %v, want not found", err)
	}
}
