package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lineflow-mfg/lineflow-backend/pkg/clock"
	"github.com/lineflow-mfg/lineflow-backend/pkg/config"
	"github.com/lineflow-mfg/lineflow-backend/pkg/db/models"
	"github.com/lineflow-mfg/lineflow-backend/pkg/enums"
	"github.com/lineflow-mfg/lineflow-backend/pkg/errors"
	"github.com/lineflow-mfg/lineflow-backend/pkg/logger"
	"github.com/lineflow-mfg/lineflow-backend/pkg/metrics"
)

// LineSource loads lines for the engine with shifts, breaks, config and
// overrides preloaded.
type LineSource interface {
	ListForScheduling(ctx context.Context) ([]*models.Line, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Line, error)
}

// OrderSource loads and persists work order scheduling state.
type OrderSource interface {
	ListQueues(ctx context.Context, lineIDs []uuid.UUID) (map[uuid.UUID][]*models.WorkOrder, error)
	ListUnassignedEligible(ctx context.Context) ([]*models.WorkOrder, error)
	QueueForLine(ctx context.Context, lineID uuid.UUID) ([]*models.WorkOrder, error)
	// PersistPlan writes every order's scheduling fields in one transaction.
	PersistPlan(ctx context.Context, orders []*models.WorkOrder) error
}

// Locker serializes assignment runs.
type Locker interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type ServiceParams struct {
	Logg    *logger.Logger
	Lines   LineSource
	Orders  OrderSource
	Lock    Locker
	Metrics *metrics.Scheduler
	Clock   clock.Clock
	Cfg     config.Scheduling
}

// Service exposes the two engine operations: the full assignment run and
// the per-line queue recomputation.
type Service struct {
	logg    *logger.Logger
	lines   LineSource
	orders  OrderSource
	lock    Locker
	metrics *metrics.Scheduler
	clock   clock.Clock
	cfg     config.Scheduling
}

func NewService(p ServiceParams) (*Service, error) {
	if p.Lines == nil || p.Orders == nil {
		return nil, errors.New(errors.CodeInternal, "scheduling service requires line and order sources")
	}
	if p.Logg == nil {
		p.Logg = logger.Nop()
	}
	if p.Clock == nil {
		p.Clock = clock.NewReal(time.Local)
	}
	return &Service{
		logg:    p.Logg,
		lines:   p.Lines,
		orders:  p.Orders,
		lock:    p.Lock,
		metrics: p.Metrics,
		clock:   p.Clock,
		cfg:     p.Cfg,
	}, nil
}

// RunAssignment executes one optimizer pass under the run lock and, unless
// dry-run, persists the resulting plan. Re-running with unchanged inputs
// reproduces the same plan.
func (s *Service) RunAssignment(ctx context.Context, params AssignParams) (*RunReport, error) {
	if !params.Mode.Valid() {
		params.Mode = enums.ScheduleModeBalanced
	}

	if s.lock != nil {
		ok, err := s.lock.Acquire(ctx)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeDependency, "acquiring run lock")
		}
		if !ok {
			if s.metrics != nil {
				s.metrics.RunLockContended()
			}
			return nil, errors.New(errors.CodeConflict, "an assignment run is already in progress")
		}
		defer func() {
			if err := s.lock.Release(ctx); err != nil {
				s.logg.Warn().Err(err).Msg("releasing run lock")
			}
		}()
	}

	started := time.Now()

	lines, err := s.lines.ListForScheduling(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "loading lines")
	}
	lineIDs := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		lineIDs = append(lineIDs, l.ID)
	}

	queues, err := s.orders.ListQueues(ctx, lineIDs)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "loading queues")
	}
	pool, err := s.orders.ListUnassignedEligible(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "loading unassigned pool")
	}

	// Everything loaded is a persistence candidate; eviction can mutate
	// orders that never get re-placed.
	touched := make([]*models.WorkOrder, 0, len(pool))
	for _, q := range queues {
		touched = append(touched, q...)
	}
	touched = append(touched, pool...)
	touched = dedupeOrders(touched)

	opt := &Optimizer{
		TrolleyLimit:  s.cfg.TrolleyLimit,
		TrolleyWarnAt: s.cfg.TrolleyWarnAt,
		LookaheadDays: s.cfg.LookaheadDays,
		Logg:          s.logg,
	}
	report := opt.Run(s.clock.Now(), lines, queues, pool, params)

	if !params.DryRun {
		if err := s.orders.PersistPlan(ctx, touched); err != nil {
			if s.metrics != nil {
				s.metrics.RunCompleted("error", time.Since(started))
			}
			return nil, errors.Wrap(err, errors.CodeInternal, "persisting assignment plan")
		}
	}

	if s.metrics != nil {
		s.metrics.RunCompleted("ok", time.Since(started))
		s.metrics.OrdersAssigned(len(report.Assigned))
		s.metrics.OrdersUnassigned(len(report.Unassigned))
		s.metrics.OrdersLate(report.LateOrders)
		for _, line := range lines {
			s.metrics.QueueLength(line.Name, len(queues[line.ID]))
		}
	}

	s.logg.WithRunID(report.RunID).Info().
		Str("mode", string(report.Mode)).
		Bool("dry_run", report.DryRun).
		Int("assigned", len(report.Assigned)).
		Int("unassigned", len(report.Unassigned)).
		Int("evicted", len(report.Evicted)).
		Int("late", report.LateOrders).
		Dur("took", time.Since(started)).
		Msg("assignment run finished")

	return report, nil
}

// QueueProjection is the recomputed schedule for one line's queue.
type QueueProjection struct {
	LineID     uuid.UUID             `json:"line_id"`
	LineName   string                `json:"line_name"`
	ComputedAt time.Time             `json:"computed_at"`
	Orders     []QueueProjectionItem `json:"orders"`
}

type QueueProjectionItem struct {
	WorkOrderID  uuid.UUID  `json:"work_order_id"`
	Number       string     `json:"wo_number"`
	Position     int        `json:"position"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	StartAt      *time.Time `json:"start_at,omitempty"`
	EndAt        *time.Time `json:"end_at,omitempty"`
	VarianceDays *int       `json:"variance_days,omitempty"`
}

// ComputeQueueDates re-simulates one line's queue from now, persists the
// refreshed projections, and returns them. Locked orders pass through with
// their stored values.
func (s *Service) ComputeQueueDates(ctx context.Context, lineID uuid.UUID) (*QueueProjection, error) {
	line, err := s.lines.FindByID(ctx, lineID)
	if err != nil {
		return nil, err
	}
	queue, err := s.orders.QueueForLine(ctx, lineID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "loading queue for line %s", lineID)
	}

	started := time.Now()
	now := s.clock.Now()
	dates, simErr := SimulateQueueDates(line, queue, now, s.cfg.LookaheadDays)
	times := SimulateQueueTimes(line, queue, now)
	if s.metrics != nil {
		s.metrics.SimulationTook("queue_dates", time.Since(started))
	}

	projection := &QueueProjection{
		LineID:     line.ID,
		LineName:   line.Name,
		ComputedAt: now,
		Orders:     make([]QueueProjectionItem, 0, len(queue)),
	}

	for i, wo := range queue {
		if !wo.IsLocked {
			if d, ok := dates[wo.ID]; ok {
				start, end := d.Start, d.End
				wo.ScheduledStartDate = &start
				wo.ScheduledEndDate = &end
			}
			if t, ok := times[wo.ID]; ok {
				startAt, endAt := t.StartAt, t.EndAt
				wo.CalculatedStartAt = &startAt
				wo.CalculatedEndAt = &endAt
			}
			updateVariance(wo)
		}

		position := i + 1
		if wo.Position != nil {
			position = *wo.Position
		}
		projection.Orders = append(projection.Orders, QueueProjectionItem{
			WorkOrderID:  wo.ID,
			Number:       wo.Number,
			Position:     position,
			StartDate:    wo.ScheduledStartDate,
			EndDate:      wo.ScheduledEndDate,
			StartAt:      wo.CalculatedStartAt,
			EndAt:        wo.CalculatedEndAt,
			VarianceDays: wo.PromiseVarianceDays,
		})
	}

	if err := s.orders.PersistPlan(ctx, queue); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "persisting queue projection")
	}

	if simErr != nil {
		s.logg.WithLineID(lineID).Warn().Err(simErr).Msg("queue simulation finished with per-order errors")
	}
	return projection, nil
}
