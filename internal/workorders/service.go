package workorders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lineflow-mfg/lineflow-backend/internal/scheduling"
	"github.com/lineflow-mfg/lineflow-backend/pkg/clock"
	"github.com/lineflow-mfg/lineflow-backend/pkg/db/models"
	"github.com/lineflow-mfg/lineflow-backend/pkg/enums"
	"github.com/lineflow-mfg/lineflow-backend/pkg/errors"
	"github.com/lineflow-mfg/lineflow-backend/pkg/logger"
)

// LineFinder is the slice of the lines repository this service needs.
type LineFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Line, error)
}

type ServiceParams struct {
	Logg         *logger.Logger
	Repo         *Repository
	Lines        LineFinder
	Clock        clock.Clock
	TrolleyLimit int
}

// Service owns work order lifecycle: intake, updates, manual placement,
// locking and completion.
type Service struct {
	logg         *logger.Logger
	repo         *Repository
	lines        LineFinder
	clock        clock.Clock
	trolleyLimit int
}

func NewService(p ServiceParams) (*Service, error) {
	if p.Repo == nil || p.Lines == nil {
		return nil, errors.New(errors.CodeInternal, "workorders service requires repository and line finder")
	}
	if p.Logg == nil {
		p.Logg = logger.Nop()
	}
	if p.TrolleyLimit <= 0 {
		p.TrolleyLimit = 24
	}
	if p.Clock == nil {
		p.Clock = clock.NewReal(time.Local)
	}
	return &Service{
		logg:         p.Logg,
		repo:         p.Repo,
		lines:        p.Lines,
		clock:        p.Clock,
		trolleyLimit: p.TrolleyLimit,
	}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.WorkOrder, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*models.WorkOrder, error) {
	return s.repo.List(ctx, filter)
}

// Create registers a work order and seeds its derived planning fields.
func (s *Service) Create(ctx context.Context, params CreateParams) (*models.WorkOrder, error) {
	if params.Priority != "" && !params.Priority.Valid() {
		return nil, errors.New(errors.CodeValidation, "unknown priority %q", params.Priority)
	}

	wo := &models.WorkOrder{
		Number:            strings.TrimSpace(params.Number),
		Customer:          strings.TrimSpace(params.Customer),
		Assembly:          params.Assembly,
		Revision:          params.Revision,
		Quantity:          params.Quantity,
		Priority:          params.Priority,
		Status:            params.Status,
		Location:          params.Location,
		KitStatus:         params.KitStatus,
		Sides:             params.Sides,
		TrolleyCount:      params.TrolleyCount,
		ProcessingMinutes: params.ProcessingMinutes,
		PromiseDate:       params.PromiseDate,
		Notes:             params.Notes,
	}
	if wo.Priority == "" {
		wo.Priority = enums.PriorityFactoryDefault
	}
	if wo.Status == "" {
		wo.Status = enums.StatusClearToBuild
	}
	if wo.KitStatus == "" {
		wo.KitStatus = enums.KitStatusNA
	}
	if wo.Sides == "" {
		wo.Sides = enums.SideSingle
	}
	s.refreshDerived(wo)

	if err := s.repo.Create(ctx, wo); err != nil {
		if errors.IsUniqueViolation(err) {
			return nil, errors.New(errors.CodeConflict, "work order %q already exists", wo.Number)
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "creating work order")
	}
	s.logg.WithOrderNumber(wo.Number).Info().Str("customer", wo.Customer).Msg("work order created")
	return wo, nil
}

// Update applies partial changes and recomputes derived fields. Locked
// orders accept no changes until unlocked.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*models.WorkOrder, error) {
	wo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wo.IsLocked {
		return nil, errors.New(errors.CodeStateConflict, "work order %s is locked", wo.Number)
	}

	if params.Customer != nil {
		wo.Customer = strings.TrimSpace(*params.Customer)
	}
	if params.Quantity != nil {
		wo.Quantity = *params.Quantity
	}
	if params.Priority != nil {
		if !params.Priority.Valid() {
			return nil, errors.New(errors.CodeValidation, "unknown priority %q", *params.Priority)
		}
		wo.Priority = *params.Priority
	}
	if params.Status != nil {
		wo.Status = *params.Status
	}
	if params.Location != nil {
		wo.Location = *params.Location
	}
	if params.KitStatus != nil {
		wo.KitStatus = *params.KitStatus
	}
	if params.TrolleyCount != nil {
		wo.TrolleyCount = *params.TrolleyCount
	}
	if params.ProcessingMinutes != nil {
		wo.ProcessingMinutes = *params.ProcessingMinutes
	}
	if params.PromiseDate != nil {
		wo.PromiseDate = params.PromiseDate
	}
	if params.Notes != nil {
		wo.Notes = params.Notes
	}
	s.refreshDerived(wo)

	if err := s.repo.Update(ctx, wo); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "updating work order")
	}
	return wo, nil
}

// ManualAssign pins an order onto a line at a position, bypassing the
// optimizer but not the trolley limit.
func (s *Service) ManualAssign(ctx context.Context, id uuid.UUID, params ManualAssignParams) (*models.WorkOrder, error) {
	wo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wo.IsLocked {
		return nil, errors.New(errors.CodeStateConflict, "work order %s is locked", wo.Number)
	}
	if wo.IsComplete {
		return nil, errors.New(errors.CodeStateConflict, "work order %s is complete", wo.Number)
	}

	if params.StartAt != nil && s.clock != nil && params.StartAt.Before(s.clock.Now()) {
		return nil, errors.New(errors.CodeValidation, "manual start time is in the past")
	}

	line, err := s.lines.FindByID(ctx, params.LineID)
	if err != nil {
		return nil, err
	}
	if !line.IsActive {
		return nil, errors.New(errors.CodeStateConflict, "line %s is inactive", line.Name)
	}

	queue, err := s.repo.QueueForLine(ctx, params.LineID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "loading line queue")
	}

	position := params.Position
	if position == 0 || position > len(queue)+1 {
		position = len(queue) + 1
	}

	if position <= 2 {
		front := wo.TrolleyCount
		for i, queued := range queue {
			if queued.ID == wo.ID {
				continue
			}
			// Positions shift down one past the insertion point.
			effective := i + 1
			if effective >= position {
				effective++
			}
			if effective <= 2 {
				front += queued.TrolleyCount
			}
		}
		if front > s.trolleyLimit {
			return nil, errors.New(errors.CodeConflict,
				"placing %s at position %d would stage %d trolleys, limit is %d",
				wo.Number, position, front, s.trolleyLimit)
		}
	}

	err = s.repo.Tx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.ShiftPositions(ctx, tx, params.LineID, position); err != nil {
			return err
		}
		lineID := params.LineID
		wo.LineID = &lineID
		wo.Position = &position
		wo.IsManualSchedule = true
		wo.ManualStartAt = params.StartAt
		return tx.Model(wo).
			Select("line_id", "position", "is_manual_schedule", "manual_start_at", "updated_at").
			Updates(wo).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "assigning work order")
	}

	s.logg.WithOrderNumber(wo.Number).Info().
		Str("line", line.Name).Int("position", position).Msg("work order manually assigned")
	return wo, nil
}

// Unassign returns an order to the pool, releasing the manual pin.
func (s *Service) Unassign(ctx context.Context, id uuid.UUID) (*models.WorkOrder, error) {
	wo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wo.IsLocked {
		return nil, errors.New(errors.CodeStateConflict, "work order %s is locked", wo.Number)
	}
	wo.ClearAssignment()
	wo.IsManualSchedule = false
	wo.ManualStartAt = nil
	if err := s.repo.Update(ctx, wo); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "unassigning work order")
	}
	return wo, nil
}

// SetLocked freezes or releases an order's assignment and projections.
func (s *Service) SetLocked(ctx context.Context, id uuid.UUID, locked bool) (*models.WorkOrder, error) {
	wo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	wo.IsLocked = locked
	if err := s.repo.Update(ctx, wo); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "updating lock state")
	}
	return wo, nil
}

// Complete marks an order finished, freeing its queue slot and trolleys.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*models.WorkOrder, error) {
	wo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wo.IsComplete {
		return wo, nil
	}
	wo.IsComplete = true
	if err := s.repo.Update(ctx, wo); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "completing work order")
	}
	s.logg.WithOrderNumber(wo.Number).Info().Msg("work order completed")
	return wo, nil
}

// TrolleysInUse reports floor-wide staged trolleys for the capacity view.
func (s *Service) TrolleysInUse(ctx context.Context) (int, error) {
	return s.repo.TrolleysInUse(ctx)
}

// refreshDerived recomputes setup hours and the promise projections from
// the order's own attributes.
func (s *Service) refreshDerived(wo *models.WorkOrder) {
	wo.SetupHours = scheduling.SetupHoursForTrolleys(wo.TrolleyCount)

	if wo.PromiseDate == nil {
		wo.AdjustedPromiseDate = nil
		wo.MinStartDate = nil
		wo.EarliestCompletionDate = nil
		return
	}
	adjusted := scheduling.AdjustedPromiseDate(scheduling.Midnight(*wo.PromiseDate), wo.KitStatus)
	wo.AdjustedPromiseDate = &adjusted

	total := wo.ProcessingMinutes + wo.SetupHours*60
	minStart := scheduling.MinStartDate(adjusted, total, scheduling.DefaultHoursPerDay, 1)
	wo.MinStartDate = &minStart
	// The forward projection cannot begin before today, so an order whose
	// start window has closed shows a completion past its promise.
	begin := minStart
	if today := s.clock.Today(); begin.Before(today) {
		begin = today
	}
	earliest := scheduling.EarliestCompletionDate(begin, total, scheduling.DefaultHoursPerDay, 1)
	wo.EarliestCompletionDate = &earliest
}
