package capacity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lineflow-mfg/lineflow-backend/internal/scheduling"
	"github.com/lineflow-mfg/lineflow-backend/pkg/clock"
	"github.com/lineflow-mfg/lineflow-backend/pkg/db/models"
	"github.com/lineflow-mfg/lineflow-backend/pkg/enums"
	"github.com/lineflow-mfg/lineflow-backend/pkg/errors"
	"github.com/lineflow-mfg/lineflow-backend/pkg/logger"
)

const maxCalendarDays = 370

// LineSource is the slice of the lines repository this service needs.
type LineSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Line, error)
	ListForScheduling(ctx context.Context) ([]*models.Line, error)
}

// QueueSource provides line queues and pipeline counts for forecasting.
type QueueSource interface {
	QueueForLine(ctx context.Context, lineID uuid.UUID) ([]*models.WorkOrder, error)
	CountByLocation(ctx context.Context) (map[enums.Location]int, error)
}

type ServiceParams struct {
	Logg   *logger.Logger
	Repo   *Repository
	Lines  LineSource
	Queues QueueSource
	Clock  clock.Clock
}

// Service owns capacity overrides, the calendar view and the weekly
// capacity-versus-demand forecast.
type Service struct {
	logg   *logger.Logger
	repo   *Repository
	lines  LineSource
	queues QueueSource
	clock  clock.Clock
}

func NewService(p ServiceParams) (*Service, error) {
	if p.Repo == nil || p.Lines == nil {
		return nil, errors.New(errors.CodeInternal, "capacity service requires repository and line source")
	}
	if p.Logg == nil {
		p.Logg = logger.Nop()
	}
	if p.Clock == nil {
		p.Clock = clock.NewReal(time.Local)
	}
	return &Service{
		logg:   p.Logg,
		repo:   p.Repo,
		lines:  p.Lines,
		queues: p.Queues,
		clock:  p.Clock,
	}, nil
}

func (s *Service) ListOverrides(ctx context.Context, lineID uuid.UUID) ([]*models.CapacityOverride, error) {
	if _, err := s.lines.FindByID(ctx, lineID); err != nil {
		return nil, err
	}
	return s.repo.ListForLine(ctx, lineID)
}

// CreateOverride stores a capacity override, rejecting any range that
// overlaps an existing one on the same line.
func (s *Service) CreateOverride(ctx context.Context, params OverrideParams) (*models.CapacityOverride, error) {
	if _, err := s.lines.FindByID(ctx, params.LineID); err != nil {
		return nil, err
	}
	start := scheduling.Midnight(params.StartDate)
	end := scheduling.Midnight(params.EndDate)
	if end.Before(start) {
		return nil, errors.New(errors.CodeValidation, "override end date precedes start date")
	}

	overlapping, err := s.repo.FindOverlapping(ctx, params.LineID, start, end, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "checking override overlap")
	}
	if len(overlapping) > 0 {
		return nil, errors.New(errors.CodeConflict,
			"override overlaps an existing one starting %s",
			overlapping[0].StartDate.Format("2006-01-02")).
			WithMeta("conflicting_override_id", overlapping[0].ID)
	}

	ov := &models.CapacityOverride{
		LineID:     params.LineID,
		StartDate:  start,
		EndDate:    end,
		TotalHours: params.TotalHours,
		Reason:     params.Reason,
	}
	if err := s.repo.Create(ctx, ov); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "creating capacity override")
	}
	s.logg.WithLineID(params.LineID).Info().
		Str("start", start.Format("2006-01-02")).
		Str("end", end.Format("2006-01-02")).
		Float64("hours", params.TotalHours).
		Msg("capacity override created")
	return ov, nil
}

// UpdateOverride replaces an override's range and hours with the same
// overlap check.
func (s *Service) UpdateOverride(ctx context.Context, id uuid.UUID, params OverrideParams) (*models.CapacityOverride, error) {
	ov, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	start := scheduling.Midnight(params.StartDate)
	end := scheduling.Midnight(params.EndDate)
	if end.Before(start) {
		return nil, errors.New(errors.CodeValidation, "override end date precedes start date")
	}

	overlapping, err := s.repo.FindOverlapping(ctx, ov.LineID, start, end, &id)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "checking override overlap")
	}
	if len(overlapping) > 0 {
		return nil, errors.New(errors.CodeConflict,
			"override overlaps an existing one starting %s",
			overlapping[0].StartDate.Format("2006-01-02"))
	}

	ov.StartDate = start
	ov.EndDate = end
	ov.TotalHours = params.TotalHours
	ov.Reason = params.Reason
	if err := s.repo.Update(ctx, ov); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "updating capacity override")
	}
	return ov, nil
}

func (s *Service) DeleteOverride(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// AddOvertime is the planner's one-day shortcut, stored as a single-day
// override.
func (s *Service) AddOvertime(ctx context.Context, params OvertimeParams) (*models.CapacityOverride, error) {
	return s.CreateOverride(ctx, OverrideParams{
		LineID:     params.LineID,
		StartDate:  params.Date,
		EndDate:    params.Date,
		TotalHours: params.Hours,
		Reason:     params.Reason,
	})
}

// Calendar resolves a line's capacity day by day over an inclusive range.
func (s *Service) Calendar(ctx context.Context, lineID uuid.UUID, start, end time.Time) (*LineCalendar, error) {
	line, err := s.lines.FindByID(ctx, lineID)
	if err != nil {
		return nil, err
	}
	from := scheduling.Midnight(start)
	to := scheduling.Midnight(end)
	if to.Before(from) {
		return nil, errors.New(errors.CodeValidation, "calendar end precedes start")
	}
	if to.Sub(from).Hours()/24 > maxCalendarDays {
		return nil, errors.New(errors.CodeValidation, "calendar range exceeds %d days", maxCalendarDays)
	}

	cal := &LineCalendar{LineID: line.ID, LineName: line.Name}
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		cal.Days = append(cal.Days, scheduling.ResolveDay(line, day))
	}
	return cal, nil
}

// Forecast compares each scheduling-eligible line's available hours with
// its queued demand, week by week from the current week's Monday.
func (s *Service) Forecast(ctx context.Context, weeks int) ([]*LineForecast, error) {
	if weeks <= 0 {
		weeks = 8
	}
	if weeks > 52 {
		weeks = 52
	}

	lines, err := s.lines.ListForScheduling(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "loading lines")
	}

	monday := weekStart(s.clock.Today())
	forecasts := make([]*LineForecast, 0, len(lines))
	for _, line := range lines {
		lf := &LineForecast{LineID: line.ID, LineName: line.Name}

		demandByWeek := make([]float64, weeks)
		lateByWeek := make([]int, weeks)
		if s.queues != nil {
			queue, err := s.queues.QueueForLine(ctx, line.ID)
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeInternal, "loading queue for %s", line.Name)
			}
			for _, wo := range queue {
				if wo.ScheduledEndDate == nil {
					continue
				}
				week := int(scheduling.Midnight(*wo.ScheduledEndDate).Sub(monday).Hours() / 24 / 7)
				if week >= 0 && week < weeks {
					demandByWeek[week] += wo.TotalMinutes(line.TimeMultiplier) / 60
					if wo.PromiseVarianceDays != nil && *wo.PromiseVarianceDays > 0 {
						lateByWeek[week]++
					}
				}
			}
		}

		for w := 0; w < weeks; w++ {
			ws := monday.AddDate(0, 0, w*7)
			available := 0.0
			for d := 0; d < 7; d++ {
				day := ws.AddDate(0, 0, d)
				if scheduling.IsWeekend(day) {
					// Weekend work only happens via overrides.
					if dc := scheduling.ResolveDay(line, day); dc.Source == scheduling.SourceOverride {
						available += dc.Hours
					}
					continue
				}
				available += scheduling.CapacityForDate(line, day)
			}

			wf := WeekForecast{
				WeekStart:      ws,
				AvailableHours: available,
				DemandHours:    demandByWeek[w],
				LateOrders:     lateByWeek[w],
			}
			if available > 0 {
				wf.Utilization = wf.DemandHours / available
			}
			lf.Weeks = append(lf.Weeks, wf)
		}
		forecasts = append(forecasts, lf)
	}
	return forecasts, nil
}

// Pipeline summarizes incomplete work orders by current location, showing
// what is upstream of the floor versus already in production.
func (s *Service) Pipeline(ctx context.Context) (map[enums.Location]int, error) {
	if s.queues == nil {
		return map[enums.Location]int{}, nil
	}
	return s.queues.CountByLocation(ctx)
}

// weekStart returns the Monday of the week containing day.
func weekStart(day time.Time) time.Time {
	d := scheduling.Midnight(day)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
