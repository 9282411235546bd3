package scheduling

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/lineflow-mfg/lineflow-backend/pkg/db/models"
	"github.com/lineflow-mfg/lineflow-backend/pkg/errors"
)

// DefaultLookaheadDays bounds calendar walks when the caller passes no
// explicit limit.
const DefaultLookaheadDays = 730

// QueueDates is the projected date window for one queued work order.
type QueueDates struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SimulateQueueDates runs a line's queue in position order from today and
// projects a start and end date for every order. Each day contributes its
// resolved capacity; weekends and zero-capacity days pass without progress.
// Jobs run strictly in sequence, so the cursor only moves forward.
//
// Locked orders keep their stored dates and only advance the cursor.
//
// A single pathological order (or a line with no working days inside the
// lookahead window) yields an attributed error for that order; the rest of
// the queue still gets dates. The combined error carries every failure.
func SimulateQueueDates(line *models.Line, queue []*models.WorkOrder, today time.Time, lookaheadDays int) (map[uuid.UUID]QueueDates, error) {
	if lookaheadDays <= 0 {
		lookaheadDays = DefaultLookaheadDays
	}
	horizon := Midnight(today).AddDate(0, 0, lookaheadDays)

	result := make(map[uuid.UUID]QueueDates, len(queue))
	var errs error

	cursor := Midnight(today)
	for _, wo := range queue {
		if wo.IsLocked && wo.ScheduledStartDate != nil && wo.ScheduledEndDate != nil {
			result[wo.ID] = QueueDates{
				Start: Midnight(*wo.ScheduledStartDate),
				End:   Midnight(*wo.ScheduledEndDate),
			}
			if next := Midnight(*wo.ScheduledEndDate).AddDate(0, 0, 1); next.After(cursor) {
				cursor = next
			}
			continue
		}

		remaining := wo.TotalMinutes(line.TimeMultiplier)
		if remaining < 0 {
			errs = multierr.Append(errs, errors.New(errors.CodeValidation,
				"work order %s has negative duration", wo.Number).
				WithMeta("work_order_id", wo.ID))
			continue
		}

		start, ok := nextWorkingDay(line, cursor, horizon)
		if !ok {
			errs = multierr.Append(errs, horizonError(line, wo))
			continue
		}

		day := start
		end := start
		for remaining > 0 {
			remaining -= CapacityForDate(line, day) * 60
			if remaining <= 0 {
				end = day
				break
			}
			day, ok = nextWorkingDay(line, day.AddDate(0, 0, 1), horizon)
			if !ok {
				break
			}
		}
		if remaining > 0 {
			errs = multierr.Append(errs, horizonError(line, wo))
			continue
		}

		result[wo.ID] = QueueDates{Start: start, End: end}
		cursor = end.AddDate(0, 0, 1)
	}

	return result, errs
}

// nextWorkingDay advances from onOrAfter to the first day with usable
// capacity, stopping at the horizon.
func nextWorkingDay(line *models.Line, onOrAfter, horizon time.Time) (time.Time, bool) {
	day := Midnight(onOrAfter)
	for day.Before(horizon) {
		if HasCapacity(line, day) {
			return day, true
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, false
}

func horizonError(line *models.Line, wo *models.WorkOrder) error {
	return errors.New(errors.CodeStateConflict,
		"work order %s cannot finish on line %s within the lookahead window", wo.Number, line.Name).
		WithMeta("work_order_id", wo.ID).
		WithMeta("line_id", line.ID)
}
