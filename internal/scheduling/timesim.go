package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/lineflow-mfg/lineflow-backend/pkg/db/models"
)

// Defaults when a line has no usable shift or config row.
const (
	defaultShiftStartMinute = 7*60 + 30  // 07:30
	defaultShiftEndMinute   = 16*60 + 30 // 16:30
	defaultLunchStartMinute = 11*60 + 30
	defaultLunchEndMinute   = 12*60 + 30
	defaultBufferMinutes    = 15.0
	defaultRoundingMinutes  = 15
)

// QueueTimes is the projected clock window for one queued work order.
type QueueTimes struct {
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

// shiftWindow is a same-day working window in minutes from midnight, with
// End in (0, 1440].
type shiftWindow struct {
	Start  int
	End    int
	Breaks []breakWindow
}

type breakWindow struct {
	Start int
	End   int
}

// shiftWindowFor picks the line's primary shift for clock-time simulation:
// the active shift with the lowest shift number. Lines without one get the
// default 07:30-16:30 day with an unpaid lunch. Cross-midnight shifts clamp
// at midnight here; date-level capacity still counts their full span.
func shiftWindowFor(line *models.Line) shiftWindow {
	var picked *models.Shift
	for i := range line.Shifts {
		sh := &line.Shifts[i]
		if !sh.IsActive {
			continue
		}
		if picked == nil || sh.ShiftNumber < picked.ShiftNumber {
			picked = sh
		}
	}
	if picked == nil {
		return defaultWindow()
	}

	start, ok := parseClock(picked.StartTime)
	if !ok {
		return defaultWindow()
	}
	end, ok := parseClock(picked.EndTime)
	if !ok {
		return defaultWindow()
	}
	if end <= start {
		end = minutesPerDay
	}

	win := shiftWindow{Start: start, End: end}
	for _, br := range picked.Breaks {
		bs, ok := parseClock(br.StartTime)
		if !ok {
			continue
		}
		be, ok := parseClock(br.EndTime)
		if !ok || be <= bs {
			continue
		}
		win.Breaks = append(win.Breaks, breakWindow{Start: bs, End: be})
	}
	return win
}

func defaultWindow() shiftWindow {
	return shiftWindow{
		Start: defaultShiftStartMinute,
		End:   defaultShiftEndMinute,
		Breaks: []breakWindow{
			{Start: defaultLunchStartMinute, End: defaultLunchEndMinute},
		},
	}
}

func configFor(line *models.Line) (buffer float64, rounding int) {
	buffer, rounding = defaultBufferMinutes, defaultRoundingMinutes
	if line.Config != nil {
		if line.Config.BufferMinutes >= 0 {
			buffer = line.Config.BufferMinutes
		}
		if line.Config.RoundingMinutes > 0 {
			rounding = line.Config.RoundingMinutes
		}
	}
	return buffer, rounding
}

// RoundUpToInterval snaps ts up to the next interval boundary, leaving exact
// boundaries alone.
func RoundUpToInterval(ts time.Time, minutes int) time.Time {
	if minutes <= 0 {
		return ts
	}
	interval := time.Duration(minutes) * time.Minute
	rounded := ts.Truncate(interval)
	if rounded.Before(ts) {
		rounded = rounded.Add(interval)
	}
	return rounded
}

func withClock(day time.Time, minutes int) time.Time {
	return Midnight(day).Add(time.Duration(minutes) * time.Minute)
}

func nextBusinessDay(after time.Time) time.Time {
	day := Midnight(after).AddDate(0, 0, 1)
	for IsWeekend(day) {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// breakEndAt returns the end of the break containing ts, if any.
func breakEndAt(ts time.Time, win shiftWindow) (time.Time, bool) {
	for _, br := range win.Breaks {
		bs := withClock(ts, br.Start)
		be := withClock(ts, br.End)
		if !ts.Before(bs) && ts.Before(be) {
			return be, true
		}
	}
	return time.Time{}, false
}

// nextBreakStart returns the earliest break boundary strictly after ts and
// before the shift end.
func nextBreakStart(ts, shiftEnd time.Time, win shiftWindow) (time.Time, bool) {
	var best time.Time
	found := false
	for _, br := range win.Breaks {
		bs := withClock(ts, br.Start)
		if bs.After(ts) && bs.Before(shiftEnd) && (!found || bs.Before(best)) {
			best = bs
			found = true
		}
	}
	return best, found
}

// AddWorkTime advances a timestamp by the given working minutes, pausing for
// breaks, stopping at shift end, and resuming at the next weekday's shift
// start. A positive buffer is appended as additional working minutes, so a
// job ending at shift close spills its buffer into the next morning.
//
// The walk gives up a year out; a window fully eaten by breaks would
// otherwise never make progress.
func AddWorkTime(start time.Time, minutes float64, win shiftWindow, buffer float64) time.Time {
	deadline := start.AddDate(1, 0, 0)

	cur := start
	remaining := minutes
	for remaining > 0 && cur.Before(deadline) {
		if be, in := breakEndAt(cur, win); in {
			cur = be
			continue
		}

		shiftStart := withClock(cur, win.Start)
		shiftEnd := withClock(cur, win.End)
		if IsWeekend(cur) || !cur.Before(shiftEnd) {
			cur = withClock(nextBusinessDay(cur), win.Start)
			continue
		}
		if cur.Before(shiftStart) {
			cur = shiftStart
			continue
		}

		boundary := shiftEnd
		if bs, ok := nextBreakStart(cur, shiftEnd, win); ok {
			boundary = bs
		}

		available := boundary.Sub(cur).Minutes()
		if remaining <= available {
			cur = cur.Add(time.Duration(remaining * float64(time.Minute)))
			remaining = 0
		} else {
			remaining -= available
			cur = boundary
		}
	}

	if buffer > 0 {
		return AddWorkTime(cur, buffer, win, 0)
	}
	return cur
}

// NextAvailableStart finds the first moment at or after `after` when a job
// may begin: inside the shift window, on a weekday, outside breaks, snapped
// up to the rounding interval.
func NextAvailableStart(after time.Time, win shiftWindow, roundingMinutes int) time.Time {
	cur := RoundUpToInterval(after, roundingMinutes)
	deadline := after.AddDate(1, 0, 0)

	for cur.Before(deadline) {
		shiftStart := withClock(cur, win.Start)
		shiftEnd := withClock(cur, win.End)

		if IsWeekend(cur) || !cur.Before(shiftEnd) {
			cur = RoundUpToInterval(withClock(nextBusinessDay(cur), win.Start), roundingMinutes)
			continue
		}
		if cur.Before(shiftStart) {
			cur = RoundUpToInterval(shiftStart, roundingMinutes)
			continue
		}
		if be, in := breakEndAt(cur, win); in {
			cur = RoundUpToInterval(be, roundingMinutes)
			continue
		}
		return cur
	}
	return cur
}

// SimulateQueueTimes projects clock-level start and end stamps for a line's
// queue, running jobs back to back from now with the line's buffer between
// them. Locked orders keep their stored stamps. Manual start anchors hold a
// job until its requested time even when the line frees up earlier.
func SimulateQueueTimes(line *models.Line, queue []*models.WorkOrder, now time.Time) map[uuid.UUID]QueueTimes {
	win := shiftWindowFor(line)
	buffer, rounding := configFor(line)

	result := make(map[uuid.UUID]QueueTimes, len(queue))
	cursor := now
	for _, wo := range queue {
		if wo.IsLocked && wo.CalculatedStartAt != nil && wo.CalculatedEndAt != nil {
			result[wo.ID] = QueueTimes{StartAt: *wo.CalculatedStartAt, EndAt: *wo.CalculatedEndAt}
			if wo.CalculatedEndAt.After(cursor) {
				cursor = *wo.CalculatedEndAt
			}
			continue
		}

		anchor := cursor
		if wo.ManualStartAt != nil && wo.ManualStartAt.After(anchor) {
			anchor = *wo.ManualStartAt
		}

		start := NextAvailableStart(anchor, win, rounding)
		end := AddWorkTime(start, wo.TotalMinutes(line.TimeMultiplier), win, buffer)
		result[wo.ID] = QueueTimes{StartAt: start, EndAt: end}
		cursor = end
	}
	return result
}
