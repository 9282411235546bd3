package scheduling

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lineflow-mfg/lineflow-backend/pkg/db/models"
	"github.com/lineflow-mfg/lineflow-backend/pkg/enums"
	"github.com/lineflow-mfg/lineflow-backend/pkg/logger"
)

// Optimizer is the greedy assignment pass. It is pure in-memory: the caller
// loads lines and orders, hands them over, and persists the mutations the
// run makes (unless dry-run).
type Optimizer struct {
	TrolleyLimit  int
	TrolleyWarnAt int
	LookaheadDays int
	Logg          *logger.Logger
}

// lineState tracks a line's queue as the run appends to it.
type lineState struct {
	line    *models.Line
	queue   []*models.WorkOrder
	horizon time.Time
	// cursor is the first day the next appended job may start.
	cursor time.Time
	// frontTrolleys sums trolley counts in queue positions 1 and 2.
	frontTrolleys int
}

// Run plans assignments for every movable order. Inputs: the optimizer-
// eligible lines (active, not manual-only) with shifts, config and overrides
// preloaded; their current queues in position order (including locked and
// manual orders); and the unassigned eligible pool. All mutation happens on
// the passed orders, which the caller persists.
func (o *Optimizer) Run(now time.Time, lines []*models.Line, queues map[uuid.UUID][]*models.WorkOrder, pool []*models.WorkOrder, params AssignParams) *RunReport {
	report := &RunReport{
		RunID:         uuid.New(),
		Mode:          params.Mode,
		DryRun:        params.DryRun,
		ClearExisting: params.ClearExisting,
		StartedAt:     now,
		Assigned:      []AssignedOrder{},
		Unassigned:    []UnassignedOrder{},
		Evicted:       []string{},
		AtRisk:        []AtRiskOrder{},
		Lines:         []LineSummary{},
	}
	logg := o.Logg.WithRunID(report.RunID)
	today := Midnight(now)

	// Snapshot assignments before eviction and clearing wipe them, so the
	// report can diff old against new.
	prior := map[uuid.UUID]priorSpot{}
	for _, queue := range queues {
		for _, wo := range queue {
			var spot priorSpot
			if wo.LineID != nil {
				id := *wo.LineID
				spot.lineID = &id
			}
			if wo.Position != nil {
				pos := *wo.Position
				spot.position = &pos
			}
			prior[wo.ID] = spot
		}
	}

	lookahead := o.LookaheadDays
	if lookahead <= 0 {
		lookahead = DefaultLookaheadDays
	}
	horizon := today.AddDate(0, 0, lookahead)

	// Stable line order for reproducible tie-breaks.
	ordered := append([]*models.Line(nil), lines...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].OrderPosition != ordered[j].OrderPosition {
			return ordered[i].OrderPosition < ordered[j].OrderPosition
		}
		return ordered[i].Name < ordered[j].Name
	})

	pool = append([]*models.WorkOrder(nil), pool...)

	// Pull movable orders off lines that go down inside their scheduled
	// window; they rejoin the pool and may land elsewhere.
	for _, line := range ordered {
		kept := queues[line.ID][:0]
		for _, wo := range queues[line.ID] {
			if wo.Schedulable() && o.windowBlocked(line, wo) {
				logg.Info().Str("wo_number", wo.Number).Str("line", line.Name).
					Msg("evicting order from downed window")
				wo.ClearAssignment()
				pool = append(pool, wo)
				report.Evicted = append(report.Evicted, wo.Number)
				continue
			}
			kept = append(kept, wo)
		}
		queues[line.ID] = kept
	}

	if params.ClearExisting {
		for _, line := range ordered {
			kept := queues[line.ID][:0]
			for _, wo := range queues[line.ID] {
				if wo.Schedulable() {
					wo.ClearAssignment()
					pool = append(pool, wo)
					continue
				}
				kept = append(kept, wo)
			}
			queues[line.ID] = kept
		}
	}

	pool = dedupeOrders(pool)

	// Refresh derived planning fields, dropping orders the run cannot
	// reason about.
	var plannable []*models.WorkOrder
	for _, wo := range pool {
		if err := o.refreshDerived(wo, today); err != nil {
			report.Errors = append(report.Errors, err.Error())
			continue
		}
		plannable = append(plannable, wo)
	}

	sortForAssignment(plannable)

	states := make(map[uuid.UUID]*lineState, len(ordered))
	for _, line := range ordered {
		states[line.ID] = newLineState(line, queues[line.ID], today, horizon)
	}

	// Dedicated lines hold for their customer while any of that customer's
	// orders are still waiting.
	pendingDedicated := map[uuid.UUID]int{}
	for _, line := range ordered {
		if !line.IsDedicated || line.DedicatedCustomer == nil {
			continue
		}
		for _, wo := range plannable {
			if customerMatches(wo.Customer, *line.DedicatedCustomer) {
				pendingDedicated[line.ID]++
			}
		}
	}

	for _, wo := range plannable {
		best, projectedEnd, reason := o.pickLine(wo, ordered, states, pendingDedicated, params.Mode, report)
		if best == nil {
			report.Unassigned = append(report.Unassigned, UnassignedOrder{
				WorkOrderID: wo.ID, Number: wo.Number, Reason: reason,
			})
			continue
		}

		state := states[best.ID]
		position := nextPosition(state.queue)
		lineID := best.ID
		wo.LineID = &lineID
		wo.Position = &position
		state.append(wo, projectedEnd)

		if best.IsDedicated && best.DedicatedCustomer != nil &&
			customerMatches(wo.Customer, *best.DedicatedCustomer) {
			pendingDedicated[best.ID]--
		}

		end := projectedEnd
		report.Assigned = append(report.Assigned, AssignedOrder{
			WorkOrderID: wo.ID, Number: wo.Number,
			LineID: best.ID, LineName: best.Name,
			Position: position, ProjectedEnd: &end,
			PreviousLineID:   prior[wo.ID].lineID,
			PreviousPosition: prior[wo.ID].position,
		})
	}

	// Materialize dates and clock stamps for every line touched or not;
	// eviction may have shifted queues that gained nothing new.
	for _, line := range ordered {
		o.materialize(line, states[line.ID].queue, now, lookahead, report)
	}

	for _, wo := range plannable {
		if wo.Assigned() && isLate(wo) {
			report.LateOrders++
		}
	}

	flagged := map[uuid.UUID]bool{}
	for _, line := range ordered {
		for _, wo := range states[line.ID].queue {
			o.flagAtRisk(wo, flagged, report)
		}
	}
	for _, wo := range plannable {
		o.flagAtRisk(wo, flagged, report)
	}

	for _, line := range ordered {
		report.Lines = append(report.Lines, o.summarizeLine(line, states[line.ID].queue))
	}

	report.FinishedAt = now
	return report
}

// priorSpot is an order's assignment before the run touched it.
type priorSpot struct {
	lineID   *uuid.UUID
	position *int
}

func (o *Optimizer) flagAtRisk(wo *models.WorkOrder, flagged map[uuid.UUID]bool, report *RunReport) {
	if flagged[wo.ID] || wo.PromiseDate == nil || wo.EarliestCompletionDate == nil {
		return
	}
	flagged[wo.ID] = true
	if wo.EarliestCompletionDate.After(Midnight(*wo.PromiseDate)) {
		report.AtRisk = append(report.AtRisk, AtRiskOrder{
			WorkOrderID:        wo.ID,
			Number:             wo.Number,
			PromiseDate:        Midnight(*wo.PromiseDate),
			EarliestCompletion: *wo.EarliestCompletionDate,
		})
	}
}

func (o *Optimizer) summarizeLine(line *models.Line, queue []*models.WorkOrder) LineSummary {
	front := 0
	for i, wo := range queue {
		if i >= 2 {
			break
		}
		front += wo.TrolleyCount
	}
	s := LineSummary{
		LineID:        line.ID,
		LineName:      line.Name,
		QueueLength:   len(queue),
		FrontTrolleys: front,
		TrolleyLimit:  o.TrolleyLimit,
	}
	if o.TrolleyLimit > 0 {
		s.TrolleyUtilization = float64(front) / float64(o.TrolleyLimit)
	}
	return s
}

// windowBlocked reports whether planned downtime overlaps the order's
// scheduled window.
func (o *Optimizer) windowBlocked(line *models.Line, wo *models.WorkOrder) bool {
	if wo.ScheduledStartDate == nil || wo.ScheduledEndDate == nil {
		return false
	}
	day := Midnight(*wo.ScheduledStartDate)
	end := Midnight(*wo.ScheduledEndDate)
	for !day.After(end) {
		if !IsWeekend(day) && CapacityForDate(line, day) == 0 {
			return true
		}
		day = day.AddDate(0, 0, 1)
	}
	return false
}

// refreshDerived recomputes the planning fields that feed ranking and
// feasibility: setup hours, the working target, and the backward and forward
// single-job projections. The forward projection cannot start before today,
// so an order whose window has already closed shows a completion past its
// promise and surfaces as at-risk.
func (o *Optimizer) refreshDerived(wo *models.WorkOrder, today time.Time) error {
	if wo.ProcessingMinutes < 0 {
		return fmt.Errorf("work order %s: negative processing minutes", wo.Number)
	}
	wo.SetupHours = SetupHoursForTrolleys(wo.TrolleyCount)

	if wo.PromiseDate == nil {
		wo.AdjustedPromiseDate = nil
		wo.MinStartDate = nil
		wo.EarliestCompletionDate = nil
		return nil
	}

	adjusted := AdjustedPromiseDate(Midnight(*wo.PromiseDate), wo.KitStatus)
	wo.AdjustedPromiseDate = &adjusted

	total := wo.ProcessingMinutes + wo.SetupHours*60
	minStart := MinStartDate(adjusted, total, DefaultHoursPerDay, 1)
	wo.MinStartDate = &minStart
	begin := minStart
	if begin.Before(today) {
		begin = today
	}
	earliest := EarliestCompletionDate(begin, total, DefaultHoursPerDay, 1)
	wo.EarliestCompletionDate = &earliest
	return nil
}

// pickLine returns the line the order should join, with the projected
// completion there. A matching order goes to its dedicated line whenever that
// line can take it; general lines only compete under the mode's rule when the
// dedicated line cannot, or when no dedicated line claims the order.
func (o *Optimizer) pickLine(wo *models.WorkOrder, lines []*models.Line, states map[uuid.UUID]*lineState, pendingDedicated map[uuid.UUID]int, mode enums.ScheduleMode, report *RunReport) (*models.Line, time.Time, string) {
	var best *models.Line
	var bestEnd time.Time
	sawTrolleyBlock := false
	sawHorizonBlock := false

	for _, line := range lines {
		if !line.IsDedicated || line.DedicatedCustomer == nil ||
			!customerMatches(wo.Customer, *line.DedicatedCustomer) {
			continue
		}
		state := states[line.ID]
		if !o.frontTrolleyOK(line, state, wo, report) {
			sawTrolleyBlock = true
			continue
		}
		if end, ok := state.projectAppend(wo); ok {
			return line, end, ""
		}
		sawHorizonBlock = true
	}

	for _, line := range lines {
		if line.IsDedicated {
			matches := line.DedicatedCustomer != nil && customerMatches(wo.Customer, *line.DedicatedCustomer)
			if matches {
				// Already tried above; the line could not take it.
				continue
			}
			if pendingDedicated[line.ID] > 0 {
				continue
			}
		}

		state := states[line.ID]

		if !o.frontTrolleyOK(line, state, wo, report) {
			sawTrolleyBlock = true
			continue
		}

		end, ok := state.projectAppend(wo)
		if !ok {
			sawHorizonBlock = true
			continue
		}

		if best == nil || betterLine(mode, states[best.ID], bestEnd, state, end) {
			best = line
			bestEnd = end
		}
	}

	if best == nil {
		switch {
		case sawTrolleyBlock:
			return nil, time.Time{}, "trolley limit reached on every open line"
		case sawHorizonBlock:
			return nil, time.Time{}, "no line can finish the order within the lookahead window"
		default:
			return nil, time.Time{}, "no eligible line"
		}
	}
	return best, bestEnd, ""
}

// frontTrolleyOK applies the floor cap when the order would land in the first
// two queue positions, recording a warning when the line is near the limit.
func (o *Optimizer) frontTrolleyOK(line *models.Line, state *lineState, wo *models.WorkOrder, report *RunReport) bool {
	if len(state.queue)+1 > 2 {
		return true
	}
	if state.frontTrolleys+wo.TrolleyCount > o.TrolleyLimit {
		return false
	}
	if state.frontTrolleys+wo.TrolleyCount >= o.TrolleyWarnAt {
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"line %s near trolley limit with %s (%d of %d)",
			line.Name, wo.Number, state.frontTrolleys+wo.TrolleyCount, o.TrolleyLimit))
	}
	return true
}

// betterLine reports whether the candidate beats the incumbent under the
// mode's rule. Balanced fills the shallowest queue; throughput chases the
// earliest completion. Ties fall through to the other criterion and finally
// to line order, which the caller fixed by sorting.
func betterLine(mode enums.ScheduleMode, incumbent *lineState, incumbentEnd time.Time, candidate *lineState, candidateEnd time.Time) bool {
	if mode == enums.ScheduleModeThroughput {
		if !candidateEnd.Equal(incumbentEnd) {
			return candidateEnd.Before(incumbentEnd)
		}
		return len(candidate.queue) < len(incumbent.queue)
	}
	if len(candidate.queue) != len(incumbent.queue) {
		return len(candidate.queue) < len(incumbent.queue)
	}
	return candidateEnd.Before(incumbentEnd)
}

func newLineState(line *models.Line, queue []*models.WorkOrder, today, horizon time.Time) *lineState {
	s := &lineState{
		line:    line,
		queue:   append([]*models.WorkOrder(nil), queue...),
		horizon: horizon,
		cursor:  today,
	}
	dates, _ := SimulateQueueDates(line, s.queue, today, int(horizon.Sub(today).Hours()/24))
	for _, wo := range s.queue {
		if d, ok := dates[wo.ID]; ok {
			if next := d.End.AddDate(0, 0, 1); next.After(s.cursor) {
				s.cursor = next
			}
		}
	}
	for i, wo := range s.queue {
		if i >= 2 {
			break
		}
		s.frontTrolleys += wo.TrolleyCount
	}
	return s
}

// projectAppend computes where the order would finish if appended to this
// queue, without mutating state.
func (s *lineState) projectAppend(wo *models.WorkOrder) (time.Time, bool) {
	start, ok := nextWorkingDay(s.line, s.cursor, s.horizon)
	if !ok {
		return time.Time{}, false
	}
	remaining := wo.TotalMinutes(s.line.TimeMultiplier)
	day := start
	for remaining > 0 {
		remaining -= CapacityForDate(s.line, day) * 60
		if remaining <= 0 {
			break
		}
		day, ok = nextWorkingDay(s.line, day.AddDate(0, 0, 1), s.horizon)
		if !ok {
			return time.Time{}, false
		}
	}
	return day, true
}

func (s *lineState) append(wo *models.WorkOrder, projectedEnd time.Time) {
	if len(s.queue) < 2 {
		s.frontTrolleys += wo.TrolleyCount
	}
	s.queue = append(s.queue, wo)
	s.cursor = projectedEnd.AddDate(0, 0, 1)
}

// nextPosition returns the first free queue position after walking the
// queue. Locked orders pin their stored positions, so the cursor steps over
// and past each one instead of counting slice indexes; renumbering around an
// eviction can therefore never land a movable order on a locked slot.
func nextPosition(queue []*models.WorkOrder) int {
	next := 1
	for _, wo := range queue {
		if wo.IsLocked {
			if wo.Position != nil && *wo.Position >= next {
				next = *wo.Position + 1
			}
			continue
		}
		next++
	}
	return next
}

// materialize writes projected dates, clock stamps, positions and promise
// variance onto the line's final queue.
func (o *Optimizer) materialize(line *models.Line, queue []*models.WorkOrder, now time.Time, lookahead int, report *RunReport) {
	next := 1
	for _, wo := range queue {
		if wo.IsLocked {
			if wo.Position != nil && *wo.Position >= next {
				next = *wo.Position + 1
			}
			continue
		}
		pos := next
		wo.Position = &pos
		next++
	}

	dates, err := SimulateQueueDates(line, queue, now, lookahead)
	if err != nil {
		report.Errors = append(report.Errors, err.Error())
	}
	times := SimulateQueueTimes(line, queue, now)

	for _, wo := range queue {
		if wo.IsLocked {
			continue
		}
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
}

// updateVariance sets scheduled end minus working target in days; positive
// is late.
func updateVariance(wo *models.WorkOrder) {
	if wo.ScheduledEndDate == nil || wo.AdjustedPromiseDate == nil {
		wo.PromiseVarianceDays = nil
		return
	}
	diff := Midnight(*wo.ScheduledEndDate).Sub(Midnight(*wo.AdjustedPromiseDate))
	days := int(math.Round(diff.Hours() / 24))
	wo.PromiseVarianceDays = &days
}

func isLate(wo *models.WorkOrder) bool {
	return wo.PromiseVarianceDays != nil && *wo.PromiseVarianceDays > 0
}

// sortForAssignment ranks the pool: priority tier, then working target
// (missing targets last), then order number for deterministic ties.
func sortForAssignment(pool []*models.WorkOrder) {
	sort.SliceStable(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		if ar, br := a.Priority.Rank(), b.Priority.Rank(); ar != br {
			return ar < br
		}
		switch {
		case a.AdjustedPromiseDate == nil && b.AdjustedPromiseDate == nil:
		case a.AdjustedPromiseDate == nil:
			return false
		case b.AdjustedPromiseDate == nil:
			return true
		case !a.AdjustedPromiseDate.Equal(*b.AdjustedPromiseDate):
			return a.AdjustedPromiseDate.Before(*b.AdjustedPromiseDate)
		}
		return a.Number < b.Number
	})
}

func dedupeOrders(pool []*models.WorkOrder) []*models.WorkOrder {
	seen := make(map[uuid.UUID]bool, len(pool))
	out := pool[:0]
	for _, wo := range pool {
		if seen[wo.ID] {
			continue
		}
		seen[wo.ID] = true
		out = append(out, wo)
	}
	return out
}

// customerMatches applies the dedicated-line rule: case-insensitive
// substring match in either direction, so "MCI" claims "MCI Electronics".
func customerMatches(customer, dedicated string) bool {
	c := strings.ToLower(strings.TrimSpace(customer))
	d := strings.ToLower(strings.TrimSpace(dedicated))
	if c == "" || d == "" {
		return false
	}
	return strings.Contains(c, d) || strings.Contains(d, c)
}
