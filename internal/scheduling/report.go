package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/lineflow-mfg/lineflow-backend/pkg/enums"
)

// AssignParams controls one optimizer run.
type AssignParams struct {
	Mode enums.ScheduleMode `json:"mode"`
	// DryRun computes the full plan and report without persisting anything.
	DryRun bool `json:"dry_run"`
	// ClearExisting returns every movable assigned order to the pool before
	// placing, instead of only filling around the current plan.
	ClearExisting bool `json:"clear_existing"`
}

// AssignedOrder describes one placement the optimizer made. The previous
// fields hold where the order sat before the run, so a dry-run report reads
// as a change diff: nil previous line means the order came from the pool, and
// a rerun that moves nothing repeats each order's previous assignment.
type AssignedOrder struct {
	WorkOrderID      uuid.UUID  `json:"work_order_id"`
	Number           string     `json:"wo_number"`
	LineID           uuid.UUID  `json:"line_id"`
	LineName         string     `json:"line_name"`
	Position         int        `json:"position"`
	ProjectedEnd     *time.Time `json:"projected_end,omitempty"`
	PreviousLineID   *uuid.UUID `json:"previous_line_id,omitempty"`
	PreviousPosition *int       `json:"previous_position,omitempty"`
}

// UnassignedOrder is an order the run could not place, with the reason.
type UnassignedOrder struct {
	WorkOrderID uuid.UUID `json:"work_order_id"`
	Number      string    `json:"wo_number"`
	Reason      string    `json:"reason"`
}

// AtRiskOrder flags an order whose best-case completion, starting today on an
// empty line, already misses its promise date.
type AtRiskOrder struct {
	WorkOrderID        uuid.UUID `json:"work_order_id"`
	Number             string    `json:"wo_number"`
	PromiseDate        time.Time `json:"promise_date"`
	EarliestCompletion time.Time `json:"earliest_completion"`
}

// LineSummary is one line's load picture after the run: queue depth and
// trolley pressure at the front of the queue.
type LineSummary struct {
	LineID             uuid.UUID `json:"line_id"`
	LineName           string    `json:"line_name"`
	QueueLength        int       `json:"queue_length"`
	FrontTrolleys      int       `json:"front_trolleys"`
	TrolleyLimit       int       `json:"trolley_limit"`
	TrolleyUtilization float64   `json:"trolley_utilization"`
}

// RunReport summarizes an assignment run for the API and logs.
type RunReport struct {
	RunID         uuid.UUID          `json:"run_id"`
	Mode          enums.ScheduleMode `json:"mode"`
	DryRun        bool               `json:"dry_run"`
	ClearExisting bool               `json:"clear_existing"`
	StartedAt     time.Time          `json:"started_at"`
	FinishedAt    time.Time          `json:"finished_at"`

	Assigned   []AssignedOrder   `json:"assigned"`
	Unassigned []UnassignedOrder `json:"unassigned"`
	// Evicted lists orders pulled off lines that went down inside their
	// scheduled window.
	Evicted []string `json:"evicted"`
	// AtRisk lists orders that cannot make their promise even in the best
	// case, whether or not the run placed them.
	AtRisk []AtRiskOrder `json:"at_risk"`
	// Lines summarizes every line's load after the run.
	Lines []LineSummary `json:"lines"`
	// LateOrders counts placements projected to finish after the working
	// promise date.
	LateOrders int      `json:"late_orders"`
	Warnings   []string `json:"warnings,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}
