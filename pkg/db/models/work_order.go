package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lineflow-mfg/lineflow-backend/pkg/enums"
)

// WorkOrder is one SMT build job. Scheduling state splits into three layers:
// assignment (LineID, Position), date-level projection (ScheduledStartDate,
// ScheduledEndDate), and clock-level projection (CalculatedStartAt,
// CalculatedEndAt).
type WorkOrder struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Number   string    `gorm:"column:wo_number;not null;uniqueIndex" json:"wo_number"`
	Customer string    `gorm:"column:customer;not null" json:"customer"`
	Assembly string    `gorm:"column:assembly;not null" json:"assembly"`
	Revision string    `gorm:"column:revision" json:"revision"`
	Quantity int       `gorm:"column:quantity;not null;default:0" json:"quantity"`

	Priority  enums.Priority  `gorm:"column:priority;not null;default:'Factory Default'" json:"priority"`
	Status    enums.Status    `gorm:"column:status;not null;default:'Clear to Build'" json:"status"`
	Location  enums.Location  `gorm:"column:current_location;not null" json:"current_location"`
	KitStatus enums.KitStatus `gorm:"column:kit_status;not null;default:'N/A'" json:"kit_status"`
	Sides     enums.SideType  `gorm:"column:sides;not null;default:'Single'" json:"sides"`

	// TrolleyCount is the number of feeder trolleys the job stages.
	TrolleyCount int `gorm:"column:trolley_count;not null;default:0" json:"trolley_count"`
	// ProcessingMinutes is machine run time before the line multiplier.
	ProcessingMinutes float64 `gorm:"column:processing_minutes;not null;default:0" json:"processing_minutes"`
	// SetupHours derives from TrolleyCount; persisted for reporting.
	SetupHours float64 `gorm:"column:setup_hours;not null;default:0" json:"setup_hours"`

	PromiseDate *time.Time `gorm:"column:promise_date" json:"promise_date,omitempty"`
	// AdjustedPromiseDate is the working target: the promise date, pulled in
	// seven days when the job ships straight from SMT.
	AdjustedPromiseDate    *time.Time `gorm:"column:adjusted_promise_date" json:"adjusted_promise_date,omitempty"`
	MinStartDate           *time.Time `gorm:"column:min_start_date" json:"min_start_date,omitempty"`
	EarliestCompletionDate *time.Time `gorm:"column:earliest_completion_date" json:"earliest_completion_date,omitempty"`

	IsLocked         bool `gorm:"column:is_locked;not null;default:false" json:"is_locked"`
	IsManualSchedule bool `gorm:"column:is_manual_schedule;not null;default:false" json:"is_manual_schedule"`
	IsComplete       bool `gorm:"column:is_complete;not null;default:false" json:"is_complete"`

	LineID   *uuid.UUID `gorm:"column:line_id;type:uuid;index" json:"line_id,omitempty"`
	Position *int       `gorm:"column:position" json:"position,omitempty"`

	ManualStartAt      *time.Time `gorm:"column:manual_start_at" json:"manual_start_at,omitempty"`
	ScheduledStartDate *time.Time `gorm:"column:scheduled_start_date" json:"scheduled_start_date,omitempty"`
	ScheduledEndDate   *time.Time `gorm:"column:scheduled_end_date" json:"scheduled_end_date,omitempty"`
	CalculatedStartAt  *time.Time `gorm:"column:calculated_start_at" json:"calculated_start_at,omitempty"`
	CalculatedEndAt    *time.Time `gorm:"column:calculated_end_at" json:"calculated_end_at,omitempty"`

	// PromiseVarianceDays is scheduled end minus adjusted promise in days.
	// Positive means late.
	PromiseVarianceDays *int    `gorm:"column:promise_variance_days" json:"promise_variance_days,omitempty"`
	Notes               *string `gorm:"column:notes" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (WorkOrder) TableName() string { return "work_orders" }

// Assigned reports whether the order currently sits on a line queue.
func (w *WorkOrder) Assigned() bool { return w.LineID != nil }

// Schedulable reports whether the optimizer may place or move this order.
func (w *WorkOrder) Schedulable() bool {
	return !w.IsComplete && !w.IsLocked && !w.IsManualSchedule && w.Location.ReadyForScheduling()
}

// TotalMinutes is setup plus processing time on the given line, after its
// multiplier.
func (w *WorkOrder) TotalMinutes(multiplier float64) float64 {
	if multiplier <= 0 {
		multiplier = 1
	}
	return (w.ProcessingMinutes + w.SetupHours*60) * multiplier
}

// ClearAssignment drops the order back into the unscheduled pool.
func (w *WorkOrder) ClearAssignment() {
	w.LineID = nil
	w.Position = nil
	w.ScheduledStartDate = nil
	w.ScheduledEndDate = nil
	w.CalculatedStartAt = nil
	w.CalculatedEndAt = nil
	w.PromiseVarianceDays = nil
}
