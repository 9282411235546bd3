package capacity

import (
	"time"

	"github.com/google/uuid"

	"github.com/lineflow-mfg/lineflow-backend/internal/scheduling"
)

// OverrideParams creates or replaces a capacity override. Dates are
// inclusive calendar days.
type OverrideParams struct {
	LineID     uuid.UUID `json:"line_id" validate:"required"`
	StartDate  time.Time `json:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" validate:"required"`
	TotalHours float64   `json:"total_hours" validate:"gte=0,lte=24"`
	Reason     *string   `json:"reason" validate:"omitempty,max=500"`
}

// OvertimeParams is the one-day shortcut: bump a single date's hours.
type OvertimeParams struct {
	LineID uuid.UUID `json:"line_id" validate:"required"`
	Date   time.Time `json:"date" validate:"required"`
	Hours  float64   `json:"hours" validate:"gt=0,lte=24"`
	Reason *string   `json:"reason" validate:"omitempty,max=500"`
}

// LineCalendar is a line's day-by-day resolved capacity over a range.
type LineCalendar struct {
	LineID   uuid.UUID                `json:"line_id"`
	LineName string                   `json:"line_name"`
	Days     []scheduling.DayCapacity `json:"days"`
}

// WeekForecast compares a line's available hours to its queued demand for
// one week.
type WeekForecast struct {
	WeekStart      time.Time `json:"week_start"`
	AvailableHours float64   `json:"available_hours"`
	DemandHours    float64   `json:"demand_hours"`
	Utilization    float64   `json:"utilization"`
	// LateOrders counts orders finishing in this week past their adjusted
	// promise date.
	LateOrders int `json:"late_orders"`
}

// LineForecast is the weekly outlook for one line.
type LineForecast struct {
	LineID   uuid.UUID      `json:"line_id"`
	LineName string         `json:"line_name"`
	Weeks    []WeekForecast `json:"weeks"`
}
