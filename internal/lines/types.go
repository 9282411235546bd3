package lines

import (
	"github.com/google/uuid"
)

// CreateLineParams is the validated input for creating a line.
type CreateLineParams struct {
	Name              string  `json:"name" validate:"required,min=1,max=120"`
	Description       *string `json:"description" validate:"omitempty,max=500"`
	HoursPerDay       float64 `json:"hours_per_day" validate:"gte=0,lte=24"`
	TimeMultiplier    float64 `json:"time_multiplier" validate:"gte=0,lte=10"`
	IsActive          *bool   `json:"is_active"`
	IsManualOnly      bool    `json:"is_manual_only"`
	IsDedicated       bool    `json:"is_dedicated"`
	DedicatedCustomer *string `json:"dedicated_customer" validate:"omitempty,min=1,max=120"`
	OrderPosition     int     `json:"order_position" validate:"gte=0"`
}

// UpdateLineParams carries partial updates; nil fields stay unchanged.
type UpdateLineParams struct {
	Description       *string  `json:"description" validate:"omitempty,max=500"`
	HoursPerDay       *float64 `json:"hours_per_day" validate:"omitempty,gte=0,lte=24"`
	TimeMultiplier    *float64 `json:"time_multiplier" validate:"omitempty,gte=0,lte=10"`
	IsActive          *bool    `json:"is_active"`
	IsManualOnly      *bool    `json:"is_manual_only"`
	IsDedicated       *bool    `json:"is_dedicated"`
	DedicatedCustomer *string  `json:"dedicated_customer" validate:"omitempty,max=120"`
	OrderPosition     *int     `json:"order_position" validate:"omitempty,gte=0"`
}

// ShiftParams defines or replaces a shift on a line.
type ShiftParams struct {
	LineID      uuid.UUID     `json:"line_id" validate:"required"`
	Name        string        `json:"name" validate:"required,max=120"`
	ShiftNumber int           `json:"shift_number" validate:"gte=1,lte=4"`
	StartTime   string        `json:"start_time" validate:"required"`
	EndTime     string        `json:"end_time" validate:"required"`
	ActiveDays  string        `json:"active_days" validate:"required"`
	IsActive    *bool         `json:"is_active"`
	Breaks      []BreakParams `json:"breaks" validate:"dive"`
}

type BreakParams struct {
	Name      string `json:"name" validate:"required,max=120"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	IsPaid    bool   `json:"is_paid"`
}

// ConfigParams sets the per-line time simulation knobs.
type ConfigParams struct {
	BufferMinutes   float64 `json:"buffer_minutes" validate:"gte=0,lte=480"`
	RoundingMinutes int     `json:"rounding_minutes" validate:"gte=1,lte=120"`
}
