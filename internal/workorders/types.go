package workorders

import (
	"time"

	"github.com/google/uuid"

	"github.com/lineflow-mfg/lineflow-backend/pkg/enums"
)

// CreateParams is the validated input for registering a work order.
type CreateParams struct {
	Number            string          `json:"wo_number" validate:"required,max=60"`
	Customer          string          `json:"customer" validate:"required,max=120"`
	Assembly          string          `json:"assembly" validate:"required,max=120"`
	Revision          string          `json:"revision" validate:"max=40"`
	Quantity          int             `json:"quantity" validate:"gte=0"`
	Priority          enums.Priority  `json:"priority"`
	Status            enums.Status    `json:"status"`
	Location          enums.Location  `json:"current_location" validate:"required"`
	KitStatus         enums.KitStatus `json:"kit_status"`
	Sides             enums.SideType  `json:"sides"`
	TrolleyCount      int             `json:"trolley_count" validate:"gte=0,lte=24"`
	ProcessingMinutes float64         `json:"processing_minutes" validate:"gte=0"`
	PromiseDate       *time.Time      `json:"promise_date"`
	Notes             *string         `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateParams carries partial updates; nil fields stay unchanged.
type UpdateParams struct {
	Customer          *string          `json:"customer" validate:"omitempty,max=120"`
	Quantity          *int             `json:"quantity" validate:"omitempty,gte=0"`
	Priority          *enums.Priority  `json:"priority"`
	Status            *enums.Status    `json:"status"`
	Location          *enums.Location  `json:"current_location"`
	KitStatus         *enums.KitStatus `json:"kit_status"`
	TrolleyCount      *int             `json:"trolley_count" validate:"omitempty,gte=0,lte=24"`
	ProcessingMinutes *float64         `json:"processing_minutes" validate:"omitempty,gte=0"`
	PromiseDate       *time.Time       `json:"promise_date"`
	Notes             *string          `json:"notes" validate:"omitempty,max=1000"`
}

// ManualAssignParams pins an order to a line by hand.
type ManualAssignParams struct {
	LineID uuid.UUID `json:"line_id" validate:"required"`
	// Position is 1-based; zero appends to the end of the queue.
	Position int `json:"position" validate:"gte=0"`
	// StartAt optionally anchors the clock-time simulation.
	StartAt *time.Time `json:"start_at"`
}
