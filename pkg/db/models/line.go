package models

import (
	"time"

	"github.com/google/uuid"
)

// Line is an SMT production line. Capacity comes from its shifts (or an
// override, or the flat HoursPerDay fallback), and its queue is the ordered
// set of work orders assigned to it.
type Line struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`

	// HoursPerDay is the flat daily capacity used when no shift or override
	// applies to a date.
	HoursPerDay float64 `gorm:"column:hours_per_day;not null;default:8" json:"hours_per_day"`
	// TimeMultiplier scales job durations on this line. Older machines run
	// above 1.0.
	TimeMultiplier float64 `gorm:"column:time_multiplier;not null;default:1" json:"time_multiplier"`

	IsActive bool `gorm:"column:is_active;not null;default:true" json:"is_active"`
	// IsManualOnly keeps the optimizer off this line; planners assign by hand.
	IsManualOnly bool `gorm:"column:is_manual_only;not null;default:false" json:"is_manual_only"`
	// IsDedicated reserves the line for DedicatedCustomer's orders while any
	// of theirs are waiting.
	IsDedicated       bool    `gorm:"column:is_dedicated;not null;default:false" json:"is_dedicated"`
	DedicatedCustomer *string `gorm:"column:dedicated_customer" json:"dedicated_customer,omitempty"`

	// OrderPosition fixes the iteration order for assignment passes.
	OrderPosition int `gorm:"column:order_position;not null;default:0" json:"order_position"`

	Shifts    []Shift            `gorm:"foreignKey:LineID" json:"shifts,omitempty"`
	Config    *LineConfig        `gorm:"foreignKey:LineID" json:"config,omitempty"`
	Overrides []CapacityOverride `gorm:"foreignKey:LineID" json:"overrides,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Line) TableName() string { return "lines" }

// LineConfig holds per-line time-of-day simulation knobs.
type LineConfig struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	LineID uuid.UUID `gorm:"column:line_id;type:uuid;not null;uniqueIndex" json:"line_id"`

	// BufferMinutes is the changeover gap appended after each job.
	BufferMinutes float64 `gorm:"column:buffer_minutes;not null;default:15" json:"buffer_minutes"`
	// RoundingMinutes snaps start times up to operator-friendly boundaries.
	RoundingMinutes int `gorm:"column:rounding_minutes;not null;default:15" json:"rounding_minutes"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (LineConfig) TableName() string { return "line_configs" }
