package models

import (
	"time"

	"github.com/google/uuid"
)

// Shift is a recurring working window on a line. Times are wall-clock
// "HH:MM" strings; an end at or before the start means the shift crosses
// midnight. ActiveDays is a CSV of ISO weekday numbers, "1,2,3,4,5" being
// Monday through Friday.
type Shift struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	LineID uuid.UUID `gorm:"column:line_id;type:uuid;not null;index" json:"line_id"`

	Name        string `gorm:"column:name;not null" json:"name"`
	ShiftNumber int    `gorm:"column:shift_number;not null;default:1" json:"shift_number"`
	StartTime   string `gorm:"column:start_time;not null" json:"start_time"`
	EndTime     string `gorm:"column:end_time;not null" json:"end_time"`
	ActiveDays  string `gorm:"column:active_days;not null;default:'1,2,3,4,5'" json:"active_days"`
	IsActive    bool   `gorm:"column:is_active;not null;default:true" json:"is_active"`

	Breaks []ShiftBreak `gorm:"foreignKey:ShiftID" json:"breaks,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Shift) TableName() string { return "shifts" }

// ShiftBreak is a pause within a shift. Unpaid breaks reduce the shift's
// daily capacity; paid breaks do not, but both halt work in the time-of-day
// simulation.
type ShiftBreak struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ShiftID uuid.UUID `gorm:"column:shift_id;type:uuid;not null;index" json:"shift_id"`

	Name      string `gorm:"column:name;not null" json:"name"`
	StartTime string `gorm:"column:start_time;not null" json:"start_time"`
	EndTime   string `gorm:"column:end_time;not null" json:"end_time"`
	IsPaid    bool   `gorm:"column:is_paid;not null;default:false" json:"is_paid"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ShiftBreak) TableName() string { return "shift_breaks" }
