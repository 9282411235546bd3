package models

import (
	"time"

	"github.com/google/uuid"
)

// CapacityOverride pins a line's daily capacity for an inclusive date range,
// taking precedence over shifts and the flat fallback. Zero TotalHours marks
// planned downtime. Ranges on the same line never overlap; writes enforce it.
type CapacityOverride struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	LineID uuid.UUID `gorm:"column:line_id;type:uuid;not null;index" json:"line_id"`

	StartDate  time.Time `gorm:"column:start_date;not null" json:"start_date"`
	EndDate    time.Time `gorm:"column:end_date;not null" json:"end_date"`
	TotalHours float64   `gorm:"column:total_hours;not null" json:"total_hours"`
	Reason     *string   `gorm:"column:reason" json:"reason,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (CapacityOverride) TableName() string { return "capacity_overrides" }

// Covers reports whether the override applies to the given calendar day.
func (o CapacityOverride) Covers(day time.Time) bool {
	d := dateOnly(day)
	return !d.Before(dateOnly(o.StartDate)) && !d.After(dateOnly(o.EndDate))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Overlaps reports whether two inclusive ranges share at least one day.
func (o CapacityOverride) Overlaps(start, end time.Time) bool {
	return !o.EndDate.Before(start) && !o.StartDate.After(end)
}
