// Package models defines the persistence schema. IDs are app-generated
// UUIDs so the same models run on postgres and sqlite.
package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// All returns every model in dependency order, for auto-migration in tests
// and dev bootstrap.
func All() []any {
	return []any{
		&Line{},
		&LineConfig{},
		&Shift{},
		&ShiftBreak{},
		&CapacityOverride{},
		&WorkOrder{},
	}
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (l *Line) BeforeCreate(*gorm.DB) error             { ensureID(&l.ID); return nil }
func (c *LineConfig) BeforeCreate(*gorm.DB) error       { ensureID(&c.ID); return nil }
func (s *Shift) BeforeCreate(*gorm.DB) error            { ensureID(&s.ID); return nil }
func (b *ShiftBreak) BeforeCreate(*gorm.DB) error       { ensureID(&b.ID); return nil }
func (o *CapacityOverride) BeforeCreate(*gorm.DB) error { ensureID(&o.ID); return nil }
func (w *WorkOrder) BeforeCreate(*gorm.DB) error        { ensureID(&w.ID); return nil }
