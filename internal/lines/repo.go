package lines

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lineflow-mfg/lineflow-backend/pkg/db"
	"github.com/lineflow-mfg/lineflow-backend/pkg/db/models"
	apperrors "github.com/lineflow-mfg/lineflow-backend/pkg/errors"
)

// Repository loads and writes production lines. Reads preload everything
// the scheduling engine needs so a loaded line is self-contained.
type Repository struct {
	db *db.Client
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{db: client}
}

func withEngineAssociations(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Shifts", func(db *gorm.DB) *gorm.DB {
			return db.Order("shift_number ASC")
		}).
		Preload("Shifts.Breaks", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_time ASC")
		}).
		Preload("Config").
		Preload("Overrides", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_date ASC")
		})
}

// ListForScheduling returns active lines the optimizer may place onto, in
// planner order.
func (r *Repository) ListForScheduling(ctx context.Context) ([]*models.Line, error) {
	var lines []*models.Line
	err := withEngineAssociations(r.db.Gorm(ctx)).
		Where("is_active = ? AND is_manual_only = ?", true, false).
		Order("order_position ASC, name ASC").
		Find(&lines).Error
	return lines, err
}

// ListAll returns every line, active or not.
func (r *Repository) ListAll(ctx context.Context) ([]*models.Line, error) {
	var lines []*models.Line
	err := withEngineAssociations(r.db.Gorm(ctx)).
		Order("order_position ASC, name ASC").
		Find(&lines).Error
	return lines, err
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Line, error) {
	var line models.Line
	err := withEngineAssociations(r.db.Gorm(ctx)).First(&line, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.New(apperrors.CodeNotFound, "line %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *Repository) Create(ctx context.Context, line *models.Line) error {
	return r.db.Gorm(ctx).Create(line).Error
}

func (r *Repository) Update(ctx context.Context, line *models.Line) error {
	return r.db.Gorm(ctx).Save(line).Error
}

func (r *Repository) CreateShift(ctx context.Context, shift *models.Shift) error {
	return r.db.Gorm(ctx).Create(shift).Error
}

func (r *Repository) UpdateShift(ctx context.Context, shift *models.Shift) error {
	return r.db.Gorm(ctx).Save(shift).Error
}

func (r *Repository) DeleteShift(ctx context.Context, id uuid.UUID) error {
	res := r.db.Gorm(ctx).Delete(&models.Shift{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.New(apperrors.CodeNotFound, "shift %s not found", id)
	}
	return nil
}

func (r *Repository) FindShift(ctx context.Context, id uuid.UUID) (*models.Shift, error) {
	var shift models.Shift
	err := r.db.Gorm(ctx).Preload("Breaks").First(&shift, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.New(apperrors.CodeNotFound, "shift %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *Repository) CreateBreak(ctx context.Context, br *models.ShiftBreak) error {
	return r.db.Gorm(ctx).Create(br).Error
}

func (r *Repository) DeleteBreak(ctx context.Context, id uuid.UUID) error {
	res := r.db.Gorm(ctx).Delete(&models.ShiftBreak{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.New(apperrors.CodeNotFound, "break %s not found", id)
	}
	return nil
}

// UpsertConfig writes the line's time-of-day simulation knobs.
func (r *Repository) UpsertConfig(ctx context.Context, cfg *models.LineConfig) error {
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		var existing models.LineConfig
		err := tx.First(&existing, "line_id = ?", cfg.LineID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(cfg).Error
		}
		if err != nil {
			return err
		}
		existing.BufferMinutes = cfg.BufferMinutes
		existing.RoundingMinutes = cfg.RoundingMinutes
		return tx.Save(&existing).Error
	})
}
