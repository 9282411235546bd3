package capacity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lineflow-mfg/lineflow-backend/pkg/db"
	"github.com/lineflow-mfg/lineflow-backend/pkg/db/models"
	apperrors "github.com/lineflow-mfg/lineflow-backend/pkg/errors"
)

type Repository struct {
	db *db.Client
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{db: client}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CapacityOverride, error) {
	var ov models.CapacityOverride
	err := r.db.Gorm(ctx).First(&ov, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.New(apperrors.CodeNotFound, "capacity override %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &ov, nil
}

func (r *Repository) ListForLine(ctx context.Context, lineID uuid.UUID) ([]*models.CapacityOverride, error) {
	var overrides []*models.CapacityOverride
	err := r.db.Gorm(ctx).
		Where("line_id = ?", lineID).
		Order("start_date ASC").
		Find(&overrides).Error
	return overrides, err
}

// FindOverlapping returns overrides on the line whose inclusive range
// shares a day with [start, end], excluding one ID for updates.
func (r *Repository) FindOverlapping(ctx context.Context, lineID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*models.CapacityOverride, error) {
	q := r.db.Gorm(ctx).
		Where("line_id = ? AND end_date >= ? AND start_date <= ?", lineID, start, end)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var overrides []*models.CapacityOverride
	err := q.Find(&overrides).Error
	return overrides, err
}

func (r *Repository) Create(ctx context.Context, ov *models.CapacityOverride) error {
	return r.db.Gorm(ctx).Create(ov).Error
}

func (r *Repository) Update(ctx context.Context, ov *models.CapacityOverride) error {
	return r.db.Gorm(ctx).Save(ov).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.Gorm(ctx).Delete(&models.CapacityOverride{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.New(apperrors.CodeNotFound, "capacity override %s not found", id)
	}
	return nil
}
