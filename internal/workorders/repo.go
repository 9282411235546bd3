package workorders

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lineflow-mfg/lineflow-backend/pkg/db"
	"github.com/lineflow-mfg/lineflow-backend/pkg/db/models"
	"github.com/lineflow-mfg/lineflow-backend/pkg/enums"
	apperrors "github.com/lineflow-mfg/lineflow-backend/pkg/errors"
)

// planColumns are the scheduling fields an optimizer run or queue
// recomputation may touch. PersistPlan writes exactly these.
var planColumns = []string{
	"line_id", "position",
	"setup_hours", "adjusted_promise_date", "min_start_date", "earliest_completion_date",
	"scheduled_start_date", "scheduled_end_date",
	"calculated_start_at", "calculated_end_at",
	"promise_variance_days", "updated_at",
}

type Repository struct {
	db *db.Client
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{db: client}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.WorkOrder, error) {
	var wo models.WorkOrder
	err := r.db.Gorm(ctx).First(&wo, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.New(apperrors.CodeNotFound, "work order %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

// ListFilter narrows work order listings for the API.
type ListFilter struct {
	LineID     *uuid.UUID
	Customer   string
	Location   enums.Location
	Unassigned bool
	Incomplete bool
}

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]*models.WorkOrder, error) {
	q := r.db.Gorm(ctx).Model(&models.WorkOrder{})
	if filter.LineID != nil {
		q = q.Where("line_id = ?", *filter.LineID)
	}
	if filter.Customer != "" {
		q = q.Where("LOWER(customer) LIKE LOWER(?)", "%"+filter.Customer+"%")
	}
	if filter.Location != "" {
		q = q.Where("current_location = ?", filter.Location)
	}
	if filter.Unassigned {
		q = q.Where("line_id IS NULL")
	}
	if filter.Incomplete {
		q = q.Where("is_complete = ?", false)
	}

	var orders []*models.WorkOrder
	err := q.Order("priority ASC, promise_date ASC, wo_number ASC").Find(&orders).Error
	return orders, err
}

// QueueForLine returns the line's incomplete orders in position order.
// Orders without a position sort after positioned ones.
func (r *Repository) QueueForLine(ctx context.Context, lineID uuid.UUID) ([]*models.WorkOrder, error) {
	var orders []*models.WorkOrder
	err := r.db.Gorm(ctx).
		Where("line_id = ? AND is_complete = ?", lineID, false).
		Order("position ASC NULLS LAST, wo_number ASC").
		Find(&orders).Error
	return orders, err
}

// ListQueues loads every given line's queue in one query.
func (r *Repository) ListQueues(ctx context.Context, lineIDs []uuid.UUID) (map[uuid.UUID][]*models.WorkOrder, error) {
	queues := make(map[uuid.UUID][]*models.WorkOrder, len(lineIDs))
	for _, id := range lineIDs {
		queues[id] = nil
	}
	if len(lineIDs) == 0 {
		return queues, nil
	}

	var orders []*models.WorkOrder
	err := r.db.Gorm(ctx).
		Where("line_id IN ? AND is_complete = ?", lineIDs, false).
		Order("position ASC NULLS LAST, wo_number ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	for _, wo := range orders {
		queues[*wo.LineID] = append(queues[*wo.LineID], wo)
	}
	return queues, nil
}

// ListUnassignedEligible returns the optimizer's candidate pool: orders at
// the scheduling-ready location, unassigned, movable.
func (r *Repository) ListUnassignedEligible(ctx context.Context) ([]*models.WorkOrder, error) {
	var orders []*models.WorkOrder
	err := r.db.Gorm(ctx).
		Where("line_id IS NULL AND is_complete = ? AND is_locked = ? AND is_manual_schedule = ? AND current_location = ?",
			false, false, false, enums.LocationSMTProduction).
		Order("wo_number ASC").
		Find(&orders).Error
	return orders, err
}

// PersistPlan writes scheduling state for all orders in one transaction.
func (r *Repository) PersistPlan(ctx context.Context, orders []*models.WorkOrder) error {
	if len(orders) == 0 {
		return nil
	}
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		for _, wo := range orders {
			if err := tx.Model(wo).Select(planColumns).Updates(wo).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) Create(ctx context.Context, wo *models.WorkOrder) error {
	return r.db.Gorm(ctx).Create(wo).Error
}

func (r *Repository) Update(ctx context.Context, wo *models.WorkOrder) error {
	return r.db.Gorm(ctx).Save(wo).Error
}

// TrolleysInUse sums trolleys held by orders in floor-consuming statuses.
func (r *Repository) TrolleysInUse(ctx context.Context) (int, error) {
	statuses := []enums.Status{
		enums.StatusRunning, enums.StatusSecondSideRunning,
		enums.StatusClearToBuild, enums.StatusClearToBuildNew,
	}
	var total sql.NullInt64
	err := r.db.Gorm(ctx).
		Model(&models.WorkOrder{}).
		Select("SUM(trolley_count)").
		Where("is_complete = ? AND status IN ?", false, statuses).
		Scan(&total).Error
	if err != nil || !total.Valid {
		return 0, err
	}
	return int(total.Int64), nil
}

// CountByLocation groups incomplete work orders by their current location,
// giving the planner a pipeline view of what is headed for the floor.
func (r *Repository) CountByLocation(ctx context.Context) (map[enums.Location]int, error) {
	var rows []struct {
		Location enums.Location
		Total    int
	}
	err := r.db.Gorm(ctx).
		Model(&models.WorkOrder{}).
		Select("current_location AS location, COUNT(*) AS total").
		Where("is_complete = ?", false).
		Group("current_location").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[enums.Location]int, len(rows))
	for _, row := range rows {
		counts[row.Location] = row.Total
	}
	return counts, nil
}

// ShiftPositions opens a gap at position on the line by pushing later
// orders down one slot. Runs inside the caller's transaction when given one.
func (r *Repository) ShiftPositions(ctx context.Context, tx *gorm.DB, lineID uuid.UUID, fromPosition int) error {
	q := tx
	if q == nil {
		q = r.db.Gorm(ctx)
	}
	return q.Model(&models.WorkOrder{}).
		Where("line_id = ? AND is_complete = ? AND position >= ?", lineID, false, fromPosition).
		UpdateColumn("position", gorm.Expr("position + 1")).Error
}

// Tx exposes the transaction helper for service-level multi-step writes.
func (r *Repository) Tx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithTx(ctx, fn)
}
