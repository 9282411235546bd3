package controllers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/lineflow-mfg/lineflow-backend/api/responses"
	"github.com/lineflow-mfg/lineflow-backend/api/validators"
	"github.com/lineflow-mfg/lineflow-backend/internal/workorders"
	"github.com/lineflow-mfg/lineflow-backend/pkg/enums"
	"github.com/lineflow-mfg/lineflow-backend/pkg/errors"
)

type WorkOrdersController struct {
	svc *workorders.Service
}

func NewWorkOrdersController(svc *workorders.Service) *WorkOrdersController {
	return &WorkOrdersController{svc: svc}
}

// List returns work orders matching the query filters.
// GET /api/v1/work-orders
func (c *WorkOrdersController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := workorders.ListFilter{
		Customer: q.Get("customer"),
		Location: enums.Location(q.Get("location")),
	}
	if raw := q.Get("line_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(w, r, errors.New(errors.CodeValidation, "invalid line_id"))
			return
		}
		filter.LineID = &id
	}
	if raw := q.Get("unassigned"); raw != "" {
		filter.Unassigned, _ = strconv.ParseBool(raw)
	}
	if raw := q.Get("incomplete"); raw != "" {
		filter.Incomplete, _ = strconv.ParseBool(raw)
	}

	orders, err := c.svc.List(r.Context(), filter)
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, orders)
}

// Get returns one work order.
// GET /api/v1/work-orders/{orderID}
func (c *WorkOrdersController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "orderID")
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	wo, err := c.svc.Get(r.Context(), id)
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, wo)
}

// Create registers a work order.
// POST /api/v1/work-orders
func (c *WorkOrdersController) Create(w http.ResponseWriter, r *http.Request) {
	var params workorders.CreateParams
	if err := validators.DecodeBody(r, &params); err != nil {
		responses.WriteError(w, r, err)
		return
	}
	wo, err := c.svc.Create(r.Context(), params)
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusCreated, wo)
}

// Update applies partial changes.
// PATCH /api/v1/work-orders/{orderID}
func (c *WorkOrdersController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "orderID")
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	var params workorders.UpdateParams
	if err := validators.DecodeBody(r, &params); err != nil {
		responses.WriteError(w, r, err)
		return
	}
	wo, err := c.svc.Update(r.Context(), id, params)
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, wo)
}

// ManualAssign pins an order to a line position.
// POST /api/v1/work-orders/{orderID}/assign
func (c *WorkOrdersController) ManualAssign(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "orderID")
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	var params workorders.ManualAssignParams
	if err := validators.DecodeBody(r, &params); err != nil {
		responses.WriteError(w, r, err)
		return
	}
	wo, err := c.svc.ManualAssign(r.Context(), id, params)
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, wo)
}

// Unassign returns an order to the pool.
// POST /api/v1/work-orders/{orderID}/unassign
func (c *WorkOrdersController) Unassign(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "orderID")
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	wo, err := c.svc.Unassign(r.Context(), id)
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, wo)
}

type lockRequest struct {
	Locked bool `json:"locked"`
}

// SetLock freezes or releases an order.
// POST /api/v1/work-orders/{orderID}/lock
func (c *WorkOrdersController) SetLock(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "orderID")
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	var req lockRequest
	if err := validators.DecodeBody(r, &req); err != nil {
		responses.WriteError(w, r, err)
		return
	}
	wo, err := c.svc.SetLocked(r.Context(), id, req.Locked)
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, wo)
}

// Complete marks an order finished.
// POST /api/v1/work-orders/{orderID}/complete
func (c *WorkOrdersController) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "orderID")
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	wo, err := c.svc.Complete(r.Context(), id)
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, wo)
}

// TrolleysInUse reports floor-wide staged trolleys.
// GET /api/v1/work-orders/trolleys-in-use
func (c *WorkOrdersController) TrolleysInUse(w http.ResponseWriter, r *http.Request) {
	total, err := c.svc.TrolleysInUse(r.Context())
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, map[string]int{"trolleys_in_use": total})
}
