package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/lineflow-mfg/lineflow-backend/api/responses"
	"github.com/lineflow-mfg/lineflow-backend/api/validators"
	"github.com/lineflow-mfg/lineflow-backend/internal/capacity"
	"github.com/lineflow-mfg/lineflow-backend/pkg/errors"
)

type CapacityController struct {
	svc *capacity.Service
}

func NewCapacityController(svc *capacity.Service) *CapacityController {
	return &CapacityController{svc: svc}
}

// ListOverrides returns a line's overrides.
// GET /api/v1/lines/{lineID}/overrides
func (c *CapacityController) ListOverrides(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "lineID")
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	overrides, err := c.svc.ListOverrides(r.Context(), id)
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, overrides)
}

// CreateOverride stores a capacity override.
// POST /api/v1/capacity/overrides
func (c *CapacityController) CreateOverride(w http.ResponseWriter, r *http.Request) {
	var params capacity.OverrideParams
	if err := validators.DecodeBody(r, &params); err != nil {
		responses.WriteError(w, r, err)
		return
	}
	ov, err := c.svc.CreateOverride(r.Context(), params)
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusCreated, ov)
}

// UpdateOverride replaces an override.
// PUT /api/v1/capacity/overrides/{overrideID}
func (c *CapacityController) UpdateOverride(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "overrideID")
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	var params capacity.OverrideParams
	if err := validators.DecodeBody(r, &params); err != nil {
		responses.WriteError(w, r, err)
		return
	}
	ov, err := c.svc.UpdateOverride(r.Context(), id, params)
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, ov)
}

// DeleteOverride removes an override.
// DELETE /api/v1/capacity/overrides/{overrideID}
func (c *CapacityController) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "overrideID")
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	if err := c.svc.DeleteOverride(r.Context(), id); err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, map[string]string{"deleted": id.String()})
}

// AddOvertime bumps one day's hours.
// POST /api/v1/capacity/overtime
func (c *CapacityController) AddOvertime(w http.ResponseWriter, r *http.Request) {
	var params capacity.OvertimeParams
	if err := validators.DecodeBody(r, &params); err != nil {
		responses.WriteError(w, r, err)
		return
	}
	ov, err := c.svc.AddOvertime(r.Context(), params)
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusCreated, ov)
}

// Calendar resolves a line's day-by-day capacity.
// GET /api/v1/lines/{lineID}/calendar?start=2026-01-01&end=2026-01-31
func (c *CapacityController) Calendar(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "lineID")
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	if err != nil {
		responses.WriteError(w, r, errors.New(errors.CodeValidation, "start must be YYYY-MM-DD"))
		return
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err != nil {
		responses.WriteError(w, r, errors.New(errors.CodeValidation, "end must be YYYY-MM-DD"))
		return
	}

	cal, err := c.svc.Calendar(r.Context(), id, start, end)
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, cal)
}

// Forecast returns the weekly capacity-versus-demand outlook.
// GET /api/v1/capacity/forecast?weeks=8
func (c *CapacityController) Forecast(w http.ResponseWriter, r *http.Request) {
	weeks := 8
	if raw := r.URL.Query().Get("weeks"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			responses.WriteError(w, r, errors.New(errors.CodeValidation, "weeks must be an integer"))
			return
		}
		weeks = n
	}

	forecast, err := c.svc.Forecast(r.Context(), weeks)
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, forecast)
}

// Pipeline returns incomplete work order counts by location.
// GET /api/v1/capacity/pipeline
func (c *CapacityController) Pipeline(w http.ResponseWriter, r *http.Request) {
	counts, err := c.svc.Pipeline(r.Context())
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, counts)
}
