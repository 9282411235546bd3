package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lineflow-mfg/lineflow-backend/api/responses"
	"github.com/lineflow-mfg/lineflow-backend/api/validators"
	"github.com/lineflow-mfg/lineflow-backend/internal/scheduling"
	"github.com/lineflow-mfg/lineflow-backend/pkg/enums"
	"github.com/lineflow-mfg/lineflow-backend/pkg/errors"
)

type SchedulingController struct {
	svc *scheduling.Service
}

func NewSchedulingController(svc *scheduling.Service) *SchedulingController {
	return &SchedulingController{svc: svc}
}

type runRequest struct {
	Mode          enums.ScheduleMode `json:"mode"`
	DryRun        bool               `json:"dry_run"`
	ClearExisting bool               `json:"clear_existing"`
}

// Run triggers one assignment pass.
// POST /api/v1/schedule/run
func (c *SchedulingController) Run(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := validators.DecodeBody(r, &req); err != nil {
		responses.WriteError(w, r, err)
		return
	}
	if req.Mode != "" && !req.Mode.Valid() {
		responses.WriteError(w, r, errors.New(errors.CodeValidation, "unknown schedule mode %q", req.Mode))
		return
	}

	report, err := c.svc.RunAssignment(r.Context(), scheduling.AssignParams{
		Mode:          req.Mode,
		DryRun:        req.DryRun,
		ClearExisting: req.ClearExisting,
	})
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, report)
}

// QueueDates re-simulates one line's queue and returns the projections.
// GET /api/v1/lines/{lineID}/queue-dates
func (c *SchedulingController) QueueDates(w http.ResponseWriter, r *http.Request) {
	lineID, err := uuid.Parse(chi.URLParam(r, "lineID"))
	if err != nil {
		responses.WriteError(w, r, errors.New(errors.CodeValidation, "invalid line id"))
		return
	}

	projection, err := c.svc.ComputeQueueDates(r.Context(), lineID)
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, projection)
}
