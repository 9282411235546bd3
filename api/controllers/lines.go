package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lineflow-mfg/lineflow-backend/api/responses"
	"github.com/lineflow-mfg/lineflow-backend/api/validators"
	"github.com/lineflow-mfg/lineflow-backend/internal/lines"
	"github.com/lineflow-mfg/lineflow-backend/pkg/errors"
)

type LinesController struct {
	svc *lines.Service
}

func NewLinesController(svc *lines.Service) *LinesController {
	return &LinesController{svc: svc}
}

func parseID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, errors.New(errors.CodeValidation, "invalid %s", param)
	}
	return id, nil
}

// List returns every line with shifts, config and overrides.
// GET /api/v1/lines
func (c *LinesController) List(w http.ResponseWriter, r *http.Request) {
	all, err := c.svc.List(r.Context())
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, all)
}

// Get returns one line.
// GET /api/v1/lines/{lineID}
func (c *LinesController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "lineID")
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	line, err := c.svc.Get(r.Context(), id)
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, line)
}

// Create registers a line.
// POST /api/v1/lines
func (c *LinesController) Create(w http.ResponseWriter, r *http.Request) {
	var params lines.CreateLineParams
	if err := validators.DecodeBody(r, &params); err != nil {
		responses.WriteError(w, r, err)
		return
	}
	line, err := c.svc.Create(r.Context(), params)
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusCreated, line)
}

// Update applies partial changes to a line.
// PATCH /api/v1/lines/{lineID}
func (c *LinesController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "lineID")
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	var params lines.UpdateLineParams
	if err := validators.DecodeBody(r, &params); err != nil {
		responses.WriteError(w, r, err)
		return
	}
	line, err := c.svc.Update(r.Context(), id, params)
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, line)
}

// CreateShift adds a shift (with breaks) to a line.
// POST /api/v1/lines/{lineID}/shifts
func (c *LinesController) CreateShift(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "lineID")
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	var params lines.ShiftParams
	if err := validators.DecodeBody(r, &params); err != nil {
		responses.WriteError(w, r, err)
		return
	}
	params.LineID = id
	shift, err := c.svc.CreateShift(r.Context(), params)
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusCreated, shift)
}

// DeleteShift removes a shift and its breaks.
// DELETE /api/v1/shifts/{shiftID}
func (c *LinesController) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "shiftID")
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	if err := c.svc.DeleteShift(r.Context(), id); err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, map[string]string{"deleted": id.String()})
}

// SetConfig upserts the line's buffer and rounding knobs.
// PUT /api/v1/lines/{lineID}/config
func (c *LinesController) SetConfig(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "lineID")
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	var params lines.ConfigParams
	if err := validators.DecodeBody(r, &params); err != nil {
		responses.WriteError(w, r, err)
		return
	}
	cfg, err := c.svc.SetConfig(r.Context(), id, params)
	if err != nil {
		responses.WriteError(w, r, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, cfg)
}
