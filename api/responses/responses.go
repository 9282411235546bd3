// Package responses defines the JSON envelope every endpoint returns.
package responses

import (
	"encoding/json"
	"net/http"

	"github.com/lineflow-mfg/lineflow-backend/pkg/errors"
	"github.com/lineflow-mfg/lineflow-backend/pkg/logger"
)

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// WriteSuccess writes data in the standard envelope.
func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(successEnvelope{Success: true, Data: data})
}

// WriteError maps a coded error onto the envelope and status. Internal
// errors hide their message from clients; the log keeps the detail.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	coded := errors.As(err)
	status := errors.HTTPStatus(err)

	logg := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		event := logg.Error().Err(err)
		if pg := errors.DumpPG(err); pg != "" {
			event = event.Str("pg", pg)
		}
		event.Str("path", r.URL.Path).Msg("request failed")
	} else {
		logg.Debug().Err(err).Str("path", r.URL.Path).Msg("request rejected")
	}

	body := errorBody{Code: string(coded.Code), Message: coded.Message, Metadata: coded.Metadata}
	if status >= http.StatusInternalServerError {
		body.Message = "internal error"
		body.Metadata = nil
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Success: false, Error: body})
}
