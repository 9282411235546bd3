package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/lineflow-mfg/lineflow-backend/api/responses"
	"github.com/lineflow-mfg/lineflow-backend/pkg/errors"
	"github.com/lineflow-mfg/lineflow-backend/pkg/logger"
)

// Recoverer converts handler panics into a clean 500 with a stack in the
// log, keeping the connection usable.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.FromContext(r.Context()).Error().
					Any("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("handler panicked")
				responses.WriteError(w, r, errors.New(errors.CodeInternal, "panic recovered"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
