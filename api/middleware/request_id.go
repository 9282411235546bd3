package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lineflow-mfg/lineflow-backend/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns (or propagates) a request ID and binds a tagged logger
// onto the context for everything downstream.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)

			reqLogg := logg.WithRequestID(id)
			next.ServeHTTP(w, r.WithContext(reqLogg.WithContext(r.Context())))
		})
	}
}
