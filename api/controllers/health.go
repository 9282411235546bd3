package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/lineflow-mfg/lineflow-backend/api/responses"
)

// Pinger is anything with a connection to verify at readiness time.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	deps map[string]Pinger
}

func NewHealthController(deps map[string]Pinger) *HealthController {
	return &HealthController{deps: deps}
}

// Live reports process liveness.
func (c *HealthController) Live(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready pings every dependency and reports each one's state.
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(c.deps))
	for name, dep := range c.deps {
		if err := dep.Ping(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	responses.WriteSuccess(w, status, checks)
}
