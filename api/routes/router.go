// Package routes assembles the HTTP surface.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lineflow-mfg/lineflow-backend/api/controllers"
	"github.com/lineflow-mfg/lineflow-backend/api/middleware"
	"github.com/lineflow-mfg/lineflow-backend/pkg/logger"
)

type Controllers struct {
	Health     *controllers.HealthController
	Scheduling *controllers.SchedulingController
	Lines      *controllers.LinesController
	WorkOrders *controllers.WorkOrdersController
	Capacity   *controllers.CapacityController
}

// New wires middleware and routes into the service's router.
func New(logg *logger.Logger, corsOrigins []string, registry *prometheus.Registry, c Controllers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(corsOrigins))

	r.Get("/health/live", c.Health.Live)
	r.Get("/health/ready", c.Health.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/schedule", func(r chi.Router) {
			r.Post("/run", c.Scheduling.Run)
		})

		r.Route("/lines", func(r chi.Router) {
			r.Get("/", c.Lines.List)
			r.Post("/", c.Lines.Create)
			r.Route("/{lineID}", func(r chi.Router) {
				r.Get("/", c.Lines.Get)
				r.Patch("/", c.Lines.Update)
				r.Get("/queue-dates", c.Scheduling.QueueDates)
				r.Post("/shifts", c.Lines.CreateShift)
				r.Put("/config", c.Lines.SetConfig)
				r.Get("/overrides", c.Capacity.ListOverrides)
				r.Get("/calendar", c.Capacity.Calendar)
			})
		})

		r.Delete("/shifts/{shiftID}", c.Lines.DeleteShift)

		r.Route("/work-orders", func(r chi.Router) {
			r.Get("/", c.WorkOrders.List)
			r.Post("/", c.WorkOrders.Create)
			r.Get("/trolleys-in-use", c.WorkOrders.TrolleysInUse)
			r.Route("/{orderID}", func(r chi.Router) {
				r.Get("/", c.WorkOrders.Get)
				r.Patch("/", c.WorkOrders.Update)
				r.Post("/assign", c.WorkOrders.ManualAssign)
				r.Post("/unassign", c.WorkOrders.Unassign)
				r.Post("/lock", c.WorkOrders.SetLock)
				r.Post("/complete", c.WorkOrders.Complete)
			})
		})

		r.Route("/capacity", func(r chi.Router) {
			r.Post("/overrides", c.Capacity.CreateOverride)
			r.Put("/overrides/{overrideID}", c.Capacity.UpdateOverride)
			r.Delete("/overrides/{overrideID}", c.Capacity.DeleteOverride)
			r.Post("/overtime", c.Capacity.AddOvertime)
			r.Get("/forecast", c.Capacity.Forecast)
			r.Get("/pipeline", c.Capacity.Pipeline)
		})
	})

	return r
}
