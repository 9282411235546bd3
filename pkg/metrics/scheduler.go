// Package metrics exposes Prometheus instrumentation for the scheduling
// engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Scheduler instruments assignment runs and queue simulations.
type Scheduler struct {
	runs         *prometheus.CounterVec
	runDuration  prometheus.Histogram
	assigned     prometheus.Counter
	unassigned   prometheus.Gauge
	lateOrders   prometheus.Gauge
	lockSkipped  prometheus.Counter
	simDuration  *prometheus.HistogramVec
	queueLengths *prometheus.GaugeVec
}

// NewScheduler registers the scheduler metrics on reg.
func NewScheduler(reg prometheus.Registerer) *Scheduler {
	m := &Scheduler{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lineflow",
			Subsystem: "scheduler",
			Name:      "runs_total",
			Help:      "Assignment runs by outcome.",
		}, []string{"outcome"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lineflow",
			Subsystem: "scheduler",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a full assignment run.",
			Buckets:   prometheus.DefBuckets,
		}),
		assigned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lineflow",
			Subsystem: "scheduler",
			Name:      "orders_assigned_total",
			Help:      "Work orders placed on a line by the optimizer.",
		}),
		unassigned: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lineflow",
			Subsystem: "scheduler",
			Name:      "orders_unassigned",
			Help:      "Eligible work orders left unplaced after the last run.",
		}),
		lateOrders: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lineflow",
			Subsystem: "scheduler",
			Name:      "orders_projected_late",
			Help:      "Orders whose projected end falls after the promise date.",
		}),
		lockSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lineflow",
			Subsystem: "scheduler",
			Name:      "runs_lock_contended_total",
			Help:      "Runs rejected because another run held the lock.",
		}),
		simDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lineflow",
			Subsystem: "scheduler",
			Name:      "simulation_duration_seconds",
			Help:      "Queue simulation time per line.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1},
		}, []string{"kind"}),
		queueLengths: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lineflow",
			Subsystem: "scheduler",
			Name:      "line_queue_length",
			Help:      "Jobs queued per line after the last run.",
		}, []string{"line"}),
	}

	reg.MustRegister(
		m.runs, m.runDuration, m.assigned, m.unassigned,
		m.lateOrders, m.lockSkipped, m.simDuration, m.queueLengths,
	)
	return m
}

func (m *Scheduler) RunCompleted(outcome string, took time.Duration) {
	m.runs.WithLabelValues(outcome).Inc()
	m.runDuration.Observe(took.Seconds())
}

func (m *Scheduler) RunLockContended()      { m.lockSkipped.Inc() }
func (m *Scheduler) OrdersAssigned(n int)   { m.assigned.Add(float64(n)) }
func (m *Scheduler) OrdersUnassigned(n int) { m.unassigned.Set(float64(n)) }
func (m *Scheduler) OrdersLate(n int)       { m.lateOrders.Set(float64(n)) }

func (m *Scheduler) SimulationTook(kind string, took time.Duration) {
	m.simDuration.WithLabelValues(kind).Observe(took.Seconds())
}

func (m *Scheduler) QueueLength(line string, n int) {
	m.queueLengths.WithLabelValues(line).Set(float64(n))
}
