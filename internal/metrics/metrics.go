package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"SolarSizer/internal/sizing"
)

// Registry holds the sizing and run metrics. It satisfies sizing.Observer so
// it can be handed straight to a sweep.
type Registry struct {
	reg *prometheus.Registry

	PointsPlanned prometheus.Counter
	PointsTotal   *prometheus.CounterVec
	PointDuration prometheus.Histogram
	RunsTotal     *prometheus.CounterVec
	RunDuration   *prometheus.HistogramVec
}

// NewRegistry creates and registers all metrics on a private registry.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		PointsPlanned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "solarsizer_sweep_points_planned_total",
				Help: "Candidate configurations queued by sizing sweeps",
			},
		),

		PointsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solarsizer_sweep_points_total",
				Help: "Candidate configurations evaluated, by type and result",
			},
			[]string{"type", "result"},
		),

		PointDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "solarsizer_sweep_point_duration_seconds",
				Help:    "Time to simulate and value one candidate configuration",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
		),

		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solarsizer_runs_total",
				Help: "Analysis runs by source and result",
			},
			[]string{"source", "result"},
		),

		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solarsizer_run_duration_seconds",
				Help:    "End-to-end duration of an analysis run",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"source"},
		),
	}

	r.reg.MustRegister(
		r.PointsPlanned,
		r.PointsTotal,
		r.PointDuration,
		r.RunsTotal,
		r.RunDuration,
		collectors.NewGoCollector(),
	)
	return r
}

// Planned records queued sweep candidates.
func (r *Registry) Planned(n int) {
	r.PointsPlanned.Add(float64(n))
}

// Evaluated records one evaluated sweep candidate.
func (r *Registry) Evaluated(c sizing.Candidate, err error, elapsed time.Duration) {
	r.PointsTotal.WithLabelValues(string(c.Type), result(err)).Inc()
	r.PointDuration.Observe(elapsed.Seconds())
}

// RunFinished records the outcome of a run.
func (r *Registry) RunFinished(source string, err error, elapsed time.Duration) {
	r.RunsTotal.WithLabelValues(source, result(err)).Inc()
	r.RunDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
