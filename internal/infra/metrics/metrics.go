package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aalvaropc/brixcalc/internal/ports"
)

// Registry holds the brixcalc Prometheus metrics on a private registry.
type Registry struct {
	reg *prometheus.Registry

	Computations    *prometheus.CounterVec
	ComputeDuration *prometheus.HistogramVec

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewRegistry creates and registers all brixcalc metrics.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		Computations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brixcalc_balance_computations_total",
				Help: "Total number of mass balance computations by outcome",
			},
			[]string{"outcome"},
		),

		ComputeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brixcalc_balance_compute_duration_seconds",
				Help:    "Duration of mass balance computations in seconds",
				Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
			},
			[]string{"outcome"},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brixcalc_http_requests_total",
				Help: "Total number of HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brixcalc_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"route", "method"},
		),
	}

	r.reg.MustRegister(
		r.Computations,
		r.ComputeDuration,
		r.HTTPRequests,
		r.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

var _ ports.BalanceRecorder = (*Registry)(nil)

// Observe records one computation outcome.
func (r *Registry) Observe(outcome string, elapsed time.Duration) {
	r.Computations.WithLabelValues(outcome).Inc()
	r.ComputeDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveHTTP records one served request.
func (r *Registry) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	r.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.HTTPDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer is useful for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
