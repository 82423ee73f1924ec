// Package metrics provides Prometheus instrumentation for dispatch outcomes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector counts dispatches and observes their durations, labeled by
// terminal outcome (completed, failed, cancelled).
type Collector struct {
	dispatches *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics with reg.
// A nil reg uses the default Prometheus registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flow_dispatches_total",
			Help: "Number of pipeline dispatches by terminal outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flow_dispatch_duration_seconds",
			Help:    "Pipeline dispatch duration by terminal outcome.",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
	}

	reg.MustRegister(c.dispatches, c.duration)
	return c
}

// Observe records one finished dispatch.
func (c *Collector) Observe(outcome string, elapsed time.Duration) {
	c.dispatches.WithLabelValues(outcome).Inc()
	c.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// Handler returns an http.Handler that serves metrics from reg. A nil reg
// serves the default Prometheus gatherer.
func Handler(reg *prometheus.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
