// Package metrics provides Prometheus metrics for lina.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	ReviewsTotal     *prometheus.CounterVec
	ItemGradesTotal  *prometheus.CounterVec
	TransitionsTotal *prometheus.CounterVec
	ErrorsTotal      *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates and registers all metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		ReviewsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lina_reviews_total",
				Help: "Total number of finished skill reviews by result.",
			},
			[]string{"result"},
		),
		ItemGradesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lina_item_grades_total",
				Help: "Total number of graded item reviews by grade.",
			},
			[]string{"grade"},
		),
		TransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lina_level_transitions_total",
				Help: "Total number of mastery level changes by rule.",
			},
			[]string{"rule"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lina_errors_total",
				Help: "Total errors by operation.",
			},
			[]string{"op"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lina_http_request_duration_seconds",
				Help:    "HTTP request duration by route and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "status"},
		),
		registry: reg,
	}

	reg.MustRegister(m.ReviewsTotal)
	reg.MustRegister(m.ItemGradesTotal)
	reg.MustRegister(m.TransitionsTotal)
	reg.MustRegister(m.ErrorsTotal)
	reg.MustRegister(m.RequestDuration)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordReview counts a finished review.
func (m *Metrics) RecordReview(ok bool) {
	if m == nil {
		return
	}
	result := "fail"
	if ok {
		result = "ok"
	}
	m.ReviewsTotal.WithLabelValues(result).Inc()
}

// RecordGrade counts a graded item.
func (m *Metrics) RecordGrade(grade string) {
	if m == nil {
		return
	}
	m.ItemGradesTotal.WithLabelValues(grade).Inc()
}

// RecordTransition counts a level change.
func (m *Metrics) RecordTransition(rule string) {
	if m == nil {
		return
	}
	m.TransitionsTotal.WithLabelValues(rule).Inc()
}

// RecordError increments the error counter.
func (m *Metrics) RecordError(op string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(op).Inc()
}

// ObserveRequest records an HTTP request duration.
func (m *Metrics) ObserveRequest(route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, status).Observe(seconds)
}
