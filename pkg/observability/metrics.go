package observability

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by Hooks.
type Metrics struct {
	Validations      *prometheus.CounterVec
	ValidationErrors *prometheus.CounterVec
	Duration         *prometheus.HistogramVec
	StoreChanges     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formcheck_validations_total",
				Help: "Total number of validation calls",
			},
			[]string{"operation", "outcome"},
		),
		ValidationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formcheck_validation_errors_total",
				Help: "Total number of validation errors reported, by code",
			},
			[]string{"code"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "formcheck_validation_duration_seconds",
				Help:    "Duration of validation calls",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"operation"},
		),
		StoreChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formcheck_schema_store_changes_total",
				Help: "Total number of schema registry mutations",
			},
			[]string{"action", "status"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Validations, m.ValidationErrors, m.Duration, m.StoreChanges)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() Hooks {
	return Hooks{
		OnValidate: func(ctx context.Context, e *ValidationEvent) {
			op := string(e.Operation)
			m.Validations.WithLabelValues(op, string(e.Outcome())).Inc()
			m.Duration.WithLabelValues(op).Observe(e.Duration.Seconds())
			for _, ve := range e.Result.Errors {
				m.ValidationErrors.WithLabelValues(ve.Code).Inc()
			}
		},
		OnStoreChange: func(ctx context.Context, e *StoreEvent) {
			status := "ok"
			if e.Err != nil {
				status = "error"
			}
			m.StoreChanges.WithLabelValues(strings.ToLower(e.Action), status).Inc()
		},
	}
}
