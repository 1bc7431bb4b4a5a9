// Package metrics exposes the Prometheus collectors of the finance engine.
// Collectors register with the default registry and are served on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	PaymentsApplied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "simbiz_payments_applied_total",
			Help: "Total number of incremental project payments applied",
		},
	)

	PaymentConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "simbiz_payment_conflicts_total",
			Help: "Checkpoint compare-and-swap conflicts seen by the payment engine",
		},
	)

	AmountCredited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simbiz_amount_credited_total",
			Help: "Money credited to companies, by source",
		},
		[]string{"source"}, // source: stream, completion
	)

	ProjectsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "simbiz_projects_completed_total",
			Help: "Total number of projects reconciled to completion",
		},
	)

	SalaryDeducted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "simbiz_salary_deducted_total",
			Help: "Money deducted from companies for salaries",
		},
	)

	TickDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "simbiz_tick_duration_seconds",
			Help:    "Duration of a scheduler tick in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"job"}, // job: payments, payroll
	)

	TickErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simbiz_tick_errors_total",
			Help: "Per-entity failures during scheduler ticks",
		},
		[]string{"job"},
	)
)

// RecordCredit adds amount to the credited total for source.
func RecordCredit(source string, amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	AmountCredited.WithLabelValues(source).Add(amount.InexactFloat64())
}

func RecordDeduction(amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	SalaryDeducted.Add(amount.InexactFloat64())
}

func RecordTick(job string, duration time.Duration) {
	TickDuration.WithLabelValues(job).Observe(duration.Seconds())
}
