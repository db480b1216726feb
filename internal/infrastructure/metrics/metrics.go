package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/timelimit/internal/domain"
	"github.com/iho/timelimit/internal/usecase"
)

// OtherCategory labels validations of categories that did not resolve.
const OtherCategory = "other"

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Validation metrics
	Validations     *prometheus.CounterVec
	ObservedRuntime *prometheus.HistogramVec

	// Report metrics
	ReportsProcessed prometheus.Counter
	TestsUndeclared  prometheus.Counter
}

// New creates all metrics and registers them with reg. A nil reg uses the
// default Prometheus registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Validations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "timelimit_validations_total",
				Help: "Total runtime validations by category and outcome",
			},
			[]string{"category", "outcome"},
		),
		ObservedRuntime: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "timelimit_observed_runtime_seconds",
				Help:    "Observed test runtimes by declared category",
				Buckets: []float64{.01, .05, .08, .1, .25, .4, .5, 1, 1.5, 5, 15, 60},
			},
			[]string{"category"},
		),

		ReportsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "timelimit_reports_processed_total",
			Help: "Total go test -json streams processed",
		}),
		TestsUndeclared: factory.NewCounter(prometheus.CounterOpts{
			Name: "timelimit_tests_undeclared_total",
			Help: "Total tests finished without a declared category",
		}),
	}
}

// RecordValidation implements usecase.Recorder.
func (m *Metrics) RecordValidation(category string, observed time.Duration, outcome usecase.Outcome) {
	category = categoryLabel(category, outcome)
	m.Validations.WithLabelValues(category, string(outcome)).Inc()
	m.ObservedRuntime.WithLabelValues(category).Observe(observed.Seconds())
}

// RecordReport counts a processed go test -json stream and its undeclared tests.
func (m *Metrics) RecordReport(undeclared int) {
	m.ReportsProcessed.Inc()
	m.TestsUndeclared.Add(float64(undeclared))
}

// categoryLabel keeps the category name only when it is built in or resolved,
// so unresolvable names from clients cannot create new series.
func categoryLabel(category string, outcome usecase.Outcome) string {
	if outcome != usecase.OutcomeMisconfigured {
		return category
	}
	if _, ok := domain.FindCategory(domain.DefaultCategories(), category); ok {
		return category
	}
	return OtherCategory
}
