// Package metrics provides the Prometheus registry for the trade log tracker.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trade_log_tracker"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	LedgerLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_loads_total",
		Help:      "Total number of ledger loads by source kind and status",
	}, []string{"source", "status"})
	LedgerLoadErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_load_errors_total",
		Help:      "Total number of rejected ledgers by error kind",
	}, []string{"kind"})
	TradesLoadedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trades_loaded_total",
		Help:      "Total number of normalized trade records",
	})
	AggregationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "aggregations_total",
		Help:      "Total number of daily P/L aggregations by variant",
	}, []string{"variant"})
	EmptyResultsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "empty_results_total",
		Help:      "Total number of views that produced no rows",
	}, []string{"view"})
)

// Gauge metrics
var (
	ActiveLedgers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_ledgers",
		Help:      "Number of ledgers held in the session store",
	})
	LastMaxDrawdown = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_max_drawdown",
		Help:      "Maximum drawdown of the most recently aggregated series",
	})
)

// Histogram metrics
var (
	AggregationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "aggregation_duration_seconds",
		Help:      "Duration of daily P/L aggregation in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"variant"})
	LedgerLoadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ledger_load_duration_seconds",
		Help:      "Duration of reading and normalizing a ledger in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(LedgerLoadsTotal)
		registry.MustRegister(LedgerLoadErrorsTotal)
		registry.MustRegister(TradesLoadedTotal)
		registry.MustRegister(AggregationsTotal)
		registry.MustRegister(EmptyResultsTotal)

		registry.MustRegister(ActiveLedgers)
		registry.MustRegister(LastMaxDrawdown)

		registry.MustRegister(AggregationDuration)
		registry.MustRegister(LedgerLoadDuration)

		registry.MustRegister(CacheHitsTotal)
		registry.MustRegister(CacheMissesTotal)
		registry.MustRegister(CacheHitRatio)
		registry.MustRegister(CacheItems)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordLedgerLoad records a ledger load attempt.
// status should be one of: "success", "failure"
func RecordLedgerLoad(source, status string, trades int, durationSeconds float64) {
	LedgerLoadsTotal.WithLabelValues(source, status).Inc()
	LedgerLoadDuration.Observe(durationSeconds)
	if trades > 0 {
		TradesLoadedTotal.Add(float64(trades))
	}
}

// RecordLoadError records a rejected ledger by error kind.
// kind should be one of: "schema", "date_parse", "value_parse", "io"
func RecordLoadError(kind string) {
	LedgerLoadErrorsTotal.WithLabelValues(kind).Inc()
}

// RecordAggregation records one daily series aggregation.
func RecordAggregation(variant string, durationSeconds, maxDrawdown float64) {
	AggregationsTotal.WithLabelValues(variant).Inc()
	AggregationDuration.WithLabelValues(variant).Observe(durationSeconds)
	LastMaxDrawdown.Set(maxDrawdown)
}

// RecordEmptyResult records a view that produced no rows.
func RecordEmptyResult(view string) {
	EmptyResultsTotal.WithLabelValues(view).Inc()
}

// UpdateActiveLedgers updates the session store gauge.
func UpdateActiveLedgers(count int) {
	ActiveLedgers.Set(float64(count))
}
