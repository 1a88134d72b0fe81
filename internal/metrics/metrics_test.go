package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	switch {
	case out.Counter != nil:
		return out.Counter.GetValue()
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	}
	t.Fatalf("unsupported metric %s", m.Desc())
	return 0
}

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordLedgerLoad(t *testing.T) {
	InitRegistry()
	before := value(t, LedgerLoadsTotal.WithLabelValues("demo", "success"))
	trades := value(t, TradesLoadedTotal)

	RecordLedgerLoad("demo", "success", 40, 0.01)

	assert.Equal(t, before+1, value(t, LedgerLoadsTotal.WithLabelValues("demo", "success")))
	assert.Equal(t, trades+40, value(t, TradesLoadedTotal))
}

func TestRecordLoadError(t *testing.T) {
	InitRegistry()
	before := value(t, LedgerLoadErrorsTotal.WithLabelValues("schema"))
	RecordLoadError("schema")
	assert.Equal(t, before+1, value(t, LedgerLoadErrorsTotal.WithLabelValues("schema")))
}

func TestRecordAggregation(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordAggregation("fund", 0.002, 150)
	})
	assert.Equal(t, 150.0, value(t, LastMaxDrawdown))
}

func TestRecordCacheLookup(t *testing.T) {
	InitRegistry()
	hits := value(t, CacheHitsTotal)
	misses := value(t, CacheMissesTotal)

	RecordCacheLookup(true, 1)
	RecordCacheLookup(false, 0.5)

	assert.Equal(t, hits+1, value(t, CacheHitsTotal))
	assert.Equal(t, misses+1, value(t, CacheMissesTotal))
	assert.Equal(t, 0.5, value(t, CacheHitRatio))
}

func TestUpdateGauges(t *testing.T) {
	InitRegistry()
	UpdateActiveLedgers(3)
	UpdateCacheItems(7)
	assert.Equal(t, 3.0, value(t, ActiveLedgers))
	assert.Equal(t, 7.0, value(t, CacheItems))
}

func TestHandler(t *testing.T) {
	InitRegistry()
	RecordEmptyResult("portfolio")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "trade_log_tracker_empty_results_total")
}
