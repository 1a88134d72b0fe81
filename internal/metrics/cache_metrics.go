package metrics

import "github.com/prometheus/client_golang/prometheus"

// Series cache metrics
var (
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "series_cache_hits_total",
		Help:      "Total number of series cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "series_cache_misses_total",
		Help:      "Total number of series cache misses",
	})
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "series_cache_hit_ratio",
		Help:      "Series cache hit ratio since the last reset",
	})
	CacheItems = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "series_cache_items",
		Help:      "Number of cached series",
	})
)

// RecordCacheLookup records a series cache lookup and the resulting ratio.
func RecordCacheLookup(hit bool, ratio float64) {
	if hit {
		CacheHitsTotal.Inc()
	} else {
		CacheMissesTotal.Inc()
	}
	CacheHitRatio.Set(ratio)
}

// UpdateCacheItems updates the cached series gauge.
func UpdateCacheItems(count int) {
	CacheItems.Set(float64(count))
}
