// Package cache provides in-memory caching for aggregated series and loaded ledgers.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/yourusername/trade-log-tracker/internal/metrics"
	"github.com/yourusername/trade-log-tracker/internal/models"
)

// Key identifies one aggregated series
type Key struct {
	Fingerprint  string
	StartingFund float64
	Variant      string
}

// String returns string representation of cache key
func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%s", k.Fingerprint, k.Variant, strconv.FormatFloat(k.StartingFund, 'f', -1, 64))
}

// SeriesCache provides in-memory caching for daily series
type SeriesCache struct {
	cache     *gocache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewSeriesCache creates a new series cache
func NewSeriesCache(ttl time.Duration, maxSize int) *SeriesCache {
	return &SeriesCache{
		cache:   gocache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached series
func (sc *SeriesCache) Get(ctx context.Context, key Key) (models.DailySeries, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if result, found := sc.cache.Get(key.String()); found {
		if series, ok := result.(models.DailySeries); ok {
			sc.hitCount++
			sc.updateMetrics(true)
			return series, true
		}
	}

	sc.missCount++
	sc.updateMetrics(false)
	return models.DailySeries{}, false
}

// Set stores a series in cache. A full cache drops expired items first and
// refuses the new entry if that frees nothing.
func (sc *SeriesCache) Set(ctx context.Context, key Key, series models.DailySeries) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.maxSize > 0 && sc.cache.ItemCount() >= sc.maxSize {
		sc.cache.DeleteExpired()
		if sc.cache.ItemCount() >= sc.maxSize {
			return false
		}
	}

	sc.cache.Set(key.String(), series, sc.ttl)
	metrics.UpdateCacheItems(sc.cache.ItemCount())
	return true
}

// Invalidate removes all cached series built from the given ledger fingerprint
func (sc *SeriesCache) Invalidate(ctx context.Context, fingerprint string) int {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	removed := 0
	prefix := fingerprint + ":"
	for k := range sc.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			sc.cache.Delete(k)
			removed++
		}
	}
	metrics.UpdateCacheItems(sc.cache.ItemCount())
	return removed
}

// Clear flushes the entire cache
func (sc *SeriesCache) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.cache.Flush()
	sc.hitCount = 0
	sc.missCount = 0
	metrics.UpdateCacheItems(0)
}

// Stats returns cache statistics
func (sc *SeriesCache) Stats() (hits, misses uint64, ratio float64) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.stats()
}

func (sc *SeriesCache) stats() (hits, misses uint64, ratio float64) {
	hits = sc.hitCount
	misses = sc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// updateMetrics updates Prometheus metrics; callers hold mu
func (sc *SeriesCache) updateMetrics(hit bool) {
	_, _, ratio := sc.stats()
	metrics.RecordCacheLookup(hit, ratio)
}

// ItemCount returns the number of items in cache
func (sc *SeriesCache) ItemCount() int {
	return sc.cache.ItemCount()
}
