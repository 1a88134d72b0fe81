package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/trade-log-tracker/internal/models"
)

func testSeries(fund float64) models.DailySeries {
	return models.DailySeries{StartingFund: fund, Rows: []models.DailyPLRow{{DailyCount: 1}}}
}

func TestKeyString(t *testing.T) {
	key := Key{Fingerprint: "abc", StartingFund: 50000, Variant: "fund"}
	assert.Equal(t, "abc:fund:50000", key.String())
	assert.NotEqual(t, key.String(), Key{Fingerprint: "abc", StartingFund: 50000.5, Variant: "fund"}.String())
}

func TestSeriesCacheGetSet(t *testing.T) {
	ctx := context.Background()
	sc := NewSeriesCache(time.Minute, 10)
	key := Key{Fingerprint: "abc", StartingFund: 1000, Variant: "fund"}

	_, found := sc.Get(ctx, key)
	assert.False(t, found)

	require.True(t, sc.Set(ctx, key, testSeries(1000)))
	series, found := sc.Get(ctx, key)
	require.True(t, found)
	assert.Equal(t, 1000.0, series.StartingFund)

	hits, misses, ratio := sc.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 0.5, ratio, 1e-12)
}

func TestSeriesCacheMaxSize(t *testing.T) {
	ctx := context.Background()
	sc := NewSeriesCache(time.Minute, 1)

	require.True(t, sc.Set(ctx, Key{Fingerprint: "a"}, testSeries(0)))
	assert.False(t, sc.Set(ctx, Key{Fingerprint: "b"}, testSeries(0)))
	assert.Equal(t, 1, sc.ItemCount())
}

func TestSeriesCacheExpiry(t *testing.T) {
	ctx := context.Background()
	sc := NewSeriesCache(20*time.Millisecond, 10)
	key := Key{Fingerprint: "abc", Variant: "no_fund"}
	sc.Set(ctx, key, testSeries(0))

	time.Sleep(50 * time.Millisecond)
	_, found := sc.Get(ctx, key)
	assert.False(t, found)
}

func TestSeriesCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	sc := NewSeriesCache(time.Minute, 10)
	sc.Set(ctx, Key{Fingerprint: "abc", Variant: "no_fund"}, testSeries(0))
	sc.Set(ctx, Key{Fingerprint: "abc", StartingFund: 1000, Variant: "fund"}, testSeries(1000))
	sc.Set(ctx, Key{Fingerprint: "xyz", Variant: "no_fund"}, testSeries(0))

	assert.Equal(t, 2, sc.Invalidate(ctx, "abc"))
	assert.Equal(t, 1, sc.ItemCount())
}

func TestSeriesCacheClear(t *testing.T) {
	ctx := context.Background()
	sc := NewSeriesCache(time.Minute, 10)
	sc.Set(ctx, Key{Fingerprint: "abc"}, testSeries(0))
	sc.Get(ctx, Key{Fingerprint: "abc"})

	sc.Clear()
	hits, misses, _ := sc.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
	assert.Zero(t, sc.ItemCount())
}
