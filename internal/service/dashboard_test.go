package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/trade-log-tracker/internal/cache"
	"github.com/yourusername/trade-log-tracker/internal/ledger"
	"github.com/yourusername/trade-log-tracker/internal/models"
)

const scenarioCSV = `Date Opened,Date Closed,Strategy,P/L
2024-02-05,2024-02-05,IC,20
2024-02-01,2024-02-01,IC,100
2024-02-02,2024-02-02,PCS,-150
`

func newTestDashboard(t *testing.T) (*Dashboard, *cache.SeriesCache) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	seriesCache := cache.NewSeriesCache(time.Minute, 100)
	return NewDashboard(DefaultOptions(), seriesCache, log), seriesCache
}

func loadScenario(t *testing.T, d *Dashboard) *ledger.Ledger {
	t.Helper()
	l, err := d.Read(context.Background(), strings.NewReader(scenarioCSV), "upload")
	require.NoError(t, err)
	return l
}

func TestDashboardLoadDemo(t *testing.T) {
	d, _ := newTestDashboard(t)
	l, err := d.Load(context.Background(), ledger.DemoSource{})
	require.NoError(t, err)
	assert.Equal(t, 40, l.Len())
	assert.Equal(t, "demo", l.Source())
	assert.Equal(t, 1, d.Stats().Snapshot().Loads)
}

func TestDashboardLoadRejected(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		kind string
		is   error
	}{
		{name: "missing column", csv: "Date Opened,Strategy,P/L\n2024-01-02,IC,5\n", kind: "schema", is: models.ErrSchema},
		{name: "bad date", csv: "Date Opened,Date Closed,Strategy,P/L\nsoon,2024-01-02,IC,5\n", kind: "date_parse", is: models.ErrDateParse},
		{name: "bad amount", csv: "Date Opened,Date Closed,Strategy,P/L\n2024-01-02,2024-01-02,IC,lots\n", kind: "value_parse", is: models.ErrValueParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDashboard(t)
			_, err := d.Read(context.Background(), strings.NewReader(tt.csv), "upload")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.is))
			assert.Equal(t, tt.kind, ErrorKind(err))
			assert.Equal(t, 1, d.Stats().Snapshot().Rejections)
		})
	}
}

func TestDashboardSummary(t *testing.T) {
	d, _ := newTestDashboard(t)
	l := loadScenario(t, d)

	view, err := d.Summary(context.Background(), l)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Stats.TradeCount)
	assert.Equal(t, []string{"IC", "PCS"}, view.Stats.Strategies)
	assert.False(t, view.Series.HasFund())
	require.Equal(t, 3, view.Series.Len())
	assert.Equal(t, []int{0, 1, 4}, []int{
		view.Series.Rows[0].DrawdownDuration,
		view.Series.Rows[1].DrawdownDuration,
		view.Series.Rows[2].DrawdownDuration,
	})
	assert.Empty(t, view.Warnings)
}

func TestDashboardPortfolio(t *testing.T) {
	d, _ := newTestDashboard(t)
	l := loadScenario(t, d)

	view, err := d.Portfolio(context.Background(), l, ledger.Filter{}, 1000)
	require.NoError(t, err)
	require.True(t, view.Series.HasFund())
	require.NotNil(t, view.Series.Rows[1].DrawdownPct)
	assert.InDelta(t, 15.0, *view.Series.Rows[1].DrawdownPct, 1e-12)
	assert.Equal(t, []float64{10, -5, -3}, view.PLPercent)
	assert.Equal(t, 4, view.Summary.MaxDrawdownDuration)
}

func TestDashboardPortfolioFiltered(t *testing.T) {
	d, _ := newTestDashboard(t)
	l := loadScenario(t, d)

	view, err := d.Portfolio(context.Background(), l, ledger.Filter{Strategies: []string{"IC"}}, 1000)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Stats.TradeCount)
	require.Equal(t, 2, view.Series.Len())
	assert.True(t, view.Series.Rows[1].Drawdown.IsZero())
	assert.Equal(t, 3, l.Len())
}

func TestDashboardEmptySelectionWarns(t *testing.T) {
	d, _ := newTestDashboard(t)
	l := loadScenario(t, d)

	view, err := d.Portfolio(context.Background(), l, ledger.Filter{Strategies: []string{"nothing"}}, 1000)
	require.NoError(t, err)
	assert.True(t, view.Series.IsEmpty())
	require.Len(t, view.Warnings, 1)
	assert.ErrorIs(t, view.Warnings[0], models.ErrEmptyResult)
	assert.Equal(t, ViewPortfolio, view.Warnings[0].View)
}

func TestDashboardRejectsFund(t *testing.T) {
	d, _ := newTestDashboard(t)
	l := loadScenario(t, d)

	for _, fund := range []float64{0, -5, 5} {
		_, err := d.Portfolio(context.Background(), l, ledger.Filter{}, fund)
		var paramErr *models.InvalidParameterError
		require.ErrorAs(t, err, &paramErr, "fund %v", fund)
		assert.Equal(t, "starting_fund", paramErr.Name)
	}
}

func TestDashboardRejectsInvertedRange(t *testing.T) {
	d, _ := newTestDashboard(t)
	l := loadScenario(t, d)

	filter := ledger.Filter{
		From: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	_, err := d.Strategies(context.Background(), l, filter, 1000)
	assert.ErrorIs(t, err, models.ErrInvalidParameter)
}

func TestDashboardStrategies(t *testing.T) {
	d, _ := newTestDashboard(t)
	l := loadScenario(t, d)

	view, err := d.Strategies(context.Background(), l, ledger.Filter{}, 1000)
	require.NoError(t, err)
	require.Len(t, view.PLPerStrategy, 2)
	assert.Equal(t, "PCS", view.PLPerStrategy[0].Strategy)
	assert.Equal(t, "IC", view.PLPerStrategy[1].Strategy)
	assert.Len(t, view.OpenDates, 2)
	assert.Len(t, view.DailyPLPctBins, DefaultOptions().PLBins)
	assert.NotEmpty(t, view.DailyCountBins)
}

func TestDashboardCachesSeries(t *testing.T) {
	d, seriesCache := newTestDashboard(t)
	l := loadScenario(t, d)
	ctx := context.Background()

	first, err := d.Series(ctx, l, 1000)
	require.NoError(t, err)
	second, err := d.Series(ctx, l, 1000)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	hits, misses, _ := seriesCache.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)

	_, err = d.Series(ctx, l, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, seriesCache.ItemCount())
}

func TestStatsString(t *testing.T) {
	stats := NewStats()
	stats.RecordLoad(10)
	stats.RecordRejection()
	stats.RecordView(ViewSummary)

	out := stats.String()
	assert.Contains(t, out, "Loads=1 (50.0%)")
	assert.Contains(t, out, "Trades=10")

	stats.Reset()
	assert.Zero(t, stats.Snapshot().Loads)
}

func TestErrorKindTooLarge(t *testing.T) {
	err := fmt.Errorf("failed to read trade log: %w", ledger.ErrTooLarge)
	assert.Equal(t, "too_large", ErrorKind(err))
}
