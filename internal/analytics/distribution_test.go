package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogram(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		bins   int
		counts []int
	}{
		{name: "empty", values: nil, bins: 4, counts: []int{}},
		{name: "constant", values: []float64{2, 2, 2}, bins: 4, counts: []int{3}},
		{name: "spread", values: []float64{0, 1, 2, 3, 4}, bins: 2, counts: []int{2, 3}},
		{name: "max lands in last bin", values: []float64{0, 10}, bins: 5, counts: []int{1, 0, 0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bins := Histogram(tt.values, tt.bins)
			counts := make([]int, len(bins))
			for i, b := range bins {
				counts[i] = b.Count
			}
			assert.Equal(t, tt.counts, counts)
		})
	}
}

func TestHistogramEdges(t *testing.T) {
	bins := Histogram([]float64{-5, 5}, 2)
	require.Len(t, bins, 2)
	assert.Equal(t, -5.0, bins[0].Lower)
	assert.Equal(t, 0.0, bins[0].Upper)
	assert.Equal(t, 5.0, bins[1].Upper)
}

func TestDailyDistributions(t *testing.T) {
	trades := scenarioTrades()
	series, err := Aggregate(trades, 1000)
	require.NoError(t, err)

	pl := DailyPLDistribution(series, DefaultPLBins)
	require.Len(t, pl, DefaultPLBins)
	total := 0
	for _, b := range pl {
		total += b.Count
	}
	assert.Equal(t, series.Len(), total)
	assert.Equal(t, -15.0, pl[0].Lower)
	assert.Equal(t, 10.0, pl[len(pl)-1].Upper)

	counts := DailyCountDistribution(series, DefaultCountBins)
	require.NotEmpty(t, counts)
	assert.Equal(t, 1.0, counts[0].Lower)
	assert.Equal(t, 2.0, counts[len(counts)-1].Upper)

	assert.Empty(t, DailyPLDistribution(AggregateNoFund(trades), DefaultPLBins))
}
