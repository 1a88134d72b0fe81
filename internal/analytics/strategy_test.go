package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/trade-log-tracker/internal/models"
)

func TestPLPerStrategySortedAscending(t *testing.T) {
	rows := PLPerStrategy(scenarioTrades())
	require.Len(t, rows, 3)

	assert.Equal(t, "PCS", rows[0].Strategy)
	assert.Equal(t, "-150", rows[0].ProfitLoss.String())
	assert.Equal(t, "CCS", rows[1].Strategy)
	assert.Equal(t, "IC", rows[2].Strategy)
	assert.Equal(t, "120", rows[2].ProfitLoss.String())
	assert.Equal(t, 2, rows[2].TradeCount)
}

func TestPLPerStrategyConservesTotal(t *testing.T) {
	trades := scenarioTrades()
	series := AggregateNoFund(trades)
	last, _ := series.Last()

	total := PLPerStrategy(trades)
	sum := total[0].ProfitLoss
	for _, row := range total[1:] {
		sum = sum.Add(row.ProfitLoss)
	}
	assert.True(t, last.CumulativePL.Equal(sum))
}

func TestOpenDatesPerStrategy(t *testing.T) {
	rows := OpenDatesPerStrategy(scenarioTrades())
	require.Len(t, rows, 3)
	assert.Equal(t, "IC", rows[0].Strategy)
	assert.Equal(t, []string{"2024-02-01", "2024-02-05"}, []string{
		rows[0].Dates[0].Format("2006-01-02"),
		rows[0].Dates[1].Format("2006-01-02"),
	})
	assert.Empty(t, OpenDatesPerStrategy([]models.TradeRecord{}))
}
