package analytics

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/trade-log-tracker/internal/models"
)

func TestWriteCSVWithFund(t *testing.T) {
	series, err := Aggregate(scenarioTrades(), 1000)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, series))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "drawdown_pct_of_starting_fund", records[0][8])
	assert.Equal(t, []string{"2024-02-02", "-150", "1", "-50", "100", "150", "1", "950", "15.000000"}, records[2])
}

func TestWriteCSVNoFund(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, AggregateNoFund(scenarioTrades())))

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, "date_closed,daily_pl,daily_count,cumulative_pl,running_peak,drawdown,drawdown_duration_days", header)
}

func TestToJSONOmitsFundFieldsWithoutFund(t *testing.T) {
	data, err := ToJSON(AggregateNoFund(scenarioTrades()))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "drawdown_pct_of_starting_fund")

	var decoded models.DailySeries
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 3, decoded.Len())
}

func TestWriteTables(t *testing.T) {
	trades := scenarioTrades()
	series, err := Aggregate(trades, 1000)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSeriesTable(&buf, series))
	assert.Contains(t, buf.String(), "2024-02-05")
	assert.Contains(t, buf.String(), "DD %")

	buf.Reset()
	require.NoError(t, WriteStrategyTable(&buf, PLPerStrategy(trades)))
	assert.Contains(t, buf.String(), "PCS")
}
