// Package analytics derives daily P/L, drawdown and per-strategy series from
// normalized trades. Every function is pure and returns freshly allocated data.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/trade-log-tracker/internal/models"
)

// DefaultStartingFund is the baseline capital used when none is supplied
const DefaultStartingFund = 50000.0

// Variant names the two aggregation flavours
type Variant string

const (
	VariantFund   Variant = "fund"
	VariantNoFund Variant = "no_fund"
)

// group is the P/L sum and trade count of trades sharing a key
type group[K comparable] struct {
	Key   K
	Sum   decimal.Decimal
	Count int
}

// groupTrades buckets trades by key, keeping first-appearance order of keys
func groupTrades[K comparable](trades []models.TradeRecord, key func(models.TradeRecord) K) []group[K] {
	index := make(map[K]int)
	groups := make([]group[K], 0)
	for _, t := range trades {
		k := key(t)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, group[K]{Key: k})
		}
		groups[i].Sum = groups[i].Sum.Add(t.ProfitLoss)
		groups[i].Count++
	}
	return groups
}

// ValidateStartingFund rejects funds that cannot scale a drawdown percentage
func ValidateStartingFund(fund float64) error {
	if math.IsNaN(fund) || math.IsInf(fund, 0) {
		return &models.InvalidParameterError{Name: "starting_fund", Value: fund, Reason: "must be a finite number"}
	}
	if fund <= 0 {
		return &models.InvalidParameterError{Name: "starting_fund", Value: fund, Reason: "must be positive"}
	}
	return nil
}

// AggregateNoFund builds the daily P/L and drawdown series without a starting fund
func AggregateNoFund(trades []models.TradeRecord) models.DailySeries {
	return models.DailySeries{Rows: dailyRows(trades)}
}

// Aggregate builds the daily series and scales drawdown by startingFund
func Aggregate(trades []models.TradeRecord, startingFund float64) (models.DailySeries, error) {
	if err := ValidateStartingFund(startingFund); err != nil {
		return models.DailySeries{}, err
	}

	rows := dailyRows(trades)
	fund := decimal.NewFromFloat(startingFund)
	for i := range rows {
		value := rows[i].CumulativePL.Add(fund)
		pct := rows[i].Drawdown.InexactFloat64() / startingFund * 100
		rows[i].Fund = &value
		rows[i].DrawdownPct = &pct
	}
	return models.DailySeries{StartingFund: startingFund, Rows: rows}, nil
}

// dailyRows groups by close date and derives cumulative P/L, running peak,
// drawdown and drawdown duration in calendar days.
func dailyRows(trades []models.TradeRecord) []models.DailyPLRow {
	groups := groupTrades(trades, func(t models.TradeRecord) time.Time {
		return models.CivilDate(t.DateClosed)
	})
	sort.Slice(groups, func(a, b int) bool {
		return groups[a].Key.Before(groups[b].Key)
	})

	rows := make([]models.DailyPLRow, len(groups))
	cumulative := decimal.Zero
	peak := decimal.Zero
	for i, g := range groups {
		cumulative = cumulative.Add(g.Sum)
		if i == 0 || cumulative.GreaterThan(peak) {
			peak = cumulative
		}
		drawdown := peak.Sub(cumulative)

		// the first row never carries accrued duration
		duration := 0
		if i > 0 && !drawdown.IsZero() {
			duration = rows[i-1].DrawdownDuration + models.DaysBetween(rows[i-1].DateClosed, g.Key)
		}

		rows[i] = models.DailyPLRow{
			DateClosed:       g.Key,
			DailyPL:          g.Sum,
			DailyCount:       g.Count,
			CumulativePL:     cumulative,
			RunningPeak:      peak,
			Drawdown:         drawdown,
			DrawdownDuration: duration,
		}
	}
	return rows
}

// PLPercent returns cumulative P/L as a percentage of the starting fund per row
func PLPercent(series models.DailySeries) []float64 {
	if !series.HasFund() {
		return nil
	}
	out := make([]float64, len(series.Rows))
	for i, row := range series.Rows {
		out[i] = row.CumulativePL.InexactFloat64() / series.StartingFund * 100
	}
	return out
}

// MaxDrawdown returns the largest drawdown amount in the series
func MaxDrawdown(series models.DailySeries) decimal.Decimal {
	maxDD := decimal.Zero
	for _, row := range series.Rows {
		if row.Drawdown.GreaterThan(maxDD) {
			maxDD = row.Drawdown
		}
	}
	return maxDD
}

// MaxDrawdownDuration returns the longest drawdown streak in calendar days
func MaxDrawdownDuration(series models.DailySeries) int {
	longest := 0
	for _, row := range series.Rows {
		if row.DrawdownDuration > longest {
			longest = row.DrawdownDuration
		}
	}
	return longest
}
