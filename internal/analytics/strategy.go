package analytics

import (
	"sort"
	"time"

	"github.com/yourusername/trade-log-tracker/internal/models"
)

// PLPerStrategy sums P/L per strategy, ordered ascending by P/L
func PLPerStrategy(trades []models.TradeRecord) []models.StrategyPL {
	groups := groupTrades(trades, func(t models.TradeRecord) string { return t.Strategy })
	out := make([]models.StrategyPL, len(groups))
	for i, g := range groups {
		out[i] = models.StrategyPL{Strategy: g.Key, ProfitLoss: g.Sum, TradeCount: g.Count}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].ProfitLoss.LessThan(out[b].ProfitLoss)
	})
	return out
}

// OpenDatesPerStrategy lists each strategy's trade open dates in ledger order
func OpenDatesPerStrategy(trades []models.TradeRecord) []models.StrategyOpenDates {
	index := make(map[string]int)
	out := make([]models.StrategyOpenDates, 0)
	for _, t := range trades {
		i, ok := index[t.Strategy]
		if !ok {
			i = len(out)
			index[t.Strategy] = i
			out = append(out, models.StrategyOpenDates{Strategy: t.Strategy, Dates: []time.Time{}})
		}
		out[i].Dates = append(out[i].Dates, t.DateOpened)
	}
	return out
}
