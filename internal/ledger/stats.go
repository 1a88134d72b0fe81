package ledger

import (
	"time"

	"github.com/yourusername/trade-log-tracker/internal/models"
)

// QuickStats summarizes the shape of a trade log
type QuickStats struct {
	TradeCount    int       `json:"trade_count"`
	StrategyCount int       `json:"strategy_count"`
	Strategies    []string  `json:"strategies"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
}

// Stats computes quick stats over the ledger's trades
func Stats(l *Ledger) QuickStats {
	return StatsOf(l.trades)
}

// StatsOf computes quick stats. Strategies keep first-appearance order;
// the date range spans the earliest and latest open dates.
func StatsOf(trades []models.TradeRecord) QuickStats {
	stats := QuickStats{TradeCount: len(trades), Strategies: Strategies(trades)}
	stats.StrategyCount = len(stats.Strategies)

	for i, t := range trades {
		if i == 0 || t.DateOpened.Before(stats.StartDate) {
			stats.StartDate = t.DateOpened
		}
		if i == 0 || t.DateOpened.After(stats.EndDate) {
			stats.EndDate = t.DateOpened
		}
	}
	return stats
}

// Strategies lists distinct strategy labels in first-appearance order
func Strategies(trades []models.TradeRecord) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, t := range trades {
		if !seen[t.Strategy] {
			seen[t.Strategy] = true
			names = append(names, t.Strategy)
		}
	}
	return names
}
