package analytics

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/trade-log-tracker/internal/models"
)

// Summary represents trade log performance metrics
type Summary struct {
	TotalPL             decimal.Decimal `json:"total_pl"`
	TotalTrades         int             `json:"total_trades"`
	WinningTrades       int             `json:"winning_trades"`
	LosingTrades        int             `json:"losing_trades"`
	WinRate             float64         `json:"win_rate"`
	ProfitFactor        float64         `json:"profit_factor"`
	AverageWin          float64         `json:"average_win"`
	AverageLoss         float64         `json:"average_loss"`
	LargestWin          float64         `json:"largest_win"`
	LargestLoss         float64         `json:"largest_loss"`
	Expectancy          float64         `json:"expectancy"`
	MaxDrawdown         decimal.Decimal `json:"max_drawdown"`
	MaxDrawdownPct      *float64        `json:"max_drawdown_pct,omitempty"`
	MaxDrawdownDuration int             `json:"max_drawdown_duration_days"`
	TotalReturnPct      *float64        `json:"total_return_pct,omitempty"`
	CAGR                *float64        `json:"cagr,omitempty"`
	FirstClose          time.Time       `json:"first_close,omitempty"`
	LastClose           time.Time       `json:"last_close,omitempty"`
	TradingDays         int             `json:"trading_days"`
	CalendarDays        int             `json:"calendar_days"`
}

// Summarize computes performance metrics for trades and their daily series.
// Fund-relative fields are set only when the series carries a starting fund.
func Summarize(trades []models.TradeRecord, series models.DailySeries) Summary {
	summary := Summary{
		TotalTrades: len(trades),
		TradingDays: series.Len(),
	}
	for _, t := range trades {
		summary.TotalPL = summary.TotalPL.Add(t.ProfitLoss)
	}

	summary.WinningTrades, summary.LosingTrades, summary.AverageWin, summary.AverageLoss, summary.LargestWin, summary.LargestLoss = calculateTradeStats(trades)
	summary.WinRate = calculateWinRate(summary.WinningTrades, summary.TotalTrades)
	summary.ProfitFactor = calculateProfitFactor(trades)
	summary.Expectancy = calculateExpectancy(summary.TotalPL, summary.TotalTrades)

	if series.IsEmpty() {
		return summary
	}

	first := series.Rows[0]
	last, _ := series.Last()
	summary.FirstClose = first.DateClosed
	summary.LastClose = last.DateClosed
	summary.CalendarDays = models.DaysBetween(first.DateClosed, last.DateClosed) + 1
	summary.MaxDrawdown = MaxDrawdown(series)
	summary.MaxDrawdownDuration = MaxDrawdownDuration(series)

	if series.HasFund() {
		fund := series.StartingFund
		ddPct := summary.MaxDrawdown.InexactFloat64() / fund * 100
		summary.MaxDrawdownPct = &ddPct
		final := fund + last.CumulativePL.InexactFloat64()
		retPct := (final - fund) / fund * 100
		summary.TotalReturnPct = &retPct
		cagr := calculateCAGR(fund, final, summary.CalendarDays)
		summary.CAGR = &cagr
	}
	return summary
}

func calculateTradeStats(trades []models.TradeRecord) (int, int, float64, float64, float64, float64) {
	wins := 0
	losses := 0
	winSum := decimal.Zero
	lossSum := decimal.Zero
	largestWin := decimal.Zero
	largestLoss := decimal.Zero
	for _, t := range trades {
		pl := t.ProfitLoss
		if t.IsWin() {
			wins++
			winSum = winSum.Add(pl)
			if pl.GreaterThan(largestWin) {
				largestWin = pl
			}
		} else if t.IsLoss() {
			losses++
			lossSum = lossSum.Add(pl)
			if pl.LessThan(largestLoss) {
				largestLoss = pl
			}
		}
	}

	avgWin := 0.0
	avgLoss := 0.0
	if wins > 0 {
		avgWin = winSum.InexactFloat64() / float64(wins)
	}
	if losses > 0 {
		avgLoss = lossSum.InexactFloat64() / float64(losses)
	}
	return wins, losses, avgWin, avgLoss, largestWin.InexactFloat64(), largestLoss.InexactFloat64()
}

func calculateWinRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total)
}

func calculateProfitFactor(trades []models.TradeRecord) float64 {
	grossProfit := decimal.Zero
	grossLoss := decimal.Zero
	for _, t := range trades {
		if t.IsWin() {
			grossProfit = grossProfit.Add(t.ProfitLoss)
		} else {
			grossLoss = grossLoss.Add(t.ProfitLoss.Abs())
		}
	}
	if grossLoss.IsZero() {
		if grossProfit.IsPositive() {
			return 999
		}
		return 0
	}
	return grossProfit.Div(grossLoss).InexactFloat64()
}

func calculateExpectancy(net decimal.Decimal, trades int) float64 {
	if trades == 0 {
		return 0
	}
	return net.InexactFloat64() / float64(trades)
}

func calculateCAGR(initial, final float64, days int) float64 {
	if initial <= 0 || days <= 0 {
		return 0
	}
	if final <= 0 {
		return -1
	}
	years := float64(days) / 365.0
	return math.Pow(final/initial, 1.0/years) - 1.0
}
