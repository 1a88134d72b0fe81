package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyPLRow is one closed date of an aggregated P/L series
type DailyPLRow struct {
	DateClosed       time.Time        `json:"date_closed"`
	DailyPL          decimal.Decimal  `json:"daily_pl"`
	DailyCount       int              `json:"daily_count"`
	CumulativePL     decimal.Decimal  `json:"cumulative_pl"`
	RunningPeak      decimal.Decimal  `json:"running_peak"`
	Drawdown         decimal.Decimal  `json:"drawdown"`
	DrawdownDuration int              `json:"drawdown_duration_days"`
	Fund             *decimal.Decimal `json:"fund,omitempty"`
	DrawdownPct      *float64         `json:"drawdown_pct_of_starting_fund,omitempty"`
}

// DailySeries is a chronologically ordered set of daily P/L rows
type DailySeries struct {
	StartingFund float64      `json:"starting_fund,omitempty"`
	Rows         []DailyPLRow `json:"rows"`
}

// HasFund reports whether the series was built against a starting fund
func (s DailySeries) HasFund() bool {
	return s.StartingFund > 0
}

// Len returns the number of rows
func (s DailySeries) Len() int {
	return len(s.Rows)
}

// IsEmpty reports whether the series has no rows
func (s DailySeries) IsEmpty() bool {
	return len(s.Rows) == 0
}

// Last returns the final row, or false for an empty series
func (s DailySeries) Last() (DailyPLRow, bool) {
	if len(s.Rows) == 0 {
		return DailyPLRow{}, false
	}
	return s.Rows[len(s.Rows)-1], true
}

// StrategyPL is the P/L sum of one strategy
type StrategyPL struct {
	Strategy   string          `json:"strategy"`
	ProfitLoss decimal.Decimal `json:"profit_loss"`
	TradeCount int             `json:"trade_count"`
}

// StrategyOpenDates lists the open dates of one strategy's trades
type StrategyOpenDates struct {
	Strategy string      `json:"strategy"`
	Dates    []time.Time `json:"dates"`
}
