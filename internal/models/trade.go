package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Canonical column names of an imported trade log
const (
	ColumnDateOpened = "Date Opened"
	ColumnDateClosed = "Date Closed"
	ColumnStrategy   = "Strategy"
	ColumnProfitLoss = "P/L"
)

// RequiredColumns lists the columns every trade log must carry
var RequiredColumns = []string{ColumnDateOpened, ColumnDateClosed, ColumnStrategy, ColumnProfitLoss}

// RawTable is an imported trade log before any parsing
type RawTable struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// ColumnIndex returns the position of a column by name, or -1
func (t RawTable) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// MissingColumns returns the names from required that are absent from the header
func (t RawTable) MissingColumns(required ...string) []string {
	var missing []string
	for _, name := range required {
		if t.ColumnIndex(name) < 0 {
			missing = append(missing, name)
		}
	}
	return missing
}

// Len returns the number of data rows
func (t RawTable) Len() int {
	return len(t.Rows)
}

// TradeRecord represents one closed option/derivative trade
type TradeRecord struct {
	Row        int               `json:"row"`
	DateOpened time.Time         `json:"date_opened"`
	DateClosed time.Time         `json:"date_closed"`
	Strategy   string            `json:"strategy"`
	ProfitLoss decimal.Decimal   `json:"profit_loss"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// IsWin reports whether the trade closed with a profit
func (t TradeRecord) IsWin() bool {
	return t.ProfitLoss.IsPositive()
}

// IsLoss reports whether the trade closed with a loss
func (t TradeRecord) IsLoss() bool {
	return t.ProfitLoss.IsNegative()
}

// CivilDate truncates a timestamp to its calendar date at UTC midnight
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from a to b
func DaysBetween(a, b time.Time) int {
	return int(CivilDate(b).Sub(CivilDate(a)).Hours() / 24)
}
