package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/trade-log-tracker/internal/models"
)

// DefaultDateLayouts are tried in order when parsing date cells
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"2006/01/02",
	"Jan 2, 2006",
}

// Normalizer parses raw trade logs into ordered trade records
type Normalizer struct {
	layouts []string
}

// NewNormalizer creates a normalizer; an empty layout list uses DefaultDateLayouts
func NewNormalizer(layouts []string) *Normalizer {
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	return &Normalizer{layouts: append([]string(nil), layouts...)}
}

// Normalize parses raw with the default layouts
func Normalize(raw models.RawTable) ([]models.TradeRecord, error) {
	return NewNormalizer(nil).Normalize(raw)
}

// Normalize parses every row and returns trades ordered by open date.
// Ties keep input order. Any unparseable cell aborts the whole table.
func (n *Normalizer) Normalize(raw models.RawTable) ([]models.TradeRecord, error) {
	if missing := raw.MissingColumns(models.RequiredColumns...); len(missing) > 0 {
		return nil, &models.SchemaError{Missing: missing}
	}

	openedIdx := raw.ColumnIndex(models.ColumnDateOpened)
	closedIdx := raw.ColumnIndex(models.ColumnDateClosed)
	strategyIdx := raw.ColumnIndex(models.ColumnStrategy)
	plIdx := raw.ColumnIndex(models.ColumnProfitLoss)

	trades := make([]models.TradeRecord, 0, len(raw.Rows))
	for i, row := range raw.Rows {
		opened, err := n.parseDate(cell(row, openedIdx))
		if err != nil {
			return nil, &models.DateParseError{Row: i, Column: models.ColumnDateOpened, Value: cell(row, openedIdx), Err: err}
		}
		closed, err := n.parseDate(cell(row, closedIdx))
		if err != nil {
			return nil, &models.DateParseError{Row: i, Column: models.ColumnDateClosed, Value: cell(row, closedIdx), Err: err}
		}
		pl, err := ParseAmount(cell(row, plIdx))
		if err != nil {
			return nil, &models.ValueParseError{Row: i, Column: models.ColumnProfitLoss, Value: cell(row, plIdx), Err: err}
		}

		trades = append(trades, models.TradeRecord{
			Row:        i,
			DateOpened: opened,
			DateClosed: closed,
			Strategy:   strings.TrimSpace(cell(row, strategyIdx)),
			ProfitLoss: pl,
			Extra:      extraColumns(raw.Header, row, openedIdx, closedIdx, strategyIdx, plIdx),
		})
	}

	sort.SliceStable(trades, func(a, b int) bool {
		return trades[a].DateOpened.Before(trades[b].DateOpened)
	})
	return trades, nil
}

func (n *Normalizer) parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range n.layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return models.CivilDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("no layout matches %q", value)
}

// ParseAmount parses a currency cell such as "-1,250.50", "$300" or "(75)"
func ParseAmount(value string) (decimal.Decimal, error) {
	s := strings.TrimSpace(value)
	negative := false
	switch {
	case strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"):
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	case strings.HasPrefix(s, "-"):
		negative = true
		s = strings.TrimPrefix(s, "-")
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	// one sign marker only: parentheses or a single leading minus
	if s[0] == '-' || s[0] == '+' {
		return decimal.Zero, fmt.Errorf("misplaced sign in amount %q", value)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func extraColumns(header, row []string, skip ...int) map[string]string {
	skipped := make(map[int]bool, len(skip))
	for _, idx := range skip {
		skipped[idx] = true
	}
	var extra map[string]string
	for i, name := range header {
		if skipped[i] || name == "" {
			continue
		}
		if extra == nil {
			extra = make(map[string]string, len(header)-len(skip))
		}
		extra[name] = cell(row, i)
	}
	return extra
}
