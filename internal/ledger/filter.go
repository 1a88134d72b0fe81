package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/trade-log-tracker/internal/models"
)

// Filter selects trades by strategy and open date.
// An empty strategy list selects every strategy; zero dates are unbounded.
type Filter struct {
	Strategies []string  `json:"strategies,omitempty"`
	From       time.Time `json:"from,omitempty"`
	To         time.Time `json:"to,omitempty"`
}

// Validate checks the date range
func (f Filter) Validate() error {
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return fmt.Errorf("%w: from %s is after to %s", models.ErrInvalidParameter,
			f.From.Format(time.DateOnly), f.To.Format(time.DateOnly))
	}
	return nil
}

// IsZero reports whether the filter selects everything
func (f Filter) IsZero() bool {
	return len(f.Strategies) == 0 && f.From.IsZero() && f.To.IsZero()
}

// Match reports whether a single trade passes the filter
func (f Filter) Match(t models.TradeRecord) bool {
	opened := models.CivilDate(t.DateOpened)
	if !f.From.IsZero() && opened.Before(models.CivilDate(f.From)) {
		return false
	}
	if !f.To.IsZero() && opened.After(models.CivilDate(f.To)) {
		return false
	}
	if len(f.Strategies) == 0 {
		return true
	}
	for _, s := range f.Strategies {
		if s == t.Strategy {
			return true
		}
	}
	return false
}

// Apply returns a new ledger holding the matching trades
func (f Filter) Apply(l *Ledger) (*Ledger, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.IsZero() {
		return l, nil
	}
	selected := make([]models.TradeRecord, 0, len(l.trades))
	for _, t := range l.trades {
		if f.Match(t) {
			selected = append(selected, t)
		}
	}
	return l.derive(selected), nil
}

// ParseFilter builds a filter from strategy names and YYYY-MM-DD bounds.
// Each strategy value may hold a comma separated list; empty bounds are open.
func ParseFilter(strategies []string, from, to string) (Filter, error) {
	f := Filter{}
	for _, value := range strategies {
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				f.Strategies = append(f.Strategies, name)
			}
		}
	}

	var err error
	if f.From, err = parseBound(from, "from"); err != nil {
		return Filter{}, err
	}
	if f.To, err = parseBound(to, "to"); err != nil {
		return Filter{}, err
	}
	return f, f.Validate()
}

func parseBound(raw, name string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q must be YYYY-MM-DD", models.ErrInvalidParameter, name, raw)
	}
	return t, nil
}
