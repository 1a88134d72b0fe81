package ledger

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/trade-log-tracker/internal/models"
)

// Ledger is an immutable, normalized trade log
type Ledger struct {
	id          uuid.UUID
	source      string
	loadedAt    time.Time
	trades      []models.TradeRecord
	fingerprint string
}

// New wraps already normalized trades in a ledger
func New(source string, trades []models.TradeRecord) *Ledger {
	owned := append([]models.TradeRecord(nil), trades...)
	return &Ledger{
		id:          uuid.New(),
		source:      source,
		loadedAt:    time.Now().UTC(),
		trades:      owned,
		fingerprint: fingerprint(owned),
	}
}

// Load reads, parses and normalizes a trade log from src
func Load(ctx context.Context, src Source, n *Normalizer) (*Ledger, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", src.Name(), err)
	}
	defer rc.Close()

	return Read(rc, src.Name(), n)
}

// Read parses a CSV trade log from r. A nil normalizer uses the default layouts.
func Read(r io.Reader, source string, n *Normalizer) (*Ledger, error) {
	if n == nil {
		n = NewNormalizer(nil)
	}
	raw, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}
	trades, err := n.Normalize(raw)
	if err != nil {
		return nil, err
	}
	return New(source, trades), nil
}

// ID returns the unique identifier assigned at load time
func (l *Ledger) ID() uuid.UUID { return l.id }

// Source names where the trades came from
func (l *Ledger) Source() string { return l.source }

// LoadedAt returns the load timestamp
func (l *Ledger) LoadedAt() time.Time { return l.loadedAt }

// Len returns the number of trades
func (l *Ledger) Len() int { return len(l.trades) }

// Trades returns a copy of the trades ordered by open date.
// Extra maps are shared and must be treated as read-only.
func (l *Ledger) Trades() []models.TradeRecord {
	return append([]models.TradeRecord(nil), l.trades...)
}

// WithID returns a copy of the ledger carrying id
func (l *Ledger) WithID(id uuid.UUID) *Ledger {
	out := *l
	out.id = id
	return &out
}

// Fingerprint identifies the trade content, independent of ID and load time
func (l *Ledger) Fingerprint() string { return l.fingerprint }

// derive builds a view over a subset of trades, keeping identity metadata
func (l *Ledger) derive(trades []models.TradeRecord) *Ledger {
	return &Ledger{
		id:          l.id,
		source:      l.source,
		loadedAt:    l.loadedAt,
		trades:      trades,
		fingerprint: fingerprint(trades),
	}
}

func fingerprint(trades []models.TradeRecord) string {
	h := sha256.New()
	for _, t := range trades {
		fmt.Fprintf(h, "%s|%s|%s|%s\n",
			t.DateOpened.Format(time.DateOnly),
			t.DateClosed.Format(time.DateOnly),
			t.Strategy,
			t.ProfitLoss.String(),
		)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
