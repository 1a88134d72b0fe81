package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/yourusername/trade-log-tracker/internal/ledger"
	"github.com/yourusername/trade-log-tracker/internal/metrics"
	"github.com/yourusername/trade-log-tracker/internal/models"
)

// LedgerStore keeps uploaded ledgers for the lifetime of a session.
// Pinned ledgers never expire and stay until replaced or deleted.
type LedgerStore struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewLedgerStore creates a store whose entries expire after ttl of inactivity
func NewLedgerStore(ttl time.Duration) *LedgerStore {
	store := &LedgerStore{
		cache: gocache.New(ttl, ttl*2),
		ttl:   ttl,
	}
	store.cache.OnEvicted(func(string, interface{}) {
		metrics.UpdateActiveLedgers(store.cache.ItemCount())
	})
	return store
}

type storedLedger struct {
	ledger *ledger.Ledger
	pinned bool
}

// Put stores a ledger under its ID with the idle session TTL
func (s *LedgerStore) Put(ctx context.Context, l *ledger.Ledger) {
	s.cache.Set(l.ID().String(), storedLedger{ledger: l}, s.ttl)
	metrics.UpdateActiveLedgers(s.cache.ItemCount())
}

// PutPinned stores a ledger that does not expire
func (s *LedgerStore) PutPinned(ctx context.Context, l *ledger.Ledger) {
	s.cache.Set(l.ID().String(), storedLedger{ledger: l, pinned: true}, gocache.NoExpiration)
	metrics.UpdateActiveLedgers(s.cache.ItemCount())
}

// Get returns the ledger and extends its session unless it is pinned
func (s *LedgerStore) Get(ctx context.Context, id uuid.UUID) (*ledger.Ledger, error) {
	item, found := s.cache.Get(id.String())
	if !found {
		return nil, fmt.Errorf("ledger %s: %w", id, models.ErrLedgerNotFound)
	}
	stored, ok := item.(storedLedger)
	if !ok {
		return nil, fmt.Errorf("ledger %s: %w", id, models.ErrLedgerNotFound)
	}
	if !stored.pinned {
		s.cache.Set(id.String(), stored, s.ttl)
	}
	return stored.ledger, nil
}

// Delete removes a ledger, reporting whether it was present
func (s *LedgerStore) Delete(ctx context.Context, id uuid.UUID) bool {
	if _, found := s.cache.Get(id.String()); !found {
		return false
	}
	s.cache.Delete(id.String())
	return true
}

// Len returns the number of live ledgers
func (s *LedgerStore) Len() int {
	return s.cache.ItemCount()
}
