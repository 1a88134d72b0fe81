package service

import (
	"fmt"
	"sync"
	"time"
)

// Stats tracks lifetime counters of a dashboard
type Stats struct {
	mu           sync.RWMutex
	startTime    time.Time
	loads        int
	rejections   int
	trades       int
	emptyResults int
	views        map[string]int
}

// StatsSnapshot is a point-in-time copy of Stats
type StatsSnapshot struct {
	Uptime       time.Duration  `json:"-"`
	UptimeSecs   float64        `json:"uptime_seconds"`
	Loads        int            `json:"loads"`
	Rejections   int            `json:"rejections"`
	Trades       int            `json:"trades"`
	EmptyResults int            `json:"empty_results"`
	Views        map[string]int `json:"views"`
}

// NewStats creates a new stats tracker
func NewStats() *Stats {
	return &Stats{
		startTime: time.Now(),
		views:     make(map[string]int),
	}
}

// Reset resets all counters
func (s *Stats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.startTime = time.Now()
	s.loads = 0
	s.rejections = 0
	s.trades = 0
	s.emptyResults = 0
	s.views = make(map[string]int)
}

// RecordLoad counts a loaded ledger and its trades
func (s *Stats) RecordLoad(trades int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	s.trades += trades
}

// RecordRejection counts a trade log that failed to load
func (s *Stats) RecordRejection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejections++
}

// RecordView counts a served view
func (s *Stats) RecordView(view string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views[view]++
}

// RecordEmptyResult counts a view that produced no rows
func (s *Stats) RecordEmptyResult() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emptyResults++
}

// Snapshot returns a copy of the counters
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make(map[string]int, len(s.views))
	for k, v := range s.views {
		views[k] = v
	}
	uptime := time.Since(s.startTime)
	return StatsSnapshot{
		Uptime:       uptime,
		UptimeSecs:   uptime.Seconds(),
		Loads:        s.loads,
		Rejections:   s.rejections,
		Trades:       s.trades,
		EmptyResults: s.emptyResults,
		Views:        views,
	}
}

// String returns a formatted string representation of the counters
func (s *Stats) String() string {
	snap := s.Snapshot()

	successRate := float64(0)
	if total := snap.Loads + snap.Rejections; total > 0 {
		successRate = float64(snap.Loads) / float64(total) * 100
	}

	return fmt.Sprintf(
		"DashboardStats{Loads=%d (%.1f%%), Rejections=%d, Trades=%d, Views=%v, EmptyResults=%d, Uptime=%v}",
		snap.Loads,
		successRate,
		snap.Rejections,
		snap.Trades,
		snap.Views,
		snap.EmptyResults,
		snap.Uptime.Round(time.Second),
	)
}
