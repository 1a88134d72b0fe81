// Package scheduler reloads watched trade logs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/trade-log-tracker/internal/ledger"
)

// Loader loads a ledger from a source
type Loader interface {
	Load(ctx context.Context, src ledger.Source) (*ledger.Ledger, error)
}

// Store keeps the latest ledger of each watch until it is replaced
type Store interface {
	PutPinned(ctx context.Context, l *ledger.Ledger)
}

// Invalidator drops cached results of a replaced ledger
type Invalidator interface {
	Invalidate(ctx context.Context, fingerprint string) int
}

// Watch is a trade log reloaded on a schedule
type Watch struct {
	Name     string
	Source   ledger.Source
	Schedule string
}

// WatchStatus reports the outcome of the latest reload
type WatchStatus struct {
	Name        string    `json:"name"`
	LedgerID    string    `json:"ledger_id"`
	Source      string    `json:"source"`
	Schedule    string    `json:"schedule"`
	Trades      int       `json:"trades"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	LastRun     time.Time `json:"last_run,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	NextRun     time.Time `json:"next_run,omitempty"`
}

type watchState struct {
	watch   Watch
	id      uuid.UUID
	entryID cron.EntryID
	status  WatchStatus
}

// Scheduler manages scheduled ledger reloads
type Scheduler struct {
	cron        *cron.Cron
	loader      Loader
	store       Store
	invalidator Invalidator
	logger      *logrus.Entry
	mu          sync.RWMutex
	isRunning   bool
	watches     []*watchState
	jobTimeout  time.Duration
}

// NewScheduler creates a new scheduler. invalidator may be nil.
func NewScheduler(loader Loader, store Store, invalidator Invalidator, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithLocation(time.UTC)),
		loader:      loader,
		store:       store,
		invalidator: invalidator,
		logger:      logger.WithField("component", "scheduler"),
		watches:     make([]*watchState, 0),
		jobTimeout:  5 * time.Minute,
	}
}

// WatchID returns the stable ledger ID a watch is served under
func WatchID(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("trade-log-tracker/watch/"+name))
}

// AddWatch schedules a reload job for w
func (s *Scheduler) AddWatch(w Watch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	for _, existing := range s.watches {
		if existing.watch.Name == w.Name {
			return fmt.Errorf("watch %q already scheduled", w.Name)
		}
	}

	state := &watchState{
		watch: w,
		id:    WatchID(w.Name),
		status: WatchStatus{
			Name:     w.Name,
			LedgerID: WatchID(w.Name).String(),
			Source:   w.Source.Name(),
			Schedule: w.Schedule,
		},
	}

	entryID, err := s.cron.AddFunc(w.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		s.reload(ctx, state)
	})
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	state.entryID = entryID
	s.watches = append(s.watches, state)
	s.logger.WithFields(logrus.Fields{
		"watch":     w.Name,
		"schedule":  w.Schedule,
		"ledger_id": state.id,
	}).Info("Scheduled ledger reload")

	return nil
}

// RunNow reloads every watch once, synchronously
func (s *Scheduler) RunNow(ctx context.Context) {
	s.mu.RLock()
	watches := append([]*watchState(nil), s.watches...)
	s.mu.RUnlock()

	for _, state := range watches {
		s.reload(ctx, state)
	}
}

func (s *Scheduler) reload(ctx context.Context, state *watchState) {
	l, err := s.loader.Load(ctx, state.watch.Source)

	s.mu.Lock()
	defer s.mu.Unlock()

	state.status.LastRun = time.Now().UTC()
	if err != nil {
		state.status.LastError = err.Error()
		s.logger.WithField("watch", state.watch.Name).WithError(err).Warn("Scheduled ledger reload failed")
		return
	}

	pinned := l.WithID(state.id)
	previous := state.status.Fingerprint
	s.store.PutPinned(ctx, pinned)
	if s.invalidator != nil && previous != "" && previous != pinned.Fingerprint() {
		s.invalidator.Invalidate(ctx, previous)
	}

	state.status.LastError = ""
	state.status.Trades = pinned.Len()
	state.status.Fingerprint = pinned.Fingerprint()
	s.logger.WithFields(logrus.Fields{
		"watch":   state.watch.Name,
		"trades":  pinned.Len(),
		"changed": previous != pinned.Fingerprint(),
	}).Info("Scheduled ledger reload completed")
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.watches) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Infof("Scheduler started with %d jobs", len(s.watches))

	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Watches returns the status of every watch
func (s *Scheduler) Watches() []WatchStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]WatchStatus, len(s.watches))
	for i, state := range s.watches {
		out[i] = state.status
		if s.isRunning {
			out[i].NextRun = s.cron.Entry(state.entryID).Next
		}
	}
	return out
}
