// Package server exposes the trade log pipeline and health checks over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/trade-log-tracker/internal/cache"
	"github.com/yourusername/trade-log-tracker/internal/logger"
	"github.com/yourusername/trade-log-tracker/internal/metrics"
	"github.com/yourusername/trade-log-tracker/internal/scheduler"
	"github.com/yourusername/trade-log-tracker/internal/service"
)

// Defaults applied when Config leaves a field empty
const (
	DefaultMaxUploadBytes = 10 << 20
	defaultReadTimeout    = 15 * time.Second
	defaultWriteTimeout   = 30 * time.Second
)

// Config holds the configuration for the API server.
type Config struct {
	ServiceName    string
	Version        string
	Commit         string
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxUploadBytes int64
	// UploadRate is uploads per second; zero disables throttling
	UploadRate  float64
	UploadBurst int
	MetricsPath string
	Logger      *logrus.Logger
	Dashboard   *service.Dashboard
	Store       *cache.LedgerStore
	SeriesCache *cache.SeriesCache
	// Watches reports scheduled reloads; nil serves an empty list
	Watches WatchLister
}

// WatchLister reports the status of scheduled ledger reloads
type WatchLister interface {
	Watches() []scheduler.WatchStatus
}

// Server serves health probes, metrics and the ledger API.
type Server struct {
	cfg      Config
	server   *http.Server
	logger   *logrus.Logger
	audit    *logger.AuditLogger
	limiter  *rate.Limiter
	mu       sync.RWMutex
	ready    bool
	handler  http.Handler
	shutdown sync.Once
}

// NewServer creates a new API server.
func NewServer(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	limit := rate.Inf
	if cfg.UploadRate > 0 {
		limit = rate.Limit(cfg.UploadRate)
	}
	burst := cfg.UploadBurst
	if burst <= 0 {
		burst = 1
	}

	s := &Server{
		cfg:     cfg,
		logger:  cfg.Logger,
		audit:   logger.NewAuditLogger(cfg.Logger),
		limiter: rate.NewLimiter(limit, burst),
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.HandleFunc("GET /live", s.handleLive)
	if s.cfg.MetricsPath != "" {
		mux.Handle("GET "+s.cfg.MetricsPath, metrics.Handler())
	}

	mux.HandleFunc("POST /api/v1/ledgers", s.handleUpload)
	mux.HandleFunc("POST /api/v1/ledgers/demo", s.handleDemo)
	mux.HandleFunc("GET /api/v1/ledgers/{id}/summary", s.handleSummary)
	mux.HandleFunc("GET /api/v1/ledgers/{id}/portfolio", s.handlePortfolio)
	mux.HandleFunc("GET /api/v1/ledgers/{id}/strategies", s.handleStrategies)
	mux.HandleFunc("GET /api/v1/ledgers/{id}/series.csv", s.handleSeriesCSV)
	mux.HandleFunc("DELETE /api/v1/ledgers/{id}", s.handleDelete)
	mux.HandleFunc("GET /api/v1/watches", s.handleWatches)
	return mux
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady returns whether the server is ready.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Run serves until ctx is cancelled or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	s.logger.WithFields(logrus.Fields{
		"addr":    s.cfg.Addr,
		"service": s.cfg.ServiceName,
	}).Info("API server starting")

	s.SetReady(true)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.SetReady(false)
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	var err error
	s.shutdown.Do(func() {
		s.SetReady(false)
		s.logger.Info("API server shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = s.server.Shutdown(ctx)
	})
	return err
}
