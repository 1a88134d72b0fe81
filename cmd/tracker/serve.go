package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/trade-log-tracker/internal/cache"
	"github.com/yourusername/trade-log-tracker/internal/ledger"
	"github.com/yourusername/trade-log-tracker/internal/scheduler"
	"github.com/yourusername/trade-log-tracker/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger API, health checks and metrics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store := cache.NewLedgerStore(cfg.SessionTTL())
		sched, err := buildScheduler(store)
		if err != nil {
			return err
		}
		if sched != nil {
			sched.RunNow(ctx)
			if err := sched.Start(); err != nil {
				return err
			}
			defer sched.Stop()
		}

		metricsPath := ""
		if cfg.Metrics.Enabled {
			metricsPath = cfg.Metrics.Path
		}
		srvCfg := server.Config{
			ServiceName:    cfg.App.Name,
			Version:        Version,
			Commit:         GitCommit,
			Addr:           cfg.ListenAddress(),
			ReadTimeout:    time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
			WriteTimeout:   time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
			MaxUploadBytes: cfg.Server.MaxUploadBytes,
			UploadRate:     cfg.Server.UploadRatePerSecond,
			UploadBurst:    cfg.Server.UploadBurst,
			MetricsPath:    metricsPath,
			Logger:         appLog,
			Dashboard:      dashboard,
			Store:          store,
			SeriesCache:    seriesCache,
		}
		if sched != nil {
			srvCfg.Watches = sched
		}

		err = server.NewServer(srvCfg).Run(ctx)
		appLog.WithField("stats", dashboard.Stats().String()).Info("Shutdown complete")
		return err
	},
}

// buildScheduler returns nil when no watches are configured
func buildScheduler(store *cache.LedgerStore) (*scheduler.Scheduler, error) {
	if len(cfg.Watches) == 0 {
		return nil, nil
	}

	sched := scheduler.NewScheduler(dashboard, store, seriesCache, appLog)
	for _, w := range cfg.Watches {
		// one client per watch so a failing host only opens its own circuit
		client := ledger.NewRateLimitedHTTPClient(httpClientConfig(), appLog)
		src, err := ledger.ResolveSource(w.Source, client)
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", w.Name, err)
		}
		if err := sched.AddWatch(scheduler.Watch{Name: w.Name, Source: src, Schedule: w.Schedule}); err != nil {
			return nil, fmt.Errorf("watch %s: %w", w.Name, err)
		}
	}
	return sched, nil
}
