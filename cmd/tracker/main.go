package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/trade-log-tracker/internal/cache"
	"github.com/yourusername/trade-log-tracker/internal/config"
	"github.com/yourusername/trade-log-tracker/internal/ledger"
	"github.com/yourusername/trade-log-tracker/internal/logger"
	"github.com/yourusername/trade-log-tracker/internal/metrics"
	"github.com/yourusername/trade-log-tracker/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile  string
	useDemo     bool
	appLog      *logrus.Logger
	cfg         *config.Config
	seriesCache *cache.SeriesCache
	dashboard   *service.Dashboard
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&useDemo, "demo", false, "Use the built-in demo trade log instead of a file or URL")

	rootCmd.AddCommand(summaryCmd, portfolioCmd, strategiesCmd, exportCmd, serveCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Analyze option trade logs",
	Long: `Loads a CSV trade log, normalizes it and reports daily P/L,
cumulative P/L, drawdown and per-strategy breakdowns.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		setupDependencies()
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	return config.Validate(cfg)
}

func setupDependencies() {
	appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	// stdout carries reports
	appLog.SetOutput(os.Stderr)

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}
	seriesCache = cache.NewSeriesCache(cfg.CacheTTL(), cfg.Cache.MaxSize)
	dashboard = service.NewDashboard(service.OptionsFromConfig(cfg), seriesCache, appLog)
}

// resolveSource picks the trade log named by args or the --demo flag
func resolveSource(args []string) (ledger.Source, error) {
	if useDemo {
		if len(args) > 0 {
			return nil, fmt.Errorf("--demo cannot be combined with a trade log argument")
		}
		return ledger.DemoSource{}, nil
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("expected one trade log path or URL, or --demo")
	}

	client := ledger.NewRateLimitedHTTPClient(httpClientConfig(), appLog)
	return ledger.ResolveSource(args[0], client)
}

func httpClientConfig() ledger.HTTPClientConfig {
	hc := ledger.DefaultHTTPClientConfig()
	hc.Timeout = cfg.SourceTimeout()
	hc.MaxRetries = cfg.Source.RetryAttempts
	hc.RateLimit = cfg.Source.RequestsPerSecond
	hc.MaxBytes = cfg.Source.MaxBytes
	return hc
}

func loadLedger(ctx context.Context, args []string) (*ledger.Ledger, error) {
	src, err := resolveSource(args)
	if err != nil {
		return nil, err
	}
	return dashboard.Load(ctx, src)
}
