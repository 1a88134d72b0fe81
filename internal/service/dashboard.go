// Package service runs the trade log pipeline behind the CLI and HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/trade-log-tracker/internal/analytics"
	"github.com/yourusername/trade-log-tracker/internal/cache"
	"github.com/yourusername/trade-log-tracker/internal/config"
	"github.com/yourusername/trade-log-tracker/internal/ledger"
	"github.com/yourusername/trade-log-tracker/internal/logger"
	"github.com/yourusername/trade-log-tracker/internal/metrics"
	"github.com/yourusername/trade-log-tracker/internal/models"
)

// View names used in warnings, logs and metrics
const (
	ViewSummary    = "summary"
	ViewPortfolio  = "portfolio"
	ViewStrategies = "strategies"
)

// Options tunes the pipeline
type Options struct {
	StartingFund    float64
	MinStartingFund float64
	DateLayouts     []string
	PLBins          int
	CountBins       int
}

// DefaultOptions returns the built-in pipeline settings
func DefaultOptions() Options {
	return Options{
		StartingFund:    analytics.DefaultStartingFund,
		MinStartingFund: 10,
		PLBins:          analytics.DefaultPLBins,
		CountBins:       analytics.DefaultCountBins,
	}
}

// OptionsFromConfig maps the analytics section of the configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		StartingFund:    cfg.Analytics.StartingFund,
		MinStartingFund: cfg.Analytics.MinStartingFund,
		DateLayouts:     cfg.Analytics.DateLayouts,
		PLBins:          cfg.Analytics.PLBins,
		CountBins:       cfg.Analytics.CountBins,
	}
}

// SummaryView is the unfiltered overview of a ledger
type SummaryView struct {
	LedgerID string                       `json:"ledger_id"`
	Source   string                       `json:"source"`
	Stats    ledger.QuickStats            `json:"stats"`
	Series   models.DailySeries           `json:"series"`
	Warnings []*models.EmptyResultWarning `json:"warnings,omitempty"`
}

// PortfolioView is the filtered, fund-scaled series with performance metrics
type PortfolioView struct {
	LedgerID  string                       `json:"ledger_id"`
	Filter    ledger.Filter                `json:"filter"`
	Stats     ledger.QuickStats            `json:"stats"`
	Series    models.DailySeries           `json:"series"`
	PLPercent []float64                    `json:"pl_pct_of_starting_fund"`
	Summary   analytics.Summary            `json:"summary"`
	Warnings  []*models.EmptyResultWarning `json:"warnings,omitempty"`
}

// StrategiesView is the filtered per-strategy breakdown
type StrategiesView struct {
	LedgerID       string                       `json:"ledger_id"`
	Filter         ledger.Filter                `json:"filter"`
	PLPerStrategy  []models.StrategyPL          `json:"pl_per_strategy"`
	OpenDates      []models.StrategyOpenDates   `json:"open_dates"`
	DailyPLPctBins []analytics.Bin              `json:"daily_pl_pct_distribution"`
	DailyCountBins []analytics.Bin              `json:"daily_count_distribution"`
	Warnings       []*models.EmptyResultWarning `json:"warnings,omitempty"`
}

// Dashboard loads ledgers and derives the three views from them
type Dashboard struct {
	opts       Options
	normalizer *ledger.Normalizer
	cache      *cache.SeriesCache
	pipeline   *logger.PipelineLogger
	stats      *Stats
}

// NewDashboard creates a dashboard. seriesCache may be nil to disable caching.
func NewDashboard(opts Options, seriesCache *cache.SeriesCache, log *logrus.Logger) *Dashboard {
	if opts.PLBins <= 0 {
		opts.PLBins = analytics.DefaultPLBins
	}
	if opts.CountBins <= 0 {
		opts.CountBins = analytics.DefaultCountBins
	}
	if opts.StartingFund <= 0 {
		opts.StartingFund = analytics.DefaultStartingFund
	}
	return &Dashboard{
		opts:       opts,
		normalizer: ledger.NewNormalizer(opts.DateLayouts),
		cache:      seriesCache,
		pipeline:   logger.NewPipelineLogger(log),
		stats:      NewStats(),
	}
}

// DefaultFund returns the starting fund used when a request names none
func (d *Dashboard) DefaultFund() float64 {
	return d.opts.StartingFund
}

// Stats returns the dashboard's lifetime counters
func (d *Dashboard) Stats() *Stats {
	return d.stats
}

// Load reads and normalizes a trade log from src
func (d *Dashboard) Load(ctx context.Context, src ledger.Source) (*ledger.Ledger, error) {
	start := time.Now()
	l, err := ledger.Load(ctx, src, d.normalizer)
	elapsed := time.Since(start)
	if err != nil {
		kind := ErrorKind(err)
		metrics.RecordLedgerLoad(sourceKind(src), "failure", 0, elapsed.Seconds())
		metrics.RecordLoadError(kind)
		d.pipeline.LogLedgerRejected(src.Name(), kind, err)
		d.stats.RecordRejection()
		return nil, err
	}

	metrics.RecordLedgerLoad(sourceKind(src), "success", l.Len(), elapsed.Seconds())
	d.pipeline.LogLedgerLoaded(l.ID().String(), l.Source(), l.Len(), len(ledger.Strategies(l.Trades())), float64(elapsed.Microseconds())/1000)
	d.stats.RecordLoad(l.Len())
	return l, nil
}

// Read loads a trade log from r, labelled source
func (d *Dashboard) Read(ctx context.Context, r io.Reader, source string) (*ledger.Ledger, error) {
	return d.Load(ctx, ledger.NewReaderSource(source, r))
}

// Summary returns quick stats and the no-fund daily series of the whole ledger
func (d *Dashboard) Summary(ctx context.Context, l *ledger.Ledger) (*SummaryView, error) {
	series, err := d.series(ctx, l, analytics.VariantNoFund, 0)
	if err != nil {
		return nil, err
	}
	view := &SummaryView{
		LedgerID: l.ID().String(),
		Source:   l.Source(),
		Stats:    ledger.Stats(l),
		Series:   series,
	}
	view.Warnings = d.warnIfEmpty(l, ViewSummary)
	d.stats.RecordView(ViewSummary)
	return view, nil
}

// Portfolio filters the ledger and scales its daily series by fund
func (d *Dashboard) Portfolio(ctx context.Context, l *ledger.Ledger, filter ledger.Filter, fund float64) (*PortfolioView, error) {
	if err := d.checkFund(fund); err != nil {
		return nil, err
	}
	selected, err := d.apply(l, filter)
	if err != nil {
		return nil, err
	}

	series, err := d.series(ctx, selected, analytics.VariantFund, fund)
	if err != nil {
		return nil, err
	}
	view := &PortfolioView{
		LedgerID:  l.ID().String(),
		Filter:    filter,
		Stats:     ledger.Stats(selected),
		Series:    series,
		PLPercent: analytics.PLPercent(series),
		Summary:   analytics.Summarize(selected.Trades(), series),
	}
	view.Warnings = d.warnIfEmpty(selected, ViewPortfolio)
	d.stats.RecordView(ViewPortfolio)
	return view, nil
}

// Strategies filters the ledger and breaks P/L down per strategy
func (d *Dashboard) Strategies(ctx context.Context, l *ledger.Ledger, filter ledger.Filter, fund float64) (*StrategiesView, error) {
	if err := d.checkFund(fund); err != nil {
		return nil, err
	}
	selected, err := d.apply(l, filter)
	if err != nil {
		return nil, err
	}

	series, err := d.series(ctx, selected, analytics.VariantFund, fund)
	if err != nil {
		return nil, err
	}
	trades := selected.Trades()
	view := &StrategiesView{
		LedgerID:       l.ID().String(),
		Filter:         filter,
		PLPerStrategy:  analytics.PLPerStrategy(trades),
		OpenDates:      analytics.OpenDatesPerStrategy(trades),
		DailyPLPctBins: analytics.DailyPLDistribution(series, d.opts.PLBins),
		DailyCountBins: analytics.DailyCountDistribution(series, d.opts.CountBins),
	}
	view.Warnings = d.warnIfEmpty(selected, ViewStrategies)
	d.stats.RecordView(ViewStrategies)
	return view, nil
}

// Series returns the daily series of l, aggregated with fund when positive
func (d *Dashboard) Series(ctx context.Context, l *ledger.Ledger, fund float64) (models.DailySeries, error) {
	if fund == 0 {
		return d.series(ctx, l, analytics.VariantNoFund, 0)
	}
	if err := d.checkFund(fund); err != nil {
		return models.DailySeries{}, err
	}
	return d.series(ctx, l, analytics.VariantFund, fund)
}

func (d *Dashboard) series(ctx context.Context, l *ledger.Ledger, variant analytics.Variant, fund float64) (models.DailySeries, error) {
	key := cache.Key{Fingerprint: l.Fingerprint(), StartingFund: fund, Variant: string(variant)}
	if d.cache != nil {
		if series, ok := d.cache.Get(ctx, key); ok {
			d.pipeline.LogCacheHit(l.ID().String(), key.String())
			return series, nil
		}
	}

	start := time.Now()
	trades := l.Trades()
	var series models.DailySeries
	if variant == analytics.VariantFund {
		var err error
		if series, err = analytics.Aggregate(trades, fund); err != nil {
			return models.DailySeries{}, err
		}
	} else {
		series = analytics.AggregateNoFund(trades)
	}
	elapsed := time.Since(start)

	maxDD := analytics.MaxDrawdown(series).InexactFloat64()
	metrics.RecordAggregation(string(variant), elapsed.Seconds(), maxDD)
	d.pipeline.LogAggregation(l.ID().String(), string(variant), len(trades), series.Len(), maxDD, float64(elapsed.Microseconds())/1000)

	if d.cache != nil {
		d.cache.Set(ctx, key, series)
	}
	return series, nil
}

func (d *Dashboard) checkFund(fund float64) error {
	if err := analytics.ValidateStartingFund(fund); err != nil {
		d.logInvalid(err)
		return err
	}
	if fund < d.opts.MinStartingFund {
		err := &models.InvalidParameterError{
			Name:   "starting_fund",
			Value:  fund,
			Reason: fmt.Sprintf("must be at least %v", d.opts.MinStartingFund),
		}
		d.logInvalid(err)
		return err
	}
	return nil
}

func (d *Dashboard) apply(l *ledger.Ledger, filter ledger.Filter) (*ledger.Ledger, error) {
	selected, err := filter.Apply(l)
	if err != nil {
		d.pipeline.LogInvalidParameter("date_range", filter, err.Error())
		return nil, err
	}
	return selected, nil
}

func (d *Dashboard) logInvalid(err error) {
	var paramErr *models.InvalidParameterError
	if errors.As(err, &paramErr) {
		d.pipeline.LogInvalidParameter(paramErr.Name, paramErr.Value, paramErr.Reason)
	}
}

func (d *Dashboard) warnIfEmpty(l *ledger.Ledger, view string) []*models.EmptyResultWarning {
	if l.Len() > 0 {
		return nil
	}
	metrics.RecordEmptyResult(view)
	d.pipeline.LogEmptyResult(l.ID().String(), view)
	d.stats.RecordEmptyResult()
	return []*models.EmptyResultWarning{{View: view}}
}

// ErrorKind classifies load failures for metrics and logs
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, models.ErrSchema):
		return "schema"
	case errors.Is(err, models.ErrDateParse):
		return "date_parse"
	case errors.Is(err, models.ErrValueParse):
		return "value_parse"
	case errors.Is(err, ledger.ErrMalformedCSV):
		return "malformed"
	case errors.Is(err, ledger.ErrTooLarge):
		return "too_large"
	default:
		return "io"
	}
}

func sourceKind(src ledger.Source) string {
	switch src.(type) {
	case ledger.DemoSource, *ledger.DemoSource:
		return "demo"
	case *ledger.FileSource:
		return "file"
	case *ledger.HTTPSource:
		return "http"
	default:
		return "upload"
	}
}
