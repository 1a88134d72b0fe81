package logger

import (
	"github.com/sirupsen/logrus"
)

// PipelineLogger provides dedicated logging for ledger loads and aggregations.
type PipelineLogger struct {
	*logrus.Entry
}

// NewPipelineLogger creates a new pipeline logger.
func NewPipelineLogger(baseLogger *logrus.Logger) *PipelineLogger {
	return &PipelineLogger{
		Entry: baseLogger.WithField("component", "pipeline"),
	}
}

// LogLedgerLoaded logs a normalized ledger.
func (pl *PipelineLogger) LogLedgerLoaded(ledgerID, source string, trades, strategies int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"ledger_id":        ledgerID,
		"source":           source,
		"trades":           trades,
		"strategies":       strategies,
		"load_duration_ms": durationMs,
	}).Info("Ledger loaded")
}

// LogLedgerRejected logs a trade log that failed to load.
func (pl *PipelineLogger) LogLedgerRejected(source, kind string, err error) {
	pl.WithFields(logrus.Fields{
		"source": source,
		"kind":   kind,
	}).WithError(err).Warn("Ledger rejected")
}

// LogAggregation logs a computed daily series.
func (pl *PipelineLogger) LogAggregation(ledgerID, variant string, trades, days int, maxDrawdown float64, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"ledger_id":               ledgerID,
		"variant":                 variant,
		"trades":                  trades,
		"days":                    days,
		"max_drawdown":            maxDrawdown,
		"aggregation_duration_ms": durationMs,
	}).Debug("Daily series aggregated")
}

// LogCacheHit logs a series served from cache.
func (pl *PipelineLogger) LogCacheHit(ledgerID, key string) {
	pl.WithFields(logrus.Fields{
		"ledger_id": ledgerID,
		"cache_key": key,
	}).Debug("Daily series served from cache")
}

// LogInvalidParameter logs a rejected request parameter.
func (pl *PipelineLogger) LogInvalidParameter(name string, value interface{}, reason string) {
	pl.WithFields(logrus.Fields{
		"parameter": name,
		"value":     value,
		"reason":    reason,
	}).Warn("Invalid parameter rejected")
}

// LogEmptyResult logs a view that produced no rows.
func (pl *PipelineLogger) LogEmptyResult(ledgerID, view string) {
	pl.WithFields(logrus.Fields{
		"ledger_id": ledgerID,
		"view":      view,
	}).Info("View produced no rows")
}
