package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for ledger sessions.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogLedgerUpload logs a ledger accepted through the API.
func (al *AuditLogger) LogLedgerUpload(ledgerID, source, remoteAddr, fingerprint string, sizeBytes int64, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"ledger_id":   ledgerID,
		"source":      source,
		"remote_addr": remoteAddr,
		"fingerprint": fingerprint,
		"size_bytes":  sizeBytes,
		"timestamp":   timestamp.Unix(),
	}).Info("Ledger upload recorded")
}

// LogLedgerDeleted logs a ledger removed from the session store.
func (al *AuditLogger) LogLedgerDeleted(ledgerID, remoteAddr string) {
	al.WithFields(logrus.Fields{
		"ledger_id":   ledgerID,
		"remote_addr": remoteAddr,
	}).Info("Ledger deleted")
}

// LogUploadThrottled logs an upload refused by the rate limiter.
func (al *AuditLogger) LogUploadThrottled(remoteAddr string) {
	al.WithFields(logrus.Fields{
		"remote_addr": remoteAddr,
	}).Warn("Ledger upload throttled")
}
