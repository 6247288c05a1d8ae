// Package logger provides fixture provider logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ProviderLogger provides dedicated logging for fixture provider calls.
type ProviderLogger struct {
	*logrus.Entry
}

// NewProviderLogger creates a new provider logger.
func NewProviderLogger(baseLogger *logrus.Logger) *ProviderLogger {
	return &ProviderLogger{
		Entry: baseLogger.WithField("component", "provider"),
	}
}

// LogFixturesFetched logs a successful upstream fetch.
func (pl *ProviderLogger) LogFixturesFetched(provider string, leagueID, count int, latency time.Duration) {
	pl.WithFields(logrus.Fields{
		"provider":   provider,
		"league_id":  leagueID,
		"fixtures":   count,
		"latency_ms": latency.Milliseconds(),
	}).Info("Fixtures fetched")
}

// LogFetchFailed logs a failed upstream fetch.
func (pl *ProviderLogger) LogFetchFailed(provider string, leagueID int, err error) {
	pl.WithFields(logrus.Fields{
		"provider":  provider,
		"league_id": leagueID,
	}).WithError(err).Error("Fixture fetch failed")
}

// LogCacheHit logs a fixture list served from cache.
func (pl *ProviderLogger) LogCacheHit(key string) {
	pl.WithField("cache_key", key).Debug("Fixture cache hit")
}

// LogCacheError logs a cache backend failure. The request continues uncached.
func (pl *ProviderLogger) LogCacheError(op, key string, err error) {
	pl.WithFields(logrus.Fields{
		"operation": op,
		"cache_key": key,
	}).WithError(err).Warn("Fixture cache unavailable")
}

// LogCircuitBreakerEvent logs circuit breaker state changes.
func (pl *ProviderLogger) LogCircuitBreakerEvent(state string, consecutiveErrors int, lastErr error) {
	entry := pl.WithFields(logrus.Fields{
		"state":              state,
		"consecutive_errors": consecutiveErrors,
	})
	if lastErr != nil {
		entry = entry.WithError(lastErr)
	}
	entry.Warn("Circuit breaker state changed")
}
