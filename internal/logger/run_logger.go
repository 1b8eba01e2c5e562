// Package logger provides run-scoped logging for batch jobs.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// RunLogger provides structured logging for one analytical batch run.
type RunLogger struct {
	*logrus.Entry
	started time.Time
}

// NewRunLogger creates a logger scoped to a named run over a date.
func NewRunLogger(baseLogger *logrus.Logger, run string, date time.Time) *RunLogger {
	return &RunLogger{
		Entry: baseLogger.WithFields(logrus.Fields{
			"run":  run,
			"date": date.Format("2006-01-02"),
		}),
		started: time.Now(),
	}
}

// LogFixtureFailure logs a batch item that failed and was skipped. Partial
// batch success is expected; these are not run-fatal.
func (rl *RunLogger) LogFixtureFailure(fixtureID int64, err error) {
	rl.WithFields(logrus.Fields{
		"fixture_id": fixtureID,
	}).WithError(err).Error("Fixture skipped")
}

// LogCompletion logs the run summary.
func (rl *RunLogger) LogCompletion(processed, failed int) {
	rl.WithFields(logrus.Fields{
		"processed":   processed,
		"failed":      failed,
		"duration_ms": time.Since(rl.started).Milliseconds(),
	}).Info("Run completed")
}
