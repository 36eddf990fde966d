package logger

import (
	"github.com/rs/zerolog"
)

// LogDownload logs the outcome of one image download
func LogDownload(l Logger, category, filename, url string, err error) {
	fields := map[string]interface{}{
		"category": category,
		"file":     filename,
		"url":      url,
		"success":  err == nil,
	}

	if err != nil {
		l.WithFields(fields).WithError(err).Error("Download failed")
		return
	}
	l.WithFields(fields).Debug("Download completed")
}

// LogBatchSummary logs the final counters of one category run
func LogBatchSummary(l Logger, category string, total, downloaded, skipped, errored int) {
	l.InfoWithFields("Category finished", map[string]interface{}{
		"category":   category,
		"total":      total,
		"downloaded": downloaded,
		"skipped":    skipped,
		"errored":    errored,
	})
}

// LogComponentStart logs when a component starts
func LogComponentStart(component string, config map[string]interface{}) {
	l := GetLogger().WithField("component", component)
	if len(config) > 0 {
		l = l.WithFields(config)
	}
	l.Info("Component started")
}

// LogComponentStop logs when a component stops
func LogComponentStop(component string, reason string) {
	GetLogger().WithFields(map[string]interface{}{
		"component": component,
		"reason":    reason,
	}).Info("Component stopped")
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}
