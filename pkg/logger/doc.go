// Package logger provides the structured logging interface used across reviewimg.
//
// It wraps zerolog with a small API:
//   - four levels (Debug, Info, Warn, Error)
//   - structured fields via WithField, WithFields and WithError
//   - a console writer that drops colours when stdout is not a terminal
//   - optional JSON file output alongside the console
//
// Basic Usage:
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	logger.WithField("category", "reviews").Info("Starting category")
//
// Tests use NewTestLogger to capture messages, or NewNopLogger to drop them.
package logger
