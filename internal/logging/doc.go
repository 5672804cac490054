// Package logging assembles the slog loggers used by the ngrams tool.
//
// It owns the console and JSON handlers, level parsing, and output routing.
// Logs never go to stdout: stdout carries the frequency report, so the
// default destination is stderr, optionally mirrored into a log file. Every
// record of one run can be tagged with the run ID so log lines line up with
// the run history.
//
// The attribute helpers (String, Int, Error, ...) and the component logger
// keep field names uniform across packages; tests and optional wiring use
// NewNop.
package logging
