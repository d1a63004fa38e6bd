// Package logging assembles the structured slog loggers and formatting
// helpers used across docsort.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so pipeline code automatically tags log
// lines with the watch event ID and source path. A no-op logger is provided
// for tests and wiring code that cannot fail.
package logging
