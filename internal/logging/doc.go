// Package logging assembles the structured slog loggers used across resound.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers plus standardized field keys so the
// matching pipeline tags log lines consistently (component, reference,
// candidate, run ID). A no-op logger is provided for tests and wiring code
// that cannot fail.
package logging
