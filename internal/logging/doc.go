// Package logging assembles structured slog loggers shared across foley
// components.
//
// It owns the console and JSON handlers, centralizes level plumbing, and
// exposes typed attribute helpers plus standardized field keys so curation,
// resolution, and caching code emit log lines with a consistent shape. A
// no-op logger is provided for tests and wiring code that cannot fail.
package logging
