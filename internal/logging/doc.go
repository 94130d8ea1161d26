// Package logging assembles the structured slog loggers used across blip.
//
// It owns the console and JSON handlers, level parsing, and the standard
// attribute keys (component, run_id, track, path) so every package tags its
// records the same way. Output goes to stderr by default; stdout is reserved
// for audio when rendering to the standard output stream. A no-op logger is
// provided for tests and for wiring code that cannot fail.
package logging
