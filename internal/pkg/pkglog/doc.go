// Package pkglog contains logging helpers used across the application.
//
// It is built around slog and keeps logs consistent by:
//   - Initializing a JSON handler on stderr with stable keys, leaving stdout
//     to the emitted identifiers.
//   - Attaching the run correlation ID (when present) to each log record.
package pkglog
