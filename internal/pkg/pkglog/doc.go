// Package pkglog contains logging helpers used across the application.
//
// It is built around slog and keeps logs consistent by:
//   - Initializing a JSON handler with stable keys.
//   - Attaching the request correlation ID and the authenticated user ID
//     (when present) to each log record.
package pkglog
