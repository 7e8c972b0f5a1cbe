// Package pkglog sets up the service's slog logger.
//
// Records are JSON with "ts" and "severity" keys and carry the service name.
// When the context holds a correlation id or a batch id, those are added too,
// so one batch can be followed from the upload request to its last event.
package pkglog
