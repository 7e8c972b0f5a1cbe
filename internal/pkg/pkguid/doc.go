// Package pkguid generates the identifiers used by the ledger service: UUIDv7
// strings for batches and correlation ids, and snowflake numbers for lock
// notifications.
package pkguid
