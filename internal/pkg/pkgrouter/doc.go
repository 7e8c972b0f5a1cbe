// Package pkgrouter serves the ledger HTTP API on top of httprouter.
//
// Endpoints are plain functions returning a payload or an error. Payloads are
// wrapped in a {"message", "data", "meta"} envelope and errors are mapped
// through pkgerror to a status code and a {"message", "code"} body. Every
// route runs behind panic recovery, correlation ids and an access log.
package pkgrouter
