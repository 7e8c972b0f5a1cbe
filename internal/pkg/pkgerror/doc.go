// Package pkgerror carries the error vocabulary shared by the ledger service.
//
// Engine code reports business exceptions as outcomes, so errors reaching this
// package are either bad input, missing resources or internal failures. Each
// one is wrapped in an Error that knows its Type, a stable Code and the HTTP
// status the router should answer with.
package pkgerror
