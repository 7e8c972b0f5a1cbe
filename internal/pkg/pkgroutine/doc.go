// Package pkgroutine runs background batch work on a bounded set of
// goroutines and reports what went wrong once everything has finished.
package pkgroutine
