// Package pkgroutine runs background work on a bounded set of goroutines.
//
// Manager.Go applies backpressure instead of dropping work: it waits for a
// free slot unless the caller's context ends first. Panics are recovered and
// reported through Wait alongside returned errors.
package pkgroutine
