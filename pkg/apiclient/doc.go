// Package apiclient executes platform creation requests against a remote
// whiteboard.
//
// An [Executor] runs one conversion in three phases:
//
//  1. create the board
//  2. create every shape, up to Concurrency at a time
//  3. once all shapes exist, create every connector, translating diagram
//     node IDs to the platform shape IDs returned in phase 2
//
// Every remote call waits for the shared [httputil.Throttle], then runs
// under [httputil.Retry]. Rate limits, 5xx responses and network failures
// are retried; authentication errors and other 4xx responses abort at once.
//
// If the board exists and a later call fails, or the context is cancelled,
// Execute returns an [errors.PartialConversionError] with the exact number of
// items created. Nothing is deleted. Calls already in flight when a phase is
// aborted run to completion so that the counts stay exact.
package apiclient
