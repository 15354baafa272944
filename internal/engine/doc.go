// Package engine is the entry point for every scoring operation.
//
// Each operation on a match runs as one unit of work:
//
//  1. take the match lock (one mutex per match id, created on demand)
//  2. open a store transaction and load the match State
//  3. let the State validate and apply the change
//  4. append the delivery, persist the changed figures and, when the match
//     completes, fold every performance into career statistics
//  5. commit, then publish the committed state and record metrics
//
// Any error in steps 2 to 4 rolls the whole unit back; the match stays at
// its last committed state. Scoring errors are returned as *scoring.Error
// and are never retried.
//
// There is no global engine lock. Matches are independent, and the store
// serializes the actual writes on its single writer connection. Reads run
// on a separate query-only pool and never wait for a unit of work.
package engine
