// Package scoring implements the live cricket scoring domain: the delivery
// record, the over/innings state machine, the score and result calculator,
// the partnership tracker, and per-match player performances.
//
// Everything in this package is pure and in-memory. A State is loaded for
// one match, a delivery is applied to it, and the caller persists whatever
// changed. Persistence, locking, and career aggregation live elsewhere
// (internal/store, internal/engine, internal/stats).
//
// # State machine
//
//	upcoming --Toss--> toss --first delivery--> live(innings 1)
//	live(innings 1) --overs exhausted or 10 wickets--> live(innings 2)
//	live(innings 2) --target passed, overs exhausted, or 10 wickets--> completed
//	upcoming/toss/live --Abandon--> completed (no result)
//
// # Legality
//
// A delivery is legal iff its extras type is not wide or no_ball. Only legal
// deliveries advance the ball counter; the sixth legal ball completes an over.
// Which dismissals are possible off which kind of delivery is decided by the
// rule tables in rules.go, never by ad-hoc conditionals.
//
// # Atomicity
//
// Apply validates everything before it mutates anything. A returned error
// means the State is exactly as it was before the call.
package scoring
