// Package store provides SQLite-backed durable storage for scorebook.
//
// Tables:
//   - matches, innings: the committed match header and per-innings figures
//   - deliveries: the append-only delivery ledger, the source of truth
//   - partnerships: one row per stand, keyed by (match, innings, wicket)
//   - performances: one row per (match, player)
//   - player_stats: career running totals
//   - aggregations: the (player, match) fold ledger
//
// # Critical Patterns
//
// Unit of work: every engine operation runs inside WithTx. Reads and
// writes of one delivery commit or roll back together, including the
// career fold when a match completes.
//
// Ledger order: deliveries are read ORDER BY innings, over_number,
// ball_number, seq. seq is the per-match insertion counter and breaks ties
// between the wides and no-balls that share a ball number.
//
// Fold idempotency: aggregations has PRIMARY KEY (player_id, match_id).
// A second fold inserts nothing and MarkAggregated reports it.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Delivery IDs are computed by internal/canon using canonical JSON and
// SHA-256 with domain separation.
package store
