// Package stats folds per-match player performances into career totals.
//
// Only running totals are stored. Averages and rates are recomputed from
// the totals on every fold and every read, so they never drift.
//
// A (player, match) pair is folded at most once. The guard is a primary key
// on the aggregation ledger written in the same transaction that completes
// the match; see Repository.MarkAggregated.
package stats
