package store

import (
	"context"
	"fmt"

	"github.com/roach88/scorebook/internal/scoring"
)

// LedgerTotal is an innings summary computed directly from the ledger,
// independent of the materialized innings row.
type LedgerTotal struct {
	Innings    int
	Runs       int
	LegalBalls int
	Deliveries int
}

// LedgerTotals sums the ledger per innings. Used by replay verification to
// check that the committed innings figures equal the sum of their deliveries.
func (t *Tx) LedgerTotals(ctx context.Context, matchID int64) ([]LedgerTotal, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT innings,
		       COALESCE(SUM(runs_scored + extras), 0),
		       COALESCE(SUM(CASE WHEN extras_type IN ('wide', 'no_ball') THEN 0 ELSE 1 END), 0),
		       COUNT(*)
		FROM deliveries
		WHERE match_id = ?
		GROUP BY innings
		ORDER BY innings ASC
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("query ledger totals: %w", err)
	}
	defer rows.Close()

	totals := []LedgerTotal{}
	for rows.Next() {
		var lt LedgerTotal
		if err := rows.Scan(&lt.Innings, &lt.Runs, &lt.LegalBalls, &lt.Deliveries); err != nil {
			return nil, fmt.Errorf("scan ledger total: %w", err)
		}
		totals = append(totals, lt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger totals: %w", err)
	}
	return totals, nil
}

// LastSeq returns the highest delivery seq of a match, 0 for an empty ledger.
func (t *Tx) LastSeq(ctx context.Context, matchID int64) (int, error) {
	var seq int
	err := t.tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM deliveries WHERE match_id = ?
	`, matchID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}
	return seq, nil
}

// DeliveriesForFlow returns the deliveries written under one flow token,
// ordered by match and seq.
func (t *Tx) DeliveriesForFlow(ctx context.Context, flowToken string) ([]scoring.Delivery, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT id, match_id, seq, innings, over_number, ball_number, batsman_id, non_striker_id,
		       bowler_id, fielder_id, runs_scored, extras, extras_type, is_wicket, dismissal_type,
		       player_out_id, incoming_batsman_id, shot, flow_token, recorded_at
		FROM deliveries
		WHERE flow_token = ?
		ORDER BY match_id ASC, seq ASC
	`, flowToken)
	if err != nil {
		return nil, fmt.Errorf("query flow deliveries: %w", err)
	}
	defer rows.Close()

	deliveries := []scoring.Delivery{}
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flow deliveries: %w", err)
	}
	return deliveries, nil
}
