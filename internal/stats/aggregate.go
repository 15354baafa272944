package stats

import (
	"context"
	"fmt"
	"math"

	"github.com/roach88/scorebook/internal/scoring"
)

// Repository is the storage the aggregator needs. The engine passes the
// open store transaction so the fold commits or rolls back with the match.
type Repository interface {
	// MarkAggregated records that a match has been folded for a player.
	// It returns a DUPLICATE_AGGREGATION scoring error if it already was.
	MarkAggregated(ctx context.Context, playerID, matchID int64) error

	// LoadPlayerStats returns the stored totals, or zero totals for a
	// player with no record yet.
	LoadPlayerStats(ctx context.Context, playerID int64) (PlayerStats, error)

	SavePlayerStats(ctx context.Context, s PlayerStats) error
}

// Aggregate folds every performance of a completed match into career
// statistics. Any error aborts the whole fold; the caller rolls back.
func Aggregate(ctx context.Context, repo Repository, performances []scoring.Performance) ([]PlayerStats, error) {
	out := make([]PlayerStats, 0, len(performances))
	for _, p := range performances {
		if err := repo.MarkAggregated(ctx, p.PlayerID, p.MatchID); err != nil {
			return nil, err
		}
		s, err := repo.LoadPlayerStats(ctx, p.PlayerID)
		if err != nil {
			return nil, fmt.Errorf("load stats for player %d: %w", p.PlayerID, err)
		}
		s.PlayerID = p.PlayerID
		Fold(&s, p)
		if err := repo.SavePlayerStats(ctx, s); err != nil {
			return nil, fmt.Errorf("save stats for player %d: %w", p.PlayerID, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
