package store

import (
	"context"
	"fmt"

	"github.com/roach88/scorebook/internal/scoring"
	"github.com/roach88/scorebook/internal/stats"
)

// InsertMatch creates a match row and returns its assigned ID.
func (t *Tx) InsertMatch(ctx context.Context, m scoring.Match) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO matches
		(team1_id, team1_name, team2_id, team2_name, total_overs, venue, scheduled_at,
		 status, current_innings, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.Team1.ID, m.Team1.Name,
		m.Team2.ID, m.Team2.Name,
		m.TotalOvers, m.Venue, formatTime(m.ScheduledAt),
		string(m.Status), m.CurrentInnings,
		formatTime(m.CreatedAt), formatTime(m.UpdatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert match: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert match: %w", err)
	}
	return id, nil
}

// UpdateMatch writes the match header and both innings rows.
func (t *Tx) UpdateMatch(ctx context.Context, m scoring.Match) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE matches SET
			status = ?, current_innings = ?, toss_winner_id = ?, toss_decision = ?,
			winner_id = ?, result = ?, result_type = ?, margin = ?,
			player_of_match_id = ?, abandon_reason = ?, delivery_count = ?, updated_at = ?
		WHERE id = ?
	`,
		string(m.Status), m.CurrentInnings, m.TossWinnerID, string(m.TossDecision),
		m.WinnerID, m.Result, string(m.ResultType), m.Margin,
		m.PlayerOfMatchID, m.AbandonReason, m.DeliveryCount, formatTime(m.UpdatedAt),
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return scoring.NewNotFoundError("match", m.ID)
	}

	for _, inn := range m.Innings {
		if inn.Number == 0 {
			continue
		}
		if err := t.saveInnings(ctx, m.ID, inn); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tx) saveInnings(ctx context.Context, matchID int64, inn scoring.Innings) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO innings
		(match_id, number, batting_team_id, bowling_team_id, runs, wickets, legal_balls, extras,
		 target, closed, over_runs, over_deliveries, bowler_id, last_over_bowler_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(match_id, number) DO UPDATE SET
			runs = excluded.runs,
			wickets = excluded.wickets,
			legal_balls = excluded.legal_balls,
			extras = excluded.extras,
			target = excluded.target,
			closed = excluded.closed,
			over_runs = excluded.over_runs,
			over_deliveries = excluded.over_deliveries,
			bowler_id = excluded.bowler_id,
			last_over_bowler_id = excluded.last_over_bowler_id
	`,
		matchID, inn.Number, inn.BattingTeamID, inn.BowlingTeamID,
		inn.Runs, inn.Wickets, inn.LegalBalls, inn.Extras,
		inn.Target, boolInt(inn.Closed), inn.OverRuns, inn.OverDeliveries,
		inn.BowlerID, inn.LastOverBowlerID,
	)
	if err != nil {
		return fmt.Errorf("save innings %d: %w", inn.Number, err)
	}
	return nil
}

// AppendDelivery adds one entry to the ledger. Entries are never updated;
// a repeated (match, seq) is a constraint error.
func (t *Tx) AppendDelivery(ctx context.Context, d scoring.Delivery) error {
	shot, err := marshalShot(d.Shot)
	if err != nil {
		return fmt.Errorf("append delivery: %w", err)
	}

	_, err = t.tx.ExecContext(ctx, `
		INSERT INTO deliveries
		(id, match_id, seq, innings, over_number, ball_number, batsman_id, non_striker_id,
		 bowler_id, fielder_id, runs_scored, extras, extras_type, is_wicket, dismissal_type,
		 player_out_id, incoming_batsman_id, shot, flow_token, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		d.ID, d.MatchID, d.Seq, d.Innings, d.OverNumber, d.BallNumber,
		d.BatsmanID, d.NonStrikerID, d.BowlerID, d.FielderID,
		d.RunsScored, d.Extras, string(d.ExtrasType), boolInt(d.IsWicket), string(d.DismissalType),
		d.PlayerOutID, d.IncomingBatsmanID, shot, d.FlowToken, formatTime(d.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("append delivery: %w", err)
	}
	return nil
}

// SavePartnership inserts or updates one stand.
func (t *Tx) SavePartnership(ctx context.Context, p scoring.Partnership) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO partnerships
		(match_id, innings, wicket, batter1_id, batter2_id, batter1_runs, batter2_runs,
		 runs, balls, start_ball, end_ball, is_current)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(match_id, innings, wicket) DO UPDATE SET
			batter1_id = excluded.batter1_id,
			batter2_id = excluded.batter2_id,
			batter1_runs = excluded.batter1_runs,
			batter2_runs = excluded.batter2_runs,
			runs = excluded.runs,
			balls = excluded.balls,
			end_ball = excluded.end_ball,
			is_current = excluded.is_current
	`,
		p.MatchID, p.Innings, p.Wicket, p.Batter1ID, p.Batter2ID, p.Batter1Runs, p.Batter2Runs,
		p.Runs, p.Balls, p.StartBall, p.EndBall, boolInt(p.IsCurrent),
	)
	if err != nil {
		return fmt.Errorf("save partnership %d/%d: %w", p.Innings, p.Wicket, err)
	}
	return nil
}

// SavePerformance inserts or updates one player's match figures.
func (t *Tx) SavePerformance(ctx context.Context, p scoring.Performance) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO performances
		(match_id, player_id, team_id, batted, batting_position, runs, balls_faced, fours, sixes,
		 is_out, retired_hurt, dismissal_type, dismissed_by_id, dismissal_fielder_id,
		 balls_bowled, runs_conceded, wickets, maidens, wides, no_balls,
		 catches, run_outs, stumpings, player_of_match)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(match_id, player_id) DO UPDATE SET
			batted = excluded.batted,
			batting_position = excluded.batting_position,
			runs = excluded.runs,
			balls_faced = excluded.balls_faced,
			fours = excluded.fours,
			sixes = excluded.sixes,
			is_out = excluded.is_out,
			retired_hurt = excluded.retired_hurt,
			dismissal_type = excluded.dismissal_type,
			dismissed_by_id = excluded.dismissed_by_id,
			dismissal_fielder_id = excluded.dismissal_fielder_id,
			balls_bowled = excluded.balls_bowled,
			runs_conceded = excluded.runs_conceded,
			wickets = excluded.wickets,
			maidens = excluded.maidens,
			wides = excluded.wides,
			no_balls = excluded.no_balls,
			catches = excluded.catches,
			run_outs = excluded.run_outs,
			stumpings = excluded.stumpings,
			player_of_match = excluded.player_of_match
	`,
		p.MatchID, p.PlayerID, p.TeamID, boolInt(p.Batted), p.BattingPosition,
		p.Runs, p.BallsFaced, p.Fours, p.Sixes,
		boolInt(p.IsOut), boolInt(p.RetiredHurt), string(p.DismissalType), p.DismissedByID, p.DismissalFielderID,
		p.BallsBowled, p.RunsConceded, p.Wickets, p.Maidens, p.Wides, p.NoBalls,
		p.Catches, p.RunOuts, p.Stumpings, boolInt(p.PlayerOfMatch),
	)
	if err != nil {
		return fmt.Errorf("save performance %d: %w", p.PlayerID, err)
	}
	return nil
}

// MarkAggregated records the fold of one match for one player.
// Uses ON CONFLICT DO NOTHING; zero rows inserted means the match was
// already folded, reported as a DUPLICATE_AGGREGATION error.
func (t *Tx) MarkAggregated(ctx context.Context, playerID, matchID int64) error {
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO aggregations (player_id, match_id, aggregated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(player_id, match_id) DO NOTHING
	`, playerID, matchID, formatTime(t.now()))
	if err != nil {
		return fmt.Errorf("mark aggregated: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark aggregated: %w", err)
	}
	if n == 0 {
		return scoring.NewDuplicateAggregationError(matchID, playerID)
	}
	return nil
}

// SavePlayerStats writes a player's career totals. Derived fields are not
// stored.
func (t *Tx) SavePlayerStats(ctx context.Context, s stats.PlayerStats) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO player_stats
		(player_id, matches, innings, not_outs, total_runs, balls_faced, highest_score, highest_not_out,
		 fifties, hundreds, fours, sixes, balls_bowled, runs_conceded, wickets, maidens,
		 has_best_bowling, best_bowling_wickets, best_bowling_runs,
		 catches, run_outs, stumpings, player_of_match_awards, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			matches = excluded.matches,
			innings = excluded.innings,
			not_outs = excluded.not_outs,
			total_runs = excluded.total_runs,
			balls_faced = excluded.balls_faced,
			highest_score = excluded.highest_score,
			highest_not_out = excluded.highest_not_out,
			fifties = excluded.fifties,
			hundreds = excluded.hundreds,
			fours = excluded.fours,
			sixes = excluded.sixes,
			balls_bowled = excluded.balls_bowled,
			runs_conceded = excluded.runs_conceded,
			wickets = excluded.wickets,
			maidens = excluded.maidens,
			has_best_bowling = excluded.has_best_bowling,
			best_bowling_wickets = excluded.best_bowling_wickets,
			best_bowling_runs = excluded.best_bowling_runs,
			catches = excluded.catches,
			run_outs = excluded.run_outs,
			stumpings = excluded.stumpings,
			player_of_match_awards = excluded.player_of_match_awards,
			updated_at = excluded.updated_at
	`,
		s.PlayerID, s.Matches, s.Innings, s.NotOuts, s.TotalRuns, s.BallsFaced,
		s.HighestScore, boolInt(s.HighestNotOut), s.Fifties, s.Hundreds, s.Fours, s.Sixes,
		s.BallsBowled, s.RunsConceded, s.Wickets, s.Maidens,
		boolInt(s.HasBestBowling), s.BestBowlingWickets, s.BestBowlingRuns,
		s.Catches, s.RunOuts, s.Stumpings, s.PlayerOfMatchAwards, formatTime(t.now()),
	)
	if err != nil {
		return fmt.Errorf("save player stats %d: %w", s.PlayerID, err)
	}
	return nil
}

// SaveOutcome persists everything an applied delivery or abandon changed:
// the match header, the changed stands and the changed performances.
// Closed stands are written before new ones so the one-current-stand
// index is never violated mid-transaction.
func (t *Tx) SaveOutcome(ctx context.Context, m scoring.Match, out scoring.Outcome) error {
	if err := t.UpdateMatch(ctx, m); err != nil {
		return err
	}
	for _, p := range out.ChangedPartnerships {
		if p.IsCurrent {
			continue
		}
		if err := t.SavePartnership(ctx, p); err != nil {
			return err
		}
	}
	for _, p := range out.ChangedPartnerships {
		if !p.IsCurrent {
			continue
		}
		if err := t.SavePartnership(ctx, p); err != nil {
			return err
		}
	}
	for _, p := range out.ChangedPerformances {
		if err := t.SavePerformance(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
