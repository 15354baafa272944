package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/scorebook/internal/scoring"
	"github.com/roach88/scorebook/internal/stats"
)

const matchColumns = `
	id, team1_id, team1_name, team2_id, team2_name, total_overs, venue, scheduled_at,
	status, current_innings, toss_winner_id, toss_decision, winner_id, result, result_type,
	margin, player_of_match_id, abandon_reason, delivery_count, created_at, updated_at`

// LoadMatch returns the committed match header with its innings.
// Returns a NOT_FOUND scoring error if the match does not exist.
func (t *Tx) LoadMatch(ctx context.Context, id int64) (scoring.Match, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = ?`, id)
	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return scoring.Match{}, scoring.NewNotFoundError("match", id)
	}
	if err != nil {
		return scoring.Match{}, fmt.Errorf("load match %d: %w", id, err)
	}
	if err := t.loadInnings(ctx, &m); err != nil {
		return scoring.Match{}, err
	}
	return m, nil
}

// ListMatches returns matches ordered by id, optionally filtered by status.
// Returns an empty slice (not nil) when nothing matches.
func (t *Tx) ListMatches(ctx context.Context, status scoring.Status) ([]scoring.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY id ASC`

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	matches := []scoring.Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	rows.Close()

	// Innings are loaded after the cursor is closed: the store has one
	// connection.
	for i := range matches {
		if err := t.loadInnings(ctx, &matches[i]); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (scoring.Match, error) {
	var (
		m                                 scoring.Match
		status, decision, resultType      string
		scheduledAt, createdAt, updatedAt string
	)
	err := row.Scan(
		&m.ID, &m.Team1.ID, &m.Team1.Name, &m.Team2.ID, &m.Team2.Name, &m.TotalOvers, &m.Venue, &scheduledAt,
		&status, &m.CurrentInnings, &m.TossWinnerID, &decision, &m.WinnerID, &m.Result, &resultType,
		&m.Margin, &m.PlayerOfMatchID, &m.AbandonReason, &m.DeliveryCount, &createdAt, &updatedAt,
	)
	if err != nil {
		return scoring.Match{}, err
	}
	m.Status = scoring.Status(status)
	m.TossDecision = scoring.TossDecision(decision)
	m.ResultType = scoring.ResultType(resultType)
	if m.ScheduledAt, err = parseTime(scheduledAt); err != nil {
		return scoring.Match{}, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return scoring.Match{}, err
	}
	if m.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return scoring.Match{}, err
	}
	return m, nil
}

func (t *Tx) loadInnings(ctx context.Context, m *scoring.Match) error {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT number, batting_team_id, bowling_team_id, runs, wickets, legal_balls, extras,
		       target, closed, over_runs, over_deliveries, bowler_id, last_over_bowler_id
		FROM innings
		WHERE match_id = ?
		ORDER BY number ASC
	`, m.ID)
	if err != nil {
		return fmt.Errorf("query innings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var inn scoring.Innings
		if err := rows.Scan(
			&inn.Number, &inn.BattingTeamID, &inn.BowlingTeamID, &inn.Runs, &inn.Wickets,
			&inn.LegalBalls, &inn.Extras, &inn.Target, &inn.Closed, &inn.OverRuns,
			&inn.OverDeliveries, &inn.BowlerID, &inn.LastOverBowlerID,
		); err != nil {
			return fmt.Errorf("scan innings: %w", err)
		}
		if inn.Number < 1 || inn.Number > 2 {
			return fmt.Errorf("match %d: invalid innings number %d", m.ID, inn.Number)
		}
		m.Innings[inn.Number-1] = inn
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate innings: %w", err)
	}
	return nil
}

// Deliveries returns the ledger of a match in canonical replay order:
// innings, over, ball, seq.
func (t *Tx) Deliveries(ctx context.Context, matchID int64) ([]scoring.Delivery, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT id, match_id, seq, innings, over_number, ball_number, batsman_id, non_striker_id,
		       bowler_id, fielder_id, runs_scored, extras, extras_type, is_wicket, dismissal_type,
		       player_out_id, incoming_batsman_id, shot, flow_token, recorded_at
		FROM deliveries
		WHERE match_id = ?
		ORDER BY innings ASC, over_number ASC, ball_number ASC, seq ASC
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("query deliveries: %w", err)
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
		return nil, fmt.Errorf("iterate deliveries: %w", err)
	}
	return deliveries, nil
}

func scanDelivery(row scanner) (scoring.Delivery, error) {
	var (
		d                         scoring.Delivery
		extrasType, dismissalType string
		shot                      sql.NullString
		recordedAt                string
	)
	err := row.Scan(
		&d.ID, &d.MatchID, &d.Seq, &d.Innings, &d.OverNumber, &d.BallNumber, &d.BatsmanID, &d.NonStrikerID,
		&d.BowlerID, &d.FielderID, &d.RunsScored, &d.Extras, &extrasType, &d.IsWicket, &dismissalType,
		&d.PlayerOutID, &d.IncomingBatsmanID, &shot, &d.FlowToken, &recordedAt,
	)
	if err != nil {
		return scoring.Delivery{}, fmt.Errorf("scan delivery: %w", err)
	}
	d.ExtrasType = scoring.ExtrasType(extrasType)
	d.DismissalType = scoring.DismissalType(dismissalType)
	if d.Shot, err = unmarshalShot(shot); err != nil {
		return scoring.Delivery{}, err
	}
	if d.RecordedAt, err = parseTime(recordedAt); err != nil {
		return scoring.Delivery{}, err
	}
	return d, nil
}

// Partnerships returns every stand of a match ordered by innings and wicket.
func (t *Tx) Partnerships(ctx context.Context, matchID int64) ([]scoring.Partnership, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT match_id, innings, wicket, batter1_id, batter2_id, batter1_runs, batter2_runs,
		       runs, balls, start_ball, end_ball, is_current
		FROM partnerships
		WHERE match_id = ?
		ORDER BY innings ASC, wicket ASC
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("query partnerships: %w", err)
	}
	defer rows.Close()

	partnerships := []scoring.Partnership{}
	for rows.Next() {
		var p scoring.Partnership
		if err := rows.Scan(
			&p.MatchID, &p.Innings, &p.Wicket, &p.Batter1ID, &p.Batter2ID, &p.Batter1Runs, &p.Batter2Runs,
			&p.Runs, &p.Balls, &p.StartBall, &p.EndBall, &p.IsCurrent,
		); err != nil {
			return nil, fmt.Errorf("scan partnership: %w", err)
		}
		partnerships = append(partnerships, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate partnerships: %w", err)
	}
	return partnerships, nil
}

// Performances returns every player's figures in a match ordered by player id.
func (t *Tx) Performances(ctx context.Context, matchID int64) ([]scoring.Performance, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT match_id, player_id, team_id, batted, batting_position, runs, balls_faced, fours, sixes,
		       is_out, retired_hurt, dismissal_type, dismissed_by_id, dismissal_fielder_id,
		       balls_bowled, runs_conceded, wickets, maidens, wides, no_balls,
		       catches, run_outs, stumpings, player_of_match
		FROM performances
		WHERE match_id = ?
		ORDER BY player_id ASC
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("query performances: %w", err)
	}
	defer rows.Close()

	performances := []scoring.Performance{}
	for rows.Next() {
		var (
			p             scoring.Performance
			dismissalType string
		)
		if err := rows.Scan(
			&p.MatchID, &p.PlayerID, &p.TeamID, &p.Batted, &p.BattingPosition, &p.Runs, &p.BallsFaced, &p.Fours, &p.Sixes,
			&p.IsOut, &p.RetiredHurt, &dismissalType, &p.DismissedByID, &p.DismissalFielderID,
			&p.BallsBowled, &p.RunsConceded, &p.Wickets, &p.Maidens, &p.Wides, &p.NoBalls,
			&p.Catches, &p.RunOuts, &p.Stumpings, &p.PlayerOfMatch,
		); err != nil {
			return nil, fmt.Errorf("scan performance: %w", err)
		}
		p.DismissalType = scoring.DismissalType(dismissalType)
		performances = append(performances, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate performances: %w", err)
	}
	return performances, nil
}

// LoadState assembles the scoring State of a match from its rows.
func (t *Tx) LoadState(ctx context.Context, matchID int64) (*scoring.State, error) {
	m, err := t.LoadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	partnerships, err := t.Partnerships(ctx, matchID)
	if err != nil {
		return nil, err
	}
	performances, err := t.Performances(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return scoring.NewState(m, partnerships, performances), nil
}

// Scorecard returns the full record of a match.
func (t *Tx) Scorecard(ctx context.Context, matchID int64) (scoring.Scorecard, error) {
	m, err := t.LoadMatch(ctx, matchID)
	if err != nil {
		return scoring.Scorecard{}, err
	}
	deliveries, err := t.Deliveries(ctx, matchID)
	if err != nil {
		return scoring.Scorecard{}, err
	}
	partnerships, err := t.Partnerships(ctx, matchID)
	if err != nil {
		return scoring.Scorecard{}, err
	}
	performances, err := t.Performances(ctx, matchID)
	if err != nil {
		return scoring.Scorecard{}, err
	}
	return scoring.Scorecard{
		Match:        m,
		Deliveries:   deliveries,
		Partnerships: partnerships,
		Performances: performances,
	}, nil
}

// PlayerStats returns a player's career record with derived fields
// computed. found is false if the player has never been folded.
func (t *Tx) PlayerStats(ctx context.Context, playerID int64) (s stats.PlayerStats, found bool, err error) {
	var updatedAt string
	err = t.tx.QueryRowContext(ctx, `
		SELECT player_id, matches, innings, not_outs, total_runs, balls_faced, highest_score, highest_not_out,
		       fifties, hundreds, fours, sixes, balls_bowled, runs_conceded, wickets, maidens,
		       has_best_bowling, best_bowling_wickets, best_bowling_runs,
		       catches, run_outs, stumpings, player_of_match_awards, updated_at
		FROM player_stats
		WHERE player_id = ?
	`, playerID).Scan(
		&s.PlayerID, &s.Matches, &s.Innings, &s.NotOuts, &s.TotalRuns, &s.BallsFaced, &s.HighestScore, &s.HighestNotOut,
		&s.Fifties, &s.Hundreds, &s.Fours, &s.Sixes, &s.BallsBowled, &s.RunsConceded, &s.Wickets, &s.Maidens,
		&s.HasBestBowling, &s.BestBowlingWickets, &s.BestBowlingRuns,
		&s.Catches, &s.RunOuts, &s.Stumpings, &s.PlayerOfMatchAwards, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return stats.PlayerStats{PlayerID: playerID}, false, nil
	}
	if err != nil {
		return stats.PlayerStats{}, false, fmt.Errorf("load player stats %d: %w", playerID, err)
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return stats.PlayerStats{}, false, err
	}
	s.Recompute()
	return s, true, nil
}

// LoadPlayerStats implements stats.Repository: a player with no record
// starts from zero totals.
func (t *Tx) LoadPlayerStats(ctx context.Context, playerID int64) (stats.PlayerStats, error) {
	s, _, err := t.PlayerStats(ctx, playerID)
	return s, err
}
