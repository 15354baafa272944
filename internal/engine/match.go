package engine

import (
	"context"
	"fmt"

	"github.com/roach88/scorebook/internal/publish"
	"github.com/roach88/scorebook/internal/scoring"
	"github.com/roach88/scorebook/internal/stats"
	"github.com/roach88/scorebook/internal/store"
)

// CreateMatch registers an upcoming match between two teams.
func (e *Engine) CreateMatch(ctx context.Context, nm scoring.NewMatch) (scoring.Match, error) {
	const op = "create_match"
	if err := scoring.ValidateNewMatch(nm); err != nil {
		return scoring.Match{}, e.reject(op, 0, err)
	}

	now := e.now()
	m := scoring.NewMatchState(0, nm).Match
	m.CreatedAt, m.UpdatedAt = now, now

	err := e.write(ctx, op, func(tx *store.Tx) error {
		id, err := tx.InsertMatch(ctx, m)
		m.ID = id
		return err
	})
	if err != nil {
		return scoring.Match{}, err
	}

	e.metrics.Match("created")
	e.logger.Info("match created",
		"match", m.ID,
		"team1", m.Team1.DisplayName(),
		"team2", m.Team2.DisplayName(),
		"overs", m.TotalOvers,
	)
	return m, nil
}

// RecordToss records the toss winner and decision and moves the match to
// toss. The winner must be one of the two teams.
func (e *Engine) RecordToss(ctx context.Context, matchID, winnerTeamID int64, decision scoring.TossDecision) (scoring.Match, error) {
	flow := e.NewFlow()
	var m scoring.Match
	err := e.unit(ctx, "record_toss", matchID, func(tx *store.Tx) error {
		st, err := tx.LoadState(ctx, matchID)
		if err != nil {
			return err
		}
		if err := st.Toss(winnerTeamID, decision); err != nil {
			return err
		}
		st.Match.UpdatedAt = e.now()
		if err := tx.UpdateMatch(ctx, st.Match); err != nil {
			return err
		}
		m = st.Match
		return nil
	})
	if err != nil {
		return scoring.Match{}, err
	}

	e.metrics.Match(string(scoring.StatusToss))
	e.logger.Info("toss recorded",
		"match", m.ID,
		"winner", m.TossWinnerID,
		"decision", m.TossDecision,
		"batting_first", m.Innings[0].BattingTeamID,
	)
	e.publish(ctx, e.event(publish.EventTossRecorded, m, flow))
	return m, nil
}

// AbandonMatch ends a match as a no result. The live innings is closed and
// the performances so far are folded into career statistics.
func (e *Engine) AbandonMatch(ctx context.Context, matchID int64, reason string) (scoring.Match, error) {
	flow := e.NewFlow()
	var (
		m   scoring.Match
		out scoring.Outcome
	)
	err := e.unit(ctx, "abandon_match", matchID, func(tx *store.Tx) error {
		st, err := tx.LoadState(ctx, matchID)
		if err != nil {
			return err
		}
		if out, err = st.Abandon(reason); err != nil {
			return err
		}
		st.Match.UpdatedAt = e.now()
		if err := tx.SaveOutcome(ctx, st.Match, out); err != nil {
			return err
		}
		if _, err := stats.Aggregate(ctx, tx, st.PerformanceList()); err != nil {
			return fmt.Errorf("aggregate match %d: %w", matchID, err)
		}
		m = st.Match
		return nil
	})
	if err != nil {
		return scoring.Match{}, err
	}

	var events []publish.MatchEvent
	if out.InningsClosed != 0 {
		e.metrics.InningsClosed()
		ev := e.event(publish.EventInningsClosed, m, flow)
		ev.Innings = out.InningsClosed
		events = append(events, ev)
	}
	events = append(events, e.event(publish.EventMatchAbandoned, m, flow))

	e.metrics.Match(string(scoring.ResultNoResult))
	e.logger.Info("match abandoned", "match", m.ID, "reason", reason)
	e.publish(ctx, events...)
	return m, nil
}

// GetMatchSnapshot returns the committed state of a match.
func (e *Engine) GetMatchSnapshot(ctx context.Context, matchID int64) (scoring.Match, error) {
	var m scoring.Match
	err := e.read(ctx, "get_match", func(tx *store.Tx) error {
		var err error
		m, err = tx.LoadMatch(ctx, matchID)
		return err
	})
	return m, err
}

// GetScorecard returns the match with its ledger, partnerships and
// performances.
func (e *Engine) GetScorecard(ctx context.Context, matchID int64) (scoring.Scorecard, error) {
	var sc scoring.Scorecard
	err := e.read(ctx, "get_scorecard", func(tx *store.Tx) error {
		var err error
		sc, err = tx.Scorecard(ctx, matchID)
		return err
	})
	return sc, err
}

// GetPlayerStats returns a player's career statistics with derived fields
// computed. A player who has never been folded is NOT_FOUND.
func (e *Engine) GetPlayerStats(ctx context.Context, playerID int64) (stats.PlayerStats, error) {
	var s stats.PlayerStats
	err := e.read(ctx, "get_player_stats", func(tx *store.Tx) error {
		var (
			found bool
			err   error
		)
		s, found, err = tx.PlayerStats(ctx, playerID)
		if err != nil {
			return err
		}
		if !found {
			return scoring.NewNotFoundError("player", playerID)
		}
		return nil
	})
	return s, err
}

// ListMatches returns matches ordered by id. An empty status lists all.
func (e *Engine) ListMatches(ctx context.Context, status scoring.Status) ([]scoring.Match, error) {
	const op = "list_matches"
	if status != "" && !status.Valid() {
		return nil, e.reject(op, 0, scoring.NewValidationError(0, "status", "unknown match status %q", status))
	}
	var matches []scoring.Match
	err := e.read(ctx, op, func(tx *store.Tx) error {
		var err error
		matches, err = tx.ListMatches(ctx, status)
		return err
	})
	return matches, err
}
