package engine

import (
	"context"
	"fmt"

	"github.com/roach88/scorebook/internal/publish"
	"github.com/roach88/scorebook/internal/scoring"
	"github.com/roach88/scorebook/internal/stats"
	"github.com/roach88/scorebook/internal/store"
)

// DeliveryResult is the committed outcome of one recorded delivery.
type DeliveryResult struct {
	Delivery scoring.Delivery `json:"delivery"`
	Match    scoring.Match    `json:"match"`

	// Partnership is the stand at the crease after the delivery, nil
	// between innings and after completion.
	Partnership *scoring.Partnership `json:"partnership,omitempty"`

	// InningsClosed is the innings this delivery ended, 0 if none.
	InningsClosed int  `json:"innings_closed,omitempty"`
	Completed     bool `json:"completed"`

	// PlayerStats holds the career records folded when the delivery
	// completed the match.
	PlayerStats []stats.PlayerStats `json:"player_stats,omitempty"`
}

// RecordDelivery validates one delivery, appends it to the ledger and
// applies it to the innings, partnership and performance figures. When the
// delivery completes the match, every performance is folded into career
// statistics in the same transaction.
//
// Returns a SEQUENCE error for an out-of-order delivery, INVALID_STATE when
// the match does not accept deliveries and VALIDATION for inconsistent
// input. Nothing is written on error.
func (e *Engine) RecordDelivery(ctx context.Context, matchID int64, in scoring.DeliveryInput) (DeliveryResult, error) {
	flow := e.NewFlow()
	var (
		res DeliveryResult
		out scoring.Outcome
	)
	err := e.unit(ctx, "record_delivery", matchID, func(tx *store.Tx) error {
		st, err := tx.LoadState(ctx, matchID)
		if err != nil {
			return err
		}
		d, o, err := st.Apply(in)
		if err != nil {
			return err
		}

		now := e.now()
		d.FlowToken = flow
		d.RecordedAt = now
		st.Match.UpdatedAt = now

		if err := tx.AppendDelivery(ctx, d); err != nil {
			return err
		}
		if err := tx.SaveOutcome(ctx, st.Match, o); err != nil {
			return err
		}
		if o.Completed {
			folded, err := stats.Aggregate(ctx, tx, st.PerformanceList())
			if err != nil {
				return fmt.Errorf("aggregate match %d: %w", matchID, err)
			}
			res.PlayerStats = folded
		}

		res.Delivery = d
		res.Match = st.Match
		if p, ok := st.CurrentPartnership(); ok {
			res.Partnership = &p
		}
		out = o
		return nil
	})
	if err != nil {
		return DeliveryResult{}, err
	}
	res.InningsClosed = out.InningsClosed
	res.Completed = out.Completed

	e.committed(ctx, res, out)
	return res, nil
}

// committed logs, counts and publishes a recorded delivery.
func (e *Engine) committed(ctx context.Context, res DeliveryResult, out scoring.Outcome) {
	d, m := res.Delivery, res.Match

	e.metrics.Delivery(string(d.ExtrasType), d.IsWicket && d.DismissalType != scoring.DismissalRetiredHurt)
	e.logger.Debug("delivery recorded",
		"match", m.ID,
		"seq", d.Seq,
		"ball", d.Label(),
		"runs", d.TotalRuns(),
		"extras_type", d.ExtrasType,
		"wicket", d.IsWicket,
		"flow", d.FlowToken,
	)

	ev := e.event(publish.EventDeliveryRecorded, m, d.FlowToken)
	ev.Innings = d.Innings
	ev.Delivery = &d
	events := []publish.MatchEvent{ev}

	if out.Started {
		e.metrics.Match(string(scoring.StatusLive))
	}
	if out.InningsClosed != 0 {
		inn := m.Innings[out.InningsClosed-1]
		e.metrics.InningsClosed()
		e.logger.Info("innings closed",
			"match", m.ID,
			"innings", inn.Number,
			"runs", inn.Runs,
			"wickets", inn.Wickets,
			"overs", inn.Overs().String(),
		)
		ev := e.event(publish.EventInningsClosed, m, d.FlowToken)
		ev.Innings = out.InningsClosed
		ev.Delivery = &d
		events = append(events, ev)
	}
	if out.Completed {
		e.metrics.Match(string(m.ResultType))
		e.logger.Info("match completed",
			"match", m.ID,
			"result", m.Result,
			"winner", m.WinnerID,
			"player_of_match", m.PlayerOfMatchID,
			"players_folded", len(res.PlayerStats),
		)
		ev := e.event(publish.EventMatchCompleted, m, d.FlowToken)
		ev.Delivery = &d
		events = append(events, ev)
	}

	e.publish(ctx, events...)
}
