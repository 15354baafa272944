package engine

import (
	"context"
	"fmt"
	"strconv"

	"github.com/roach88/scorebook/internal/scoring"
	"github.com/roach88/scorebook/internal/store"
)

// Difference is one field where the committed state disagrees with the
// state rebuilt from the ledger.
type Difference struct {
	Field     string `json:"field"`
	Committed string `json:"committed"`
	Replayed  string `json:"replayed"`
}

// ReplayReport is the result of rebuilding a match from its ledger.
type ReplayReport struct {
	MatchID     int64         `json:"match_id"`
	Deliveries  int           `json:"deliveries"`
	Consistent  bool          `json:"consistent"`
	Differences []Difference  `json:"differences"`
	Rebuilt     scoring.Match `json:"rebuilt"`
}

// ReplayMatch rebuilds a match from its toss and delivery ledger through
// the same state machine that recorded it, then compares the result with
// the committed match, partnerships and performances. It also checks each
// innings total against the raw ledger sums and the delivery count against
// the last ledger seq.
//
// Replay reads only; a report with differences means the committed figures
// no longer follow from the ledger.
func (e *Engine) ReplayMatch(ctx context.Context, matchID int64) (ReplayReport, error) {
	var rep ReplayReport
	err := e.read(ctx, "replay_match", func(tx *store.Tx) error {
		var err error
		rep, err = replay(ctx, tx, matchID)
		return err
	})
	if err != nil {
		return ReplayReport{}, err
	}

	if rep.Consistent {
		e.logger.Info("replay consistent", "match", matchID, "deliveries", rep.Deliveries)
	} else {
		e.logger.Warn("replay found differences",
			"match", matchID,
			"deliveries", rep.Deliveries,
			"differences", len(rep.Differences),
		)
	}
	return rep, nil
}

func replay(ctx context.Context, tx *store.Tx, matchID int64) (ReplayReport, error) {
	committed, err := tx.LoadState(ctx, matchID)
	if err != nil {
		return ReplayReport{}, err
	}
	ledger, err := tx.Deliveries(ctx, matchID)
	if err != nil {
		return ReplayReport{}, err
	}
	totals, err := tx.LedgerTotals(ctx, matchID)
	if err != nil {
		return ReplayReport{}, err
	}
	lastSeq, err := tx.LastSeq(ctx, matchID)
	if err != nil {
		return ReplayReport{}, err
	}

	rep := ReplayReport{MatchID: matchID, Deliveries: len(ledger), Differences: []Difference{}}
	diff := func(field string, committed, replayed any) {
		c, r := fmt.Sprint(committed), fmt.Sprint(replayed)
		if c != r {
			rep.Differences = append(rep.Differences, Difference{Field: field, Committed: c, Replayed: r})
		}
	}

	cm := committed.Match
	rebuilt := scoring.NewState(scoring.Match{
		ID:          cm.ID,
		Team1:       cm.Team1,
		Team2:       cm.Team2,
		TotalOvers:  cm.TotalOvers,
		Venue:       cm.Venue,
		ScheduledAt: cm.ScheduledAt,
		Status:      scoring.StatusUpcoming,
	}, nil, nil)

	if cm.TossWinnerID != 0 {
		if err := rebuilt.Toss(cm.TossWinnerID, cm.TossDecision); err != nil {
			diff("toss", cm.TossWinnerID, err)
		}
	}
	for _, d := range ledger {
		got, _, err := rebuilt.Apply(d.DeliveryInput)
		if err != nil {
			diff("delivery "+strconv.Itoa(d.Seq), d.Label(), err)
			break
		}
		diff("delivery "+strconv.Itoa(d.Seq)+" id", d.ID, got.ID)
	}
	if cm.ResultType == scoring.ResultNoResult {
		if _, err := rebuilt.Abandon(cm.AbandonReason); err != nil {
			diff("abandon", cm.AbandonReason, err)
		}
	}

	rm := rebuilt.Match
	diff("status", cm.Status, rm.Status)
	diff("current_innings", cm.CurrentInnings, rm.CurrentInnings)
	diff("delivery_count", cm.DeliveryCount, rm.DeliveryCount)
	diff("ledger last_seq", cm.DeliveryCount, lastSeq)
	diff("winner_id", cm.WinnerID, rm.WinnerID)
	diff("result", cm.Result, rm.Result)
	diff("result_type", cm.ResultType, rm.ResultType)
	diff("margin", cm.Margin, rm.Margin)
	diff("player_of_match_id", cm.PlayerOfMatchID, rm.PlayerOfMatchID)

	for i := range cm.Innings {
		c, r := cm.Innings[i], rm.Innings[i]
		prefix := "innings " + strconv.Itoa(i+1) + " "
		diff(prefix+"runs", c.Runs, r.Runs)
		diff(prefix+"wickets", c.Wickets, r.Wickets)
		diff(prefix+"overs", c.Overs(), r.Overs())
		diff(prefix+"extras", c.Extras, r.Extras)
		diff(prefix+"target", c.Target, r.Target)
		diff(prefix+"closed", c.Closed, r.Closed)
	}
	for _, lt := range totals {
		if lt.Innings < 1 || lt.Innings > 2 {
			diff("ledger innings", "1..2", lt.Innings)
			continue
		}
		c := cm.Innings[lt.Innings-1]
		prefix := "innings " + strconv.Itoa(lt.Innings) + " ledger "
		diff(prefix+"runs", c.Runs, lt.Runs)
		diff(prefix+"legal_balls", c.LegalBalls, lt.LegalBalls)
	}

	diff("partnerships", len(committed.Partnerships), len(rebuilt.Partnerships))
	for i := range min(len(committed.Partnerships), len(rebuilt.Partnerships)) {
		c, r := committed.Partnerships[i], rebuilt.Partnerships[i]
		diff(fmt.Sprintf("partnership %d/%d", c.Innings, c.Wicket), c, r)
	}

	diff("performances", len(committed.Performances), len(rebuilt.Performances))
	for _, c := range committed.PerformanceList() {
		r, ok := rebuilt.Performances[c.PlayerID]
		if !ok {
			diff(fmt.Sprintf("performance %d", c.PlayerID), "present", "missing")
			continue
		}
		diff(fmt.Sprintf("performance %d", c.PlayerID), c, *r)
	}

	rep.Rebuilt = rm
	rep.Consistent = len(rep.Differences) == 0
	return rep, nil
}

// FlowDeliveries returns the ledger entries written under one flow token,
// the audit trail of a single request.
func (e *Engine) FlowDeliveries(ctx context.Context, flowToken string) ([]scoring.Delivery, error) {
	const op = "flow_deliveries"
	if flowToken == "" {
		return nil, e.reject(op, 0, scoring.NewValidationError(0, "flow_token", "flow token is required"))
	}
	var deliveries []scoring.Delivery
	err := e.read(ctx, op, func(tx *store.Tx) error {
		var err error
		deliveries, err = tx.DeliveriesForFlow(ctx, flowToken)
		return err
	})
	return deliveries, err
}
