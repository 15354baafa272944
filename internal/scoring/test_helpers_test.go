package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testMatchID = int64(100)
	team1       = int64(1)
	team2       = int64(2)
)

// createTestState returns a match of the given length with the toss done:
// team1 bats first.
func createTestState(t *testing.T, overs int) *State {
	t.Helper()
	s := NewMatchState(testMatchID, NewMatch{
		Team1:      TeamRef{ID: team1, Name: "team1"},
		Team2:      TeamRef{ID: team2, Name: "team2"},
		TotalOvers: overs,
	})
	require.NoError(t, s.Toss(team1, DecisionBat))
	return s
}

// inningsRunner bowls deliveries for one innings, filling in the position,
// batters and bowler. Strike only changes when the striker is out.
type inningsRunner struct {
	t          *testing.T
	s          *State
	striker    int64
	nonStriker int64
	next       int64
	bowlers    [2]int64
}

// newRunner starts an innings with batters base+1 and base+2 facing
// bowlers bowl1 and bowl2 on alternate overs.
func newRunner(t *testing.T, s *State, base, bowl1, bowl2 int64) *inningsRunner {
	return &inningsRunner{
		t:          t,
		s:          s,
		striker:    base + 1,
		nonStriker: base + 2,
		next:       base + 3,
		bowlers:    [2]int64{bowl1, bowl2},
	}
}

// fill completes a partial input with the expected position and the
// runner's batters and bowler.
func (r *inningsRunner) fill(in DeliveryInput) DeliveryInput {
	innings, over, ball, ok := r.s.Expected()
	require.True(r.t, ok, "match does not accept deliveries")
	in.Innings, in.OverNumber, in.BallNumber = innings, over, ball
	if in.BatsmanID == 0 {
		in.BatsmanID = r.striker
	}
	if in.NonStrikerID == 0 {
		in.NonStrikerID = r.nonStriker
	}
	if in.BowlerID == 0 {
		in.BowlerID = r.bowlers[over%2]
	}
	return in
}

func (r *inningsRunner) ball(in DeliveryInput) (Delivery, Outcome) {
	r.t.Helper()
	d, out, err := r.s.Apply(r.fill(in))
	require.NoError(r.t, err)
	if d.IsWicket && d.DismissalType != DismissalRetiredHurt {
		if d.PlayerOutID == r.striker {
			r.striker = d.IncomingBatsmanID
		} else {
			r.nonStriker = d.IncomingBatsmanID
		}
	}
	return d, out
}

func (r *inningsRunner) runs(n int) Outcome {
	r.t.Helper()
	_, out := r.ball(DeliveryInput{RunsScored: n})
	return out
}

func (r *inningsRunner) repeat(times, n int) Outcome {
	r.t.Helper()
	var out Outcome
	for range times {
		out = r.runs(n)
	}
	return out
}

// bowled dismisses the striker and brings in the next batter.
func (r *inningsRunner) bowled() Outcome {
	r.t.Helper()
	in := DeliveryInput{IsWicket: true, DismissalType: DismissalBowled, IncomingBatsmanID: r.next}
	r.next++
	_, out := r.ball(in)
	return out
}

func (r *inningsRunner) wickets(n int) Outcome {
	r.t.Helper()
	var out Outcome
	for range n {
		out = r.bowled()
	}
	return out
}

// playFirstInnings scores 180/4 in 20 overs for team1: four wickets, thirty
// sixes by batter 106, then dots.
func playFirstInnings(t *testing.T, s *State) Outcome {
	t.Helper()
	r := newRunner(t, s, 100, 210, 211)
	r.wickets(4)
	r.repeat(30, 6)
	return r.repeat(86, 0)
}
