package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Toss(t *testing.T) {
	s := NewMatchState(testMatchID, NewMatch{
		Team1: TeamRef{ID: team1}, Team2: TeamRef{ID: team2}, TotalOvers: 20,
	})

	require.NoError(t, s.Toss(team2, DecisionBowl))

	m := s.Match
	assert.Equal(t, StatusToss, m.Status)
	assert.Equal(t, team2, m.TossWinnerID)
	assert.Equal(t, team1, m.Innings[0].BattingTeamID, "toss winner chose to bowl")
	assert.Equal(t, team2, m.Innings[0].BowlingTeamID)
	assert.Equal(t, team2, m.Innings[1].BattingTeamID)
	assert.Equal(t, 0, m.CurrentInnings, "innings not set until the first ball")
}

func TestState_Toss_Rejected(t *testing.T) {
	s := NewMatchState(testMatchID, NewMatch{
		Team1: TeamRef{ID: team1}, Team2: TeamRef{ID: team2}, TotalOvers: 20,
	})

	err := s.Toss(99, DecisionBat)
	assert.True(t, IsValidation(err), "unknown team")

	err = s.Toss(team1, "field")
	assert.True(t, IsValidation(err), "unknown decision")

	require.NoError(t, s.Toss(team1, DecisionBat))
	err = s.Toss(team1, DecisionBat)
	assert.True(t, IsInvalidState(err), "toss twice")
}

func TestState_Apply_BeforeToss(t *testing.T) {
	s := NewMatchState(testMatchID, NewMatch{
		Team1: TeamRef{ID: team1}, Team2: TeamRef{ID: team2}, TotalOvers: 20,
	})

	_, _, err := s.Apply(DeliveryInput{
		Innings: 1, OverNumber: 0, BallNumber: 1, BatsmanID: 101, NonStrikerID: 102, BowlerID: 210,
	})
	require.Error(t, err)
	assert.True(t, IsInvalidState(err))
}

func TestState_Apply_FirstDeliveryGoesLive(t *testing.T) {
	s := createTestState(t, 20)
	r := newRunner(t, s, 100, 210, 211)

	d, out := r.ball(DeliveryInput{RunsScored: 1})

	assert.True(t, out.Started)
	assert.Equal(t, StatusLive, s.Match.Status)
	assert.Equal(t, 1, s.Match.CurrentInnings)
	assert.Equal(t, 1, d.Seq)
	assert.Equal(t, testMatchID, d.MatchID)
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, ExtrasNone, d.ExtrasType, "normalized")
	assert.Equal(t, DismissalNone, d.DismissalType, "normalized")

	p, ok := s.CurrentPartnership()
	require.True(t, ok)
	assert.Equal(t, 1, p.Wicket)
	assert.Equal(t, int64(101), p.Batter1ID)
	assert.Equal(t, int64(102), p.Batter2ID)
	assert.Equal(t, 1, p.Runs)
	assert.Equal(t, 1, p.Balls)
	assert.Equal(t, 0, p.StartBall)
}

func TestState_Apply_Sequence(t *testing.T) {
	s := createTestState(t, 20)
	r := newRunner(t, s, 100, 210, 211)
	r.runs(0)

	tests := []struct {
		name          string
		innings, over int
		ball          int
	}{
		{"repeated ball", 1, 0, 1},
		{"skipped ball", 1, 0, 3},
		{"wrong over", 1, 1, 2},
		{"wrong innings", 2, 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.Apply(DeliveryInput{
				Innings: tt.innings, OverNumber: tt.over, BallNumber: tt.ball,
				BatsmanID: 101, NonStrikerID: 102, BowlerID: 210,
			})
			require.Error(t, err)
			assert.True(t, IsSequence(err), "got %v", err)
		})
	}
}

func TestState_Apply_IllegalDeliveryKeepsBall(t *testing.T) {
	s := createTestState(t, 20)
	r := newRunner(t, s, 100, 210, 211)

	d, _ := r.ball(DeliveryInput{ExtrasType: ExtrasWide, Extras: 1})
	assert.Equal(t, 1, d.BallNumber)
	d, _ = r.ball(DeliveryInput{ExtrasType: ExtrasNoBall, Extras: 1, RunsScored: 4})
	assert.Equal(t, 1, d.BallNumber, "no-ball carries the same expected ball")

	inn := s.Match.Innings[0]
	assert.Equal(t, 0, inn.LegalBalls)
	assert.Equal(t, "0.0", inn.Overs().String())
	assert.Equal(t, 6, inn.Runs)
	assert.Equal(t, 2, inn.Extras)

	striker := s.Performances[101]
	assert.Equal(t, 4, striker.Runs)
	assert.Equal(t, 1, striker.BallsFaced, "wide is not faced, no-ball is")
	assert.Equal(t, 1, striker.Fours)

	bowler := s.Performances[210]
	assert.Equal(t, 0, bowler.BallsBowled)
	assert.Equal(t, 6, bowler.RunsConceded)
	assert.Equal(t, 1, bowler.Wides)
	assert.Equal(t, 1, bowler.NoBalls)
}

func TestState_Apply_ByesOffNoBall(t *testing.T) {
	s := createTestState(t, 20)
	r := newRunner(t, s, 100, 210, 211)

	r.ball(DeliveryInput{ExtrasType: ExtrasNoBall, Extras: 3})

	inn := s.Match.Innings[0]
	assert.Equal(t, 3, inn.Runs)
	assert.Equal(t, 3, inn.Extras)

	bowler := s.Performances[210]
	assert.Equal(t, 1, bowler.RunsConceded, "only the penalty run is the bowler's")
	assert.Equal(t, 1, bowler.NoBalls)
	assert.Equal(t, 0, s.Performances[101].Runs)
}

func TestState_Apply_OversNotation(t *testing.T) {
	s := createTestState(t, 20)
	r := newRunner(t, s, 100, 210, 211)

	for i := range 20 {
		if i%4 == 3 {
			r.ball(DeliveryInput{ExtrasType: ExtrasWide, Extras: 1})
		} else {
			r.runs(1)
		}
		o := s.Match.Innings[0].Overs()
		assert.GreaterOrEqual(t, o.Balls, 0)
		assert.LessOrEqual(t, o.Balls, 5)
	}
	// 15 legal balls, 5 wides.
	assert.Equal(t, "2.3", s.Match.Innings[0].Overs().String())
}

func TestState_Apply_Byes(t *testing.T) {
	s := createTestState(t, 20)
	r := newRunner(t, s, 100, 210, 211)

	r.ball(DeliveryInput{ExtrasType: ExtrasLegBye, Extras: 2})

	inn := s.Match.Innings[0]
	assert.Equal(t, 2, inn.Runs)
	assert.Equal(t, 1, inn.LegalBalls)

	assert.Equal(t, 0, s.Performances[101].Runs)
	assert.Equal(t, 1, s.Performances[101].BallsFaced)
	assert.Equal(t, 0, s.Performances[210].RunsConceded, "byes are not charged to the bowler")
	assert.Equal(t, 1, s.Performances[210].BallsBowled)

	p, _ := s.CurrentPartnership()
	assert.Equal(t, 2, p.Runs)
	assert.Equal(t, 0, p.Batter1Runs+p.Batter2Runs)
}

func TestState_Apply_ShotMetadata(t *testing.T) {
	s := createTestState(t, 20)
	r := newRunner(t, s, 100, 210, 211)
	ran := false

	r.ball(DeliveryInput{RunsScored: 4, Shot: &Shot{Type: "drive", Region: "cover", Boundary: &ran}})
	r.ball(DeliveryInput{RunsScored: 6, Shot: &Shot{Type: "pull"}})

	p := s.Performances[101]
	assert.Equal(t, 10, p.Runs)
	assert.Equal(t, 0, p.Fours, "four was run")
	assert.Equal(t, 1, p.Sixes)
}

func TestState_FirstInningsTransition(t *testing.T) {
	s := createTestState(t, 20)

	out := playFirstInnings(t, s)

	assert.Equal(t, 1, out.InningsClosed)
	assert.False(t, out.Completed)
	m := s.Match
	assert.Equal(t, StatusLive, m.Status)
	assert.Equal(t, 2, m.CurrentInnings)
	assert.Equal(t, 180, m.Innings[0].Runs)
	assert.Equal(t, 4, m.Innings[0].Wickets)
	assert.Equal(t, "20.0", m.Innings[0].Overs().String())
	assert.True(t, m.Innings[0].Closed)
	assert.Equal(t, 181, m.Target())
	assert.Equal(t, 120, m.DeliveryCount)

	parts := InningsPartnerships(s.Partnerships, 1)
	require.Len(t, parts, 5)
	for i, p := range parts {
		assert.Equal(t, i+1, p.Wicket)
		assert.False(t, p.IsCurrent, "innings closed, stand %d ended", p.Wicket)
	}
	last := parts[4]
	assert.Equal(t, 180, last.Runs)
	assert.Equal(t, 116, last.Balls)
	assert.Equal(t, 4, last.StartBall)
	assert.Equal(t, 120, last.EndBall)
	assert.Equal(t, int64(102), last.Batter1ID, "survivor")
	assert.Equal(t, int64(106), last.Batter2ID)
	assert.Equal(t, 180, last.Batter2Runs)

	_, ok := s.CurrentPartnership()
	assert.False(t, ok, "innings 2 has not started")

	assert.Equal(t, 180, s.Performances[106].Runs)
	assert.Equal(t, 30, s.Performances[106].Sixes)
	assert.Equal(t, 116, s.Performances[106].BallsFaced)
	assert.Equal(t, 6, s.Performances[106].BattingPosition)
	assert.Equal(t, 4, s.Performances[210].Wickets)
	assert.Equal(t, 7, s.Performances[210].Maidens)
	assert.Equal(t, 7, s.Performances[211].Maidens)
	assert.Equal(t, 60, s.Performances[210].BallsBowled)
	assert.True(t, s.Performances[102].Batted)
	assert.False(t, s.Performances[102].IsOut)
}

func TestState_ChaseCompletes(t *testing.T) {
	s := createTestState(t, 20)
	playFirstInnings(t, s)

	r := newRunner(t, s, 200, 110, 111)
	r.wickets(3)
	r.repeat(30, 6)
	r.repeat(78, 0)
	out := r.runs(1)

	assert.True(t, out.Completed)
	assert.Equal(t, 2, out.InningsClosed)
	m := s.Match
	assert.Equal(t, StatusCompleted, m.Status)
	assert.Equal(t, 181, m.Innings[1].Runs)
	assert.Equal(t, 3, m.Innings[1].Wickets)
	assert.Equal(t, "18.4", m.Innings[1].Overs().String())
	assert.Equal(t, team2, m.WinnerID)
	assert.Equal(t, ResultWonByWickets, m.ResultType)
	assert.Equal(t, 7, m.Margin)
	assert.Equal(t, "team2 won by 7 wickets", m.Result)
	assert.Equal(t, int64(205), m.PlayerOfMatchID)
	assert.True(t, s.Performances[205].PlayerOfMatch)

	_, _, err := s.Apply(DeliveryInput{
		Innings: 2, OverNumber: 18, BallNumber: 5, BatsmanID: 205, NonStrikerID: 202, BowlerID: 110,
	})
	assert.True(t, IsInvalidState(err), "no deliveries after completion")
}

func TestState_Tie(t *testing.T) {
	s := createTestState(t, 20)
	playFirstInnings(t, s)

	r := newRunner(t, s, 200, 110, 111)
	r.wickets(7)
	r.repeat(30, 6)
	out := r.repeat(83, 0)

	assert.True(t, out.Completed)
	m := s.Match
	assert.Equal(t, 180, m.Innings[1].Runs)
	assert.Equal(t, 7, m.Innings[1].Wickets)
	assert.Equal(t, "Match tied", m.Result)
	assert.Equal(t, ResultTie, m.ResultType)
	assert.Zero(t, m.WinnerID)
	// 106 and 209 both made 180; the lower id wins the award.
	assert.Equal(t, int64(106), m.PlayerOfMatchID)
}

func TestState_DefendedTotal(t *testing.T) {
	s := createTestState(t, 2)
	r := newRunner(t, s, 100, 210, 211)
	r.repeat(12, 1)
	require.Equal(t, 2, s.Match.CurrentInnings)

	r = newRunner(t, s, 200, 110, 111)
	r.repeat(11, 1)
	out := r.runs(0)

	assert.True(t, out.Completed)
	assert.Equal(t, team1, s.Match.WinnerID)
	assert.Equal(t, ResultWonByRuns, s.Match.ResultType)
	assert.Equal(t, "team1 won by 1 run", s.Match.Result)
}

func TestState_AllOut(t *testing.T) {
	s := createTestState(t, 20)
	r := newRunner(t, s, 100, 210, 211)
	r.runs(4)
	r.wickets(9)
	require.Equal(t, 1, s.Match.CurrentInnings)

	out := r.bowled()

	assert.Equal(t, 1, out.InningsClosed)
	assert.Equal(t, 10, s.Match.Innings[0].Wickets)
	assert.Equal(t, 5, s.Match.Target())
	assert.Len(t, InningsPartnerships(s.Partnerships, 1), 10, "no stand opened after the tenth wicket")
}

func TestState_RunOutOffNoBall(t *testing.T) {
	s := createTestState(t, 20)
	r := newRunner(t, s, 100, 210, 211)
	r.runs(1)

	d, _ := r.ball(DeliveryInput{
		ExtrasType: ExtrasNoBall, Extras: 1, RunsScored: 1,
		IsWicket: true, DismissalType: DismissalRunOut, PlayerOutID: 102, FielderID: 207,
		IncomingBatsmanID: 103,
	})

	inn := s.Match.Innings[0]
	assert.Equal(t, 1, inn.Wickets)
	assert.Equal(t, 1, inn.LegalBalls, "no-ball does not advance the counter")
	assert.Equal(t, 3, inn.Runs)
	assert.Equal(t, 2, d.BallNumber)

	innings, over, ball, _ := s.Expected()
	assert.Equal(t, []int{1, 0, 2}, []int{innings, over, ball})

	assert.True(t, s.Performances[102].IsOut)
	assert.Equal(t, DismissalRunOut, s.Performances[102].DismissalType)
	assert.Zero(t, s.Performances[210].Wickets, "run out is not credited to the bowler")
	assert.Equal(t, 1, s.Performances[207].RunOuts)
	assert.Equal(t, team2, s.Performances[207].TeamID)

	p, ok := s.CurrentPartnership()
	require.True(t, ok)
	assert.Equal(t, 2, p.Wicket)
	assert.True(t, p.Has(101))
	assert.True(t, p.Has(103))
}

func TestState_DismissalRules(t *testing.T) {
	tests := []struct {
		name  string
		in    DeliveryInput
		valid bool
	}{
		{"bowled off fair ball", DeliveryInput{IsWicket: true, DismissalType: DismissalBowled}, true},
		{"bowled off no-ball", DeliveryInput{ExtrasType: ExtrasNoBall, Extras: 1, IsWicket: true, DismissalType: DismissalBowled}, false},
		{"lbw off wide", DeliveryInput{ExtrasType: ExtrasWide, Extras: 1, IsWicket: true, DismissalType: DismissalLBW}, false},
		{"stumped off wide", DeliveryInput{ExtrasType: ExtrasWide, Extras: 1, IsWicket: true, DismissalType: DismissalStumped, FielderID: 209}, true},
		{"stumped without keeper", DeliveryInput{IsWicket: true, DismissalType: DismissalStumped}, false},
		{"caught without fielder", DeliveryInput{IsWicket: true, DismissalType: DismissalCaught}, false},
		{"caught and bowled", DeliveryInput{IsWicket: true, DismissalType: DismissalCaught, FielderID: 210}, true},
		{"run out off bye", DeliveryInput{ExtrasType: ExtrasBye, Extras: 1, IsWicket: true, DismissalType: DismissalRunOut}, true},
		{"non-striker bowled", DeliveryInput{IsWicket: true, DismissalType: DismissalBowled, PlayerOutID: 102}, false},
		{"non-striker run out", DeliveryInput{IsWicket: true, DismissalType: DismissalRunOut, PlayerOutID: 102}, true},
		{"wicket without type", DeliveryInput{IsWicket: true}, false},
		{"type without wicket", DeliveryInput{DismissalType: DismissalBowled}, false},
		{"player out not at crease", DeliveryInput{IsWicket: true, DismissalType: DismissalRunOut, PlayerOutID: 105}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := createTestState(t, 20)
			r := newRunner(t, s, 100, 210, 211)
			_, _, err := s.Apply(r.fill(tt.in))
			if tt.valid {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidation(err), "got %v", err)
		})
	}
}

func TestState_WicketCreditsBowlerAndFielder(t *testing.T) {
	s := createTestState(t, 20)
	r := newRunner(t, s, 100, 210, 211)

	r.ball(DeliveryInput{IsWicket: true, DismissalType: DismissalCaught, FielderID: 205, IncomingBatsmanID: 103})

	out := s.Performances[101]
	assert.True(t, out.IsOut)
	assert.Equal(t, DismissalCaught, out.DismissalType)
	assert.Equal(t, int64(210), out.DismissedByID)
	assert.Equal(t, int64(205), out.DismissalFielderID)
	assert.Equal(t, 1, s.Performances[210].Wickets)
	assert.Equal(t, 1, s.Performances[205].Catches)
}

func TestState_RetiredHurt(t *testing.T) {
	s := createTestState(t, 20)
	r := newRunner(t, s, 100, 210, 211)
	r.runs(2)

	r.ball(DeliveryInput{IsWicket: true, DismissalType: DismissalRetiredHurt, IncomingBatsmanID: 103})

	assert.Zero(t, s.Match.Innings[0].Wickets, "retired hurt is not a team wicket")
	assert.True(t, s.Performances[101].RetiredHurt)
	assert.False(t, s.Performances[101].IsOut)

	p, ok := s.CurrentPartnership()
	require.True(t, ok)
	assert.Equal(t, 1, p.Wicket, "stand continues")
	assert.Equal(t, int64(103), p.Batter1ID)
	assert.Equal(t, int64(102), p.Batter2ID)

	r.striker = 103
	r.runs(1)
	p, _ = s.CurrentPartnership()
	assert.Equal(t, 3, p.Runs)
}

func TestState_PendingIncomingBatter(t *testing.T) {
	s := createTestState(t, 20)
	r := newRunner(t, s, 100, 210, 211)

	r.ball(DeliveryInput{IsWicket: true, DismissalType: DismissalBowled})

	p, ok := s.CurrentPartnership()
	require.True(t, ok)
	assert.Equal(t, int64(102), p.Batter1ID)
	assert.Zero(t, p.Batter2ID, "incoming batter not named yet")

	r.striker = 107
	r.runs(2)

	p, _ = s.CurrentPartnership()
	assert.Equal(t, int64(107), p.Batter2ID)
	assert.Equal(t, 2, p.Batter2Runs)
	assert.Equal(t, 3, s.Performances[107].BattingPosition)
}

func TestState_BatterChecks(t *testing.T) {
	s := createTestState(t, 20)
	r := newRunner(t, s, 100, 210, 211)
	r.bowled()

	_, _, err := s.Apply(r.fill(DeliveryInput{BatsmanID: 101}))
	assert.True(t, IsValidation(err), "dismissed batter cannot return")

	_, _, err = s.Apply(r.fill(DeliveryInput{BatsmanID: 103, NonStrikerID: 104}))
	assert.True(t, IsValidation(err), "102 is still at the crease")

	_, _, err = s.Apply(r.fill(DeliveryInput{BatsmanID: 103, NonStrikerID: 102, BowlerID: 101}))
	assert.True(t, IsValidation(err), "batting side cannot bowl")

	_, _, err = s.Apply(r.fill(DeliveryInput{BatsmanID: 210}))
	assert.True(t, IsValidation(err), "fielding side cannot bat")
}

func TestState_BowlerChecks(t *testing.T) {
	s := createTestState(t, 20)
	r := newRunner(t, s, 100, 210, 211)
	r.runs(0)

	_, _, err := s.Apply(r.fill(DeliveryInput{BowlerID: 211}))
	assert.True(t, IsValidation(err), "bowler cannot change mid-over")

	r.repeat(5, 0)
	_, _, err = s.Apply(r.fill(DeliveryInput{BowlerID: 210}))
	assert.True(t, IsValidation(err), "consecutive overs")

	assert.Equal(t, 1, s.Performances[210].Maidens)
}

func TestState_Apply_ErrorLeavesStateUnchanged(t *testing.T) {
	s := createTestState(t, 20)
	r := newRunner(t, s, 100, 210, 211)
	r.runs(3)
	before := NewState(s.Match, s.Partnerships, s.PerformanceList())

	_, _, err := s.Apply(r.fill(DeliveryInput{ExtrasType: ExtrasWide, Extras: 1, IsWicket: true, DismissalType: DismissalCaught, FielderID: 205}))
	require.Error(t, err)

	assert.Equal(t, before.Match, s.Match)
	assert.Equal(t, before.Partnerships, s.Partnerships)
	assert.Equal(t, before.PerformanceList(), s.PerformanceList())
}

func TestState_Apply_ChangedRows(t *testing.T) {
	s := createTestState(t, 20)
	r := newRunner(t, s, 100, 210, 211)

	_, out := r.ball(DeliveryInput{RunsScored: 1})

	ids := make([]int64, 0, len(out.ChangedPerformances))
	for _, p := range out.ChangedPerformances {
		ids = append(ids, p.PlayerID)
	}
	assert.Equal(t, []int64{101, 102, 210}, ids)
	require.Len(t, out.ChangedPartnerships, 1)
	assert.Equal(t, 1, out.ChangedPartnerships[0].Runs)
}

func TestState_DeliveryID_Deterministic(t *testing.T) {
	play := func() Delivery {
		s := createTestState(t, 20)
		r := newRunner(t, s, 100, 210, 211)
		d, _ := r.ball(DeliveryInput{RunsScored: 4})
		return d
	}
	a, b := play(), play()
	assert.Equal(t, a.ID, b.ID)
	assert.Len(t, a.ID, 64)
}

func TestState_Abandon(t *testing.T) {
	s := createTestState(t, 20)
	r := newRunner(t, s, 100, 210, 211)
	r.runs(4)

	out, err := s.Abandon("rain")
	require.NoError(t, err)

	assert.True(t, out.Completed)
	assert.Equal(t, 1, out.InningsClosed)
	m := s.Match
	assert.Equal(t, StatusCompleted, m.Status)
	assert.Equal(t, ResultNoResult, m.ResultType)
	assert.Equal(t, "No result", m.Result)
	assert.Equal(t, "rain", m.AbandonReason)
	assert.Zero(t, m.WinnerID)
	_, ok := s.CurrentPartnership()
	assert.False(t, ok)

	_, err = s.Abandon("again")
	assert.True(t, IsInvalidState(err))
}
