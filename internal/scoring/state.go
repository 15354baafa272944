package scoring

import (
	"fmt"
	"slices"

	"github.com/roach88/scorebook/internal/canon"
)

// State is the in-memory view of one match: the header, its partnerships
// and the performances of every player who has taken part so far.
//
// State is not safe for concurrent use. The engine loads one per unit of
// work under the match lock.
type State struct {
	Match        Match
	Partnerships []Partnership
	Performances map[int64]*Performance

	touchedPlayers      map[int64]bool
	touchedPartnerships map[[2]int]bool
}

// Outcome describes what one Apply or Abandon changed, so the caller can
// persist exactly those rows and publish the right events.
type Outcome struct {
	// Started is set when the delivery moved the match from toss to live.
	Started bool

	// InningsClosed is the innings number that ended on this delivery, 0 if none.
	InningsClosed int

	// Completed is set when the match reached a terminal state.
	Completed bool

	ChangedPerformances []Performance
	ChangedPartnerships []Partnership
}

// NewState assembles a State from stored rows.
func NewState(m Match, partnerships []Partnership, performances []Performance) *State {
	s := &State{
		Match:        m,
		Partnerships: slices.Clone(partnerships),
		Performances: make(map[int64]*Performance, len(performances)),
	}
	for i := range performances {
		p := performances[i]
		s.Performances[p.PlayerID] = &p
	}
	s.resetTouched()
	return s
}

// NewMatchState returns the State of a freshly created match.
func NewMatchState(id int64, nm NewMatch) *State {
	return NewState(Match{
		ID:          id,
		Team1:       nm.Team1,
		Team2:       nm.Team2,
		TotalOvers:  nm.TotalOvers,
		Venue:       nm.Venue,
		ScheduledAt: nm.ScheduledAt,
		Status:      StatusUpcoming,
	}, nil, nil)
}

func (s *State) resetTouched() {
	s.touchedPlayers = make(map[int64]bool)
	s.touchedPartnerships = make(map[[2]int]bool)
}

// Toss records the toss and assigns the batting order of both innings.
func (s *State) Toss(winnerID int64, decision TossDecision) error {
	m := &s.Match
	if m.Status != StatusUpcoming {
		return NewInvalidStateError(m.ID, m.Status, "record toss")
	}
	if _, ok := m.Team(winnerID); !ok {
		return NewValidationError(m.ID, "winner_team_id", "team %d is not playing in this match", winnerID)
	}

	var battingFirst int64
	switch decision {
	case DecisionBat:
		battingFirst = winnerID
	case DecisionBowl:
		battingFirst = m.Opponent(winnerID)
	default:
		return NewValidationError(m.ID, "decision", "toss decision must be bat or bowl, got %q", decision)
	}
	bowlingFirst := m.Opponent(battingFirst)

	m.TossWinnerID = winnerID
	m.TossDecision = decision
	m.Innings[0] = Innings{Number: 1, BattingTeamID: battingFirst, BowlingTeamID: bowlingFirst}
	m.Innings[1] = Innings{Number: 2, BattingTeamID: bowlingFirst, BowlingTeamID: battingFirst}
	m.Status = StatusToss
	return nil
}

// Expected returns the innings, over and ball the next delivery must carry.
// ok is false when the match does not accept deliveries.
func (s *State) Expected() (innings, over, ball int, ok bool) {
	m := &s.Match
	switch m.Status {
	case StatusToss:
		innings = 1
	case StatusLive:
		innings = m.CurrentInnings
	default:
		return 0, 0, 0, false
	}
	inn := m.Innings[innings-1]
	return innings, inn.LegalBalls / BallsPerOver, inn.LegalBalls%BallsPerOver + 1, true
}

// Apply validates one delivery against the match and, if it is accepted,
// folds it into the innings, partnership and performance figures.
//
// On error the State is unchanged.
func (s *State) Apply(in DeliveryInput) (Delivery, Outcome, error) {
	m := &s.Match
	d := in.Normalized()

	if err := s.check(d); err != nil {
		return Delivery{}, Outcome{}, err
	}

	del := Delivery{MatchID: m.ID, Seq: m.DeliveryCount + 1, DeliveryInput: d}
	id, err := canon.DeliveryID(del.identity())
	if err != nil {
		return Delivery{}, Outcome{}, fmt.Errorf("delivery id: %w", err)
	}
	del.ID = id

	s.resetTouched()
	var out Outcome

	if m.Status == StatusToss {
		m.Status = StatusLive
		m.CurrentInnings = 1
		out.Started = true
	}
	m.DeliveryCount++
	inn := &m.Innings[m.CurrentInnings-1]

	s.seatBatters(inn, d)
	s.creditPerformances(inn, d)

	inn.Runs += d.TotalRuns()
	inn.Extras += d.Extras
	if d.IsLegal() {
		inn.LegalBalls++
	}
	wicket := countsAsWicket(d)
	if wicket {
		inn.Wickets++
	}
	s.creditPartnership(inn, d)

	inn.OverRuns += chargedRuns(d)
	inn.OverDeliveries++
	inn.BowlerID = d.BowlerID
	if d.IsLegal() && inn.LegalBalls%BallsPerOver == 0 {
		s.completeOver(inn)
	}

	s.advance(inn, d, wicket, &out)

	out.ChangedPerformances = s.changedPerformances()
	out.ChangedPartnerships = s.changedPartnerships()
	return del, out, nil
}

// check runs every validation for d without mutating anything.
func (s *State) check(d DeliveryInput) error {
	m := &s.Match
	if m.Status != StatusToss && m.Status != StatusLive {
		return NewInvalidStateError(m.ID, m.Status, "record delivery")
	}
	if err := ValidateInput(m.ID, d); err != nil {
		return err
	}

	innings, over, ball, _ := s.Expected()
	if d.Innings != innings || d.OverNumber != over || d.BallNumber != ball {
		return NewSequenceError(m.ID,
			position(innings, over, ball), position(d.Innings, d.OverNumber, d.BallNumber))
	}
	inn := m.Innings[innings-1]

	if inn.OverDeliveries > 0 && d.BowlerID != inn.BowlerID {
		return NewValidationError(m.ID, "bowler_id", "bowler %d cannot take over mid-over from %d", d.BowlerID, inn.BowlerID)
	}
	if inn.OverDeliveries == 0 && inn.LastOverBowlerID != 0 && d.BowlerID == inn.LastOverBowlerID {
		return NewValidationError(m.ID, "bowler_id", "bowler %d cannot bowl consecutive overs", d.BowlerID)
	}

	for _, id := range []int64{d.BatsmanID, d.NonStrikerID, d.IncomingBatsmanID} {
		if err := s.checkBatter(inn, id); err != nil {
			return err
		}
	}
	for _, id := range []int64{d.BowlerID, d.FielderID} {
		if err := s.checkFielder(inn, id); err != nil {
			return err
		}
	}
	return s.checkPair(inn, d)
}

func (s *State) checkBatter(inn Innings, id int64) error {
	if id == 0 {
		return nil
	}
	p, ok := s.Performances[id]
	if !ok {
		return nil
	}
	if p.TeamID != inn.BattingTeamID {
		return NewValidationError(s.Match.ID, "batsman_id", "player %d does not bat for team %d", id, inn.BattingTeamID)
	}
	if p.IsOut {
		return NewValidationError(s.Match.ID, "batsman_id", "player %d is already out", id)
	}
	return nil
}

func (s *State) checkFielder(inn Innings, id int64) error {
	if id == 0 {
		return nil
	}
	if p, ok := s.Performances[id]; ok && p.TeamID != inn.BowlingTeamID {
		return NewValidationError(s.Match.ID, "bowler_id", "player %d does not field for team %d", id, inn.BowlingTeamID)
	}
	return nil
}

// checkPair verifies the striker and non-striker are the batters of the
// current partnership, or fill its open slot.
func (s *State) checkPair(inn Innings, d DeliveryInput) error {
	i := s.currentPartnership(inn.Number)
	if i < 0 {
		return nil
	}
	p := s.Partnerships[i]
	pair := []int64{d.BatsmanID, d.NonStrikerID}
	for _, slot := range []int64{p.Batter1ID, p.Batter2ID} {
		if slot != 0 && !slices.Contains(pair, slot) {
			return NewValidationError(s.Match.ID, "batsman_id",
				"batter %d is at the crease, got %d and %d", slot, d.BatsmanID, d.NonStrikerID)
		}
	}
	return nil
}

// advance handles the consequences of a delivery once the figures are in:
// the next partnership, the end of an innings and the end of the match.
func (s *State) advance(inn *Innings, d DeliveryInput, wicket bool, out *Outcome) {
	m := &s.Match

	inningsOver := inn.LegalBalls >= m.TotalOvers*BallsPerOver || inn.Wickets >= MaxWickets
	chaseWon := inn.Number == 2 && inn.Runs > m.Innings[0].Runs

	var survivor int64
	if wicket {
		survivor = s.breakPartnership(inn, d.PlayerOutID)
	} else if d.IsWicket && d.DismissalType == DismissalRetiredHurt {
		s.retireBatter(inn, d.PlayerOutID, d.IncomingBatsmanID)
	}

	if !inningsOver && !chaseWon {
		if wicket {
			s.openPartnership(inn, survivor, d.IncomingBatsmanID)
		}
		return
	}

	s.closeInnings(inn)
	out.InningsClosed = inn.Number
	if inn.Number == 1 {
		m.Innings[1].Target = inn.Runs + 1
		m.CurrentInnings = 2
		return
	}

	s.decideResult()
	s.awardPlayerOfMatch()
	out.Completed = true
}

func (s *State) completeOver(inn *Innings) {
	if inn.OverRuns == 0 {
		if p, ok := s.Performances[inn.BowlerID]; ok {
			p.Maidens++
			s.touchedPlayers[p.PlayerID] = true
		}
	}
	inn.LastOverBowlerID = inn.BowlerID
	inn.OverRuns = 0
	inn.OverDeliveries = 0
}

// closeInnings marks an innings finished and ends its partnership.
func (s *State) closeInnings(inn *Innings) {
	inn.Closed = true
	inn.OverRuns = 0
	inn.OverDeliveries = 0
	if i := s.currentPartnership(inn.Number); i >= 0 {
		s.endPartnership(i, inn.LegalBalls)
	}
}

// Abandon ends a match that cannot be finished as a no result.
func (s *State) Abandon(reason string) (Outcome, error) {
	m := &s.Match
	switch m.Status {
	case StatusUpcoming, StatusToss, StatusLive:
	default:
		return Outcome{}, NewInvalidStateError(m.ID, m.Status, "abandon")
	}

	s.resetTouched()
	var out Outcome
	if inn := m.Active(); inn != nil {
		s.closeInnings(inn)
		out.InningsClosed = inn.Number
	}
	m.Status = StatusCompleted
	m.WinnerID = 0
	m.Result = "No result"
	m.ResultType = ResultNoResult
	m.Margin = 0
	m.AbandonReason = reason
	out.Completed = true
	out.ChangedPartnerships = s.changedPartnerships()
	return out, nil
}

// PerformanceList returns every performance ordered by player id.
func (s *State) PerformanceList() []Performance {
	ids := make([]int64, 0, len(s.Performances))
	for id := range s.Performances {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]Performance, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.Performances[id])
	}
	return out
}

// CurrentPartnership returns the partnership at the crease, if any.
func (s *State) CurrentPartnership() (Partnership, bool) {
	if s.Match.CurrentInnings == 0 {
		return Partnership{}, false
	}
	i := s.currentPartnership(s.Match.CurrentInnings)
	if i < 0 {
		return Partnership{}, false
	}
	return s.Partnerships[i], true
}

func (s *State) changedPerformances() []Performance {
	var out []Performance
	for _, p := range s.PerformanceList() {
		if s.touchedPlayers[p.PlayerID] {
			out = append(out, p)
		}
	}
	return out
}

func (s *State) changedPartnerships() []Partnership {
	var out []Partnership
	for _, p := range s.Partnerships {
		if s.touchedPartnerships[[2]int{p.Innings, p.Wicket}] {
			out = append(out, p)
		}
	}
	return out
}

func position(innings, over, ball int) string {
	return fmt.Sprintf("innings %d %d.%d", innings, over, ball)
}
