package scoring

import (
	"fmt"
	"math"
)

// decideResult commits the winner, result text and margin once the second
// innings has ended. It is called exactly once per match.
func (s *State) decideResult() {
	m := &s.Match
	first, second := m.Innings[0], m.Innings[1]
	m.Status = StatusCompleted

	switch {
	case second.Runs > first.Runs:
		m.WinnerID = second.BattingTeamID
		m.ResultType = ResultWonByWickets
		m.Margin = MaxWickets - second.Wickets
		m.Result = fmt.Sprintf("%s won by %s", s.teamName(m.WinnerID), plural(m.Margin, "wicket"))
	case first.Runs > second.Runs:
		m.WinnerID = first.BattingTeamID
		m.ResultType = ResultWonByRuns
		m.Margin = first.Runs - second.Runs
		m.Result = fmt.Sprintf("%s won by %s", s.teamName(m.WinnerID), plural(m.Margin, "run"))
	default:
		m.WinnerID = 0
		m.ResultType = ResultTie
		m.Margin = 0
		m.Result = "Match tied"
	}
}

func (s *State) teamName(id int64) string {
	t, _ := s.Match.Team(id)
	return t.DisplayName()
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Impact scores a performance for the player of the match award.
func Impact(p Performance) int {
	return p.Runs + 20*p.Wickets + 10*p.FieldingDismissals()
}

// awardPlayerOfMatch picks the highest impact on the winning side (or on
// either side after a tie), lowest player id on equal impact.
func (s *State) awardPlayerOfMatch() {
	m := &s.Match
	var best *Performance
	bestImpact := math.MinInt
	for _, p := range s.PerformanceList() {
		if m.WinnerID != 0 && p.TeamID != m.WinnerID {
			continue
		}
		if impact := Impact(p); impact > bestImpact {
			best, bestImpact = s.Performances[p.PlayerID], impact
		}
	}
	if best == nil {
		return
	}
	best.PlayerOfMatch = true
	m.PlayerOfMatchID = best.PlayerID
	s.touchedPlayers[best.PlayerID] = true
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
