package stats

import (
	"fmt"
	"time"

	"github.com/roach88/scorebook/internal/scoring"
)

// PlayerStats is a player's career record.
type PlayerStats struct {
	PlayerID int64 `json:"player_id"`

	Matches       int  `json:"matches"`
	Innings       int  `json:"innings"`
	NotOuts       int  `json:"not_outs"`
	TotalRuns     int  `json:"total_runs"`
	BallsFaced    int  `json:"balls_faced"`
	HighestScore  int  `json:"highest_score"`
	HighestNotOut bool `json:"highest_not_out"`
	Fifties       int  `json:"fifties"`
	Hundreds      int  `json:"hundreds"`
	Fours         int  `json:"fours"`
	Sixes         int  `json:"sixes"`

	BallsBowled        int  `json:"balls_bowled"`
	RunsConceded       int  `json:"runs_conceded"`
	Wickets            int  `json:"wickets"`
	Maidens            int  `json:"maidens"`
	HasBestBowling     bool `json:"-"`
	BestBowlingWickets int  `json:"best_bowling_wickets"`
	BestBowlingRuns    int  `json:"best_bowling_runs"`

	Catches   int `json:"catches"`
	RunOuts   int `json:"run_outs"`
	Stumpings int `json:"stumpings"`

	PlayerOfMatchAwards int `json:"player_of_match_awards"`

	// Derived from the totals by Recompute. BattingAverage is nil until the
	// player has been dismissed at least once.
	BattingAverage    *float64 `json:"batting_average"`
	StrikeRate        float64  `json:"strike_rate"`
	BowlingAverage    float64  `json:"bowling_average"`
	Economy           float64  `json:"economy"`
	BowlingStrikeRate float64  `json:"bowling_strike_rate"`

	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Dismissals returns the number of completed innings.
func (s PlayerStats) Dismissals() int {
	return s.Innings - s.NotOuts
}

// HighestScoreLabel renders the highest score, e.g. "87*".
func (s PlayerStats) HighestScoreLabel() string {
	if s.Innings == 0 {
		return "-"
	}
	if s.HighestNotOut {
		return fmt.Sprintf("%d*", s.HighestScore)
	}
	return fmt.Sprintf("%d", s.HighestScore)
}

// BestBowling renders best figures as wickets/runs, e.g. "3/15".
func (s PlayerStats) BestBowling() string {
	if !s.HasBestBowling {
		return "-"
	}
	return fmt.Sprintf("%d/%d", s.BestBowlingWickets, s.BestBowlingRuns)
}

// OversBowled returns career legal balls in overs notation.
func (s PlayerStats) OversBowled() scoring.Overs {
	return scoring.OversFromBalls(s.BallsBowled)
}

// Fold adds one match performance to the career totals and recomputes the
// derived fields. It does not guard against folding the same match twice;
// Aggregate does.
func Fold(s *PlayerStats, p scoring.Performance) {
	s.Matches++

	if p.Batted {
		s.Innings++
		notOut := !p.IsOut
		if notOut {
			s.NotOuts++
		}
		if p.Runs > s.HighestScore || (p.Runs == s.HighestScore && notOut && !s.HighestNotOut) {
			s.HighestScore = p.Runs
			s.HighestNotOut = notOut
		}
	}
	s.TotalRuns += p.Runs
	s.BallsFaced += p.BallsFaced
	s.Fours += p.Fours
	s.Sixes += p.Sixes
	switch {
	case p.Runs >= 100:
		s.Hundreds++
	case p.Runs >= 50:
		s.Fifties++
	}

	s.BallsBowled += p.BallsBowled
	s.RunsConceded += p.RunsConceded
	s.Wickets += p.Wickets
	s.Maidens += p.Maidens
	if p.Bowled() && betterFigures(p.Wickets, p.RunsConceded, *s) {
		s.HasBestBowling = true
		s.BestBowlingWickets = p.Wickets
		s.BestBowlingRuns = p.RunsConceded
	}

	s.Catches += p.Catches
	s.RunOuts += p.RunOuts
	s.Stumpings += p.Stumpings
	if p.PlayerOfMatch {
		s.PlayerOfMatchAwards++
	}

	s.Recompute()
}

// betterFigures reports whether wickets/runs beats the current best:
// more wickets, or as many wickets for fewer runs.
func betterFigures(wickets, runs int, s PlayerStats) bool {
	if !s.HasBestBowling {
		return true
	}
	if wickets != s.BestBowlingWickets {
		return wickets > s.BestBowlingWickets
	}
	return runs < s.BestBowlingRuns
}

// Recompute derives the averages and rates from the running totals.
func (s *PlayerStats) Recompute() {
	s.BattingAverage = nil
	if d := s.Dismissals(); d > 0 {
		avg := round2(float64(s.TotalRuns) / float64(d))
		s.BattingAverage = &avg
	}

	s.StrikeRate = 0
	if s.BallsFaced > 0 {
		s.StrikeRate = round2(float64(s.TotalRuns) * 100 / float64(s.BallsFaced))
	}

	s.BowlingAverage, s.BowlingStrikeRate = 0, 0
	if s.Wickets > 0 {
		s.BowlingAverage = round2(float64(s.RunsConceded) / float64(s.Wickets))
		s.BowlingStrikeRate = round2(float64(s.BallsBowled) / float64(s.Wickets))
	}
	s.Economy = round2(scoring.RunRate(s.RunsConceded, s.BallsBowled))
}
