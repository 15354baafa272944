package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scorebook/internal/scoring"
)

func bowling(wickets, runs int) scoring.Performance {
	return scoring.Performance{PlayerID: 7, BallsBowled: 24, Wickets: wickets, RunsConceded: runs}
}

func TestFold_BestBowling(t *testing.T) {
	var s PlayerStats
	assert.Equal(t, "-", s.BestBowling())

	Fold(&s, bowling(3, 20))
	assert.Equal(t, "3/20", s.BestBowling())

	Fold(&s, bowling(3, 15))
	assert.Equal(t, "3/15", s.BestBowling(), "same wickets, fewer runs")

	Fold(&s, bowling(2, 10))
	assert.Equal(t, "3/15", s.BestBowling(), "fewer wickets never replace")

	Fold(&s, bowling(4, 40))
	assert.Equal(t, "4/40", s.BestBowling())
}

func TestFold_BestBowlingOnlyWhenBowled(t *testing.T) {
	var s PlayerStats
	Fold(&s, scoring.Performance{PlayerID: 7, Batted: true, Runs: 12})
	assert.False(t, s.HasBestBowling)
	assert.Equal(t, "-", s.BestBowling())
}

func TestFold_Counts(t *testing.T) {
	var s PlayerStats

	Fold(&s, scoring.Performance{Batted: true, Runs: 55, BallsFaced: 40, IsOut: true, Fours: 6, Sixes: 1})
	assert.Equal(t, 1, s.Matches)
	assert.Equal(t, 1, s.Innings)
	assert.Equal(t, 0, s.NotOuts)
	assert.Equal(t, 1, s.Fifties)

	Fold(&s, scoring.Performance{Batted: true, Runs: 100, BallsFaced: 60})
	assert.Equal(t, 2, s.Matches)
	assert.Equal(t, 1, s.NotOuts)
	assert.Equal(t, 1, s.Hundreds)
	assert.Equal(t, 1, s.Fifties)
	assert.Equal(t, "100*", s.HighestScoreLabel())

	Fold(&s, scoring.Performance{})
	assert.Equal(t, 3, s.Matches, "did not bat still counts as a match")
	assert.Equal(t, 2, s.Innings)

	assert.Equal(t, 155, s.TotalRuns)
	assert.Equal(t, 155.0, *s.BattingAverage)
	assert.Equal(t, 155.0, s.StrikeRate)
}

func TestFold_BattingAverageUndefinedUntilDismissed(t *testing.T) {
	var s PlayerStats

	Fold(&s, scoring.Performance{Batted: true, Runs: 30, BallsFaced: 20})
	assert.Nil(t, s.BattingAverage)

	Fold(&s, scoring.Performance{Batted: true, Runs: 10, BallsFaced: 20, IsOut: true})
	require.NotNil(t, s.BattingAverage)
	assert.Equal(t, 40.0, *s.BattingAverage)
	assert.Equal(t, 100.0, s.StrikeRate)
}

func TestFold_BowlingRates(t *testing.T) {
	var s PlayerStats
	Fold(&s, scoring.Performance{BallsBowled: 24, RunsConceded: 30, Wickets: 2, Maidens: 1})
	Fold(&s, scoring.Performance{BallsBowled: 12, RunsConceded: 15, Wickets: 1})

	assert.Equal(t, 15.0, s.BowlingAverage)
	assert.Equal(t, 7.5, s.Economy)
	assert.Equal(t, 12.0, s.BowlingStrikeRate)
	assert.Equal(t, "6.0", s.OversBowled().String())
	assert.Equal(t, 1, s.Maidens)
}

func TestFold_BowlingAverageZeroWithoutWickets(t *testing.T) {
	var s PlayerStats
	Fold(&s, scoring.Performance{BallsBowled: 6, RunsConceded: 12})
	assert.Zero(t, s.BowlingAverage)
	assert.Equal(t, 12.0, s.Economy)
}

func TestFold_FieldingAndAwards(t *testing.T) {
	var s PlayerStats
	Fold(&s, scoring.Performance{Catches: 2, RunOuts: 1, PlayerOfMatch: true})
	Fold(&s, scoring.Performance{Stumpings: 1})
	assert.Equal(t, 2, s.Catches)
	assert.Equal(t, 1, s.RunOuts)
	assert.Equal(t, 1, s.Stumpings)
	assert.Equal(t, 1, s.PlayerOfMatchAwards)
}

func TestHighestScore_OutVersusNotOut(t *testing.T) {
	var s PlayerStats
	Fold(&s, scoring.Performance{Batted: true, Runs: 40, IsOut: true})
	Fold(&s, scoring.Performance{Batted: true, Runs: 40})
	assert.Equal(t, "40*", s.HighestScoreLabel())
	Fold(&s, scoring.Performance{Batted: true, Runs: 39})
	assert.Equal(t, "40*", s.HighestScoreLabel())
}
