package render

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/roach88/scorebook/internal/stats"
)

// PlayerStats renders a player's career record as batting, bowling and
// fielding tables.
func PlayerStats(s stats.PlayerStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Player %s: %s, %s player of the match\n",
		Player(s.PlayerID),
		plural(s.Matches, "match", "matches"),
		plural(s.PlayerOfMatchAwards, "award", "awards"),
	)

	avg := "-"
	if s.BattingAverage != nil {
		avg = fmt.Sprintf("%.2f", *s.BattingAverage)
	}
	bat := newTable()
	bat.SetTitle("Batting")
	bat.AppendHeader(table.Row{"Inns", "NO", "Runs", "HS", "Avg", "BF", "SR", "50s", "100s", "4s", "6s"})
	bat.AppendRow(table.Row{
		s.Innings, s.NotOuts, humanize.Comma(int64(s.TotalRuns)), s.HighestScoreLabel(),
		avg, humanize.Comma(int64(s.BallsFaced)), fmt.Sprintf("%.2f", s.StrikeRate),
		s.Fifties, s.Hundreds, s.Fours, s.Sixes,
	})
	b.WriteString(bat.Render())
	b.WriteString("\n")

	bowl := newTable()
	bowl.SetTitle("Bowling")
	bowl.AppendHeader(table.Row{"O", "M", "R", "W", "BBI", "Avg", "Econ", "SR"})
	bowl.AppendRow(table.Row{
		s.OversBowled().String(), s.Maidens, humanize.Comma(int64(s.RunsConceded)), s.Wickets,
		s.BestBowling(),
		fmt.Sprintf("%.2f", s.BowlingAverage),
		fmt.Sprintf("%.2f", s.Economy),
		fmt.Sprintf("%.2f", s.BowlingStrikeRate),
	})
	b.WriteString(bowl.Render())
	b.WriteString("\n")

	fmt.Fprintf(&b, "Fielding: %d ct, %d run outs, %d st\n", s.Catches, s.RunOuts, s.Stumpings)
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return humanize.Comma(int64(n)) + " " + many
}
