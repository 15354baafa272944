package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/roach88/scorebook/internal/scoring"
)

// Player renders a player id. Players are opaque ids owned by the caller.
func Player(id int64) string {
	if id == 0 {
		return "-"
	}
	return fmt.Sprintf("#%d", id)
}

// Score renders an innings total as "runs/wickets (overs ov)", or "all out"
// style "runs (overs ov)" once ten wickets have fallen.
func Score(inn scoring.Innings) string {
	if inn.Wickets >= scoring.MaxWickets {
		return fmt.Sprintf("%d (%s ov)", inn.Runs, inn.Overs())
	}
	return fmt.Sprintf("%d/%d (%s ov)", inn.Runs, inn.Wickets, inn.Overs())
}

// Headline renders the one-line summary of a match.
func Headline(m scoring.Match) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s v %s", m.Team1.DisplayName(), m.Team2.DisplayName())
	if m.Venue != "" {
		fmt.Fprintf(&b, ", %s", m.Venue)
	}
	fmt.Fprintf(&b, " (%d overs)", m.TotalOvers)
	return b.String()
}

// StatusLine describes where the match stands.
func StatusLine(m scoring.Match) string {
	switch {
	case m.Result != "":
		return m.Result
	case m.Status == scoring.StatusUpcoming:
		return "Match yet to start"
	case m.Status == scoring.StatusToss:
		winner, _ := m.Team(m.TossWinnerID)
		return fmt.Sprintf("%s won the toss and chose to %s", winner.DisplayName(), m.TossDecision)
	case m.CurrentInnings == 2 && m.Target() > 0:
		inn := m.Innings[1]
		team, _ := m.Team(inn.BattingTeamID)
		need := m.Target() - inn.Runs
		left := m.TotalOvers*scoring.BallsPerOver - inn.LegalBalls
		return fmt.Sprintf("%s need %d from %d balls", team.DisplayName(), need, left)
	default:
		inn := m.Innings[0]
		team, _ := m.Team(inn.BattingTeamID)
		return fmt.Sprintf("%s batting, run rate %.2f", team.DisplayName(), scoring.RunRate(inn.Runs, inn.LegalBalls))
	}
}

// Dismissal describes how a batter's innings ended.
func Dismissal(p scoring.Performance) string {
	if p.RetiredHurt && !p.IsOut {
		return "retired hurt"
	}
	if !p.IsOut {
		return "not out"
	}
	bowler, fielder := Player(p.DismissedByID), Player(p.DismissalFielderID)
	switch p.DismissalType {
	case scoring.DismissalBowled:
		return "b " + bowler
	case scoring.DismissalCaught:
		if p.DismissalFielderID == 0 || p.DismissalFielderID == p.DismissedByID {
			return "c & b " + bowler
		}
		return fmt.Sprintf("c %s b %s", fielder, bowler)
	case scoring.DismissalLBW:
		return "lbw b " + bowler
	case scoring.DismissalStumped:
		return fmt.Sprintf("st %s b %s", fielder, bowler)
	case scoring.DismissalHitWicket:
		return "hit wicket b " + bowler
	case scoring.DismissalRunOut:
		if p.DismissalFielderID == 0 {
			return "run out"
		}
		return fmt.Sprintf("run out (%s)", fielder)
	default:
		return strings.ReplaceAll(string(p.DismissalType), "_", " ")
	}
}

// Scorecard renders the full card: headline, status, and for every innings
// that has begun the batting, bowling and partnership tables.
func Scorecard(sc scoring.Scorecard) string {
	m := sc.Match
	var b strings.Builder
	b.WriteString(Headline(m))
	b.WriteString("\n")
	b.WriteString(StatusLine(m))
	b.WriteString("\n")
	if m.PlayerOfMatchID != 0 {
		fmt.Fprintf(&b, "Player of the match: %s\n", Player(m.PlayerOfMatchID))
	}
	if m.AbandonReason != "" {
		fmt.Fprintf(&b, "Abandoned: %s\n", m.AbandonReason)
	}

	for _, inn := range m.Innings {
		if inn.Number == 0 || !inn.Started() {
			continue
		}
		team, _ := m.Team(inn.BattingTeamID)
		fmt.Fprintf(&b, "\n%s innings: %s\n", team.DisplayName(), Score(inn))
		if inn.Target > 0 {
			fmt.Fprintf(&b, "Target %d\n", inn.Target)
		}
		b.WriteString(battingTable(inn, sc.Performances))
		b.WriteString("\n")
		b.WriteString(bowlingTable(inn, sc.Performances))
		b.WriteString("\n")
		if p := partnershipTable(scoring.InningsPartnerships(sc.Partnerships, inn.Number)); p != "" {
			b.WriteString(p)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func battingTable(inn scoring.Innings, perfs []scoring.Performance) string {
	var batters []scoring.Performance
	for _, p := range perfs {
		if p.TeamID == inn.BattingTeamID && p.Batted {
			batters = append(batters, p)
		}
	}
	sort.SliceStable(batters, func(i, j int) bool {
		return batters[i].BattingPosition < batters[j].BattingPosition
	})

	tbl := newTable()
	tbl.AppendHeader(table.Row{"Batter", "Dismissal", "R", "B", "4s", "6s", "SR"})
	for _, p := range batters {
		tbl.AppendRow(table.Row{
			Player(p.PlayerID), Dismissal(p),
			p.Runs, p.BallsFaced, p.Fours, p.Sixes,
			fmt.Sprintf("%.2f", p.StrikeRate()),
		})
	}
	tbl.AppendFooter(table.Row{"Extras", "", inn.Extras})
	tbl.AppendFooter(table.Row{"Total", Score(inn), inn.Runs})
	tbl.SetColumnConfigs(numericColumns(3, 7))
	return tbl.Render()
}

func bowlingTable(inn scoring.Innings, perfs []scoring.Performance) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Bowler", "O", "M", "R", "W", "Econ", "Wd", "NB"})
	for _, p := range perfs {
		if p.TeamID != inn.BowlingTeamID || !p.Bowled() {
			continue
		}
		tbl.AppendRow(table.Row{
			Player(p.PlayerID), p.OversBowled().String(),
			p.Maidens, p.RunsConceded, p.Wickets,
			fmt.Sprintf("%.2f", p.Economy()),
			p.Wides, p.NoBalls,
		})
	}
	tbl.SetColumnConfigs(numericColumns(2, 8))
	return tbl.Render()
}

func partnershipTable(parts []scoring.Partnership) string {
	if len(parts) == 0 {
		return ""
	}
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Stand", "Batters", "Runs", "Balls", "Overs"})
	for _, p := range parts {
		stand := WicketLabel(p.Wicket)
		if p.IsCurrent {
			stand += " *"
		}
		tbl.AppendRow(table.Row{
			stand,
			fmt.Sprintf("%s (%d) & %s (%d)", Player(p.Batter1ID), p.Batter1Runs, Player(p.Batter2ID), p.Batter2Runs),
			p.Runs, p.Balls,
			fmt.Sprintf("%s-%s", p.StartOver(), p.EndOver()),
		})
	}
	tbl.SetColumnConfigs(numericColumns(3, 4))
	return tbl.Render()
}

// WicketLabel names a partnership by the wicket it was for, e.g. "3rd wicket".
func WicketLabel(wicket int) string {
	return humanize.Ordinal(wicket) + " wicket"
}

// numericColumns right-aligns the columns numbered from..to (1-based).
func numericColumns(from, to int) []table.ColumnConfig {
	cfgs := make([]table.ColumnConfig, 0, to-from+1)
	for n := from; n <= to; n++ {
		cfgs = append(cfgs, table.ColumnConfig{Number: n, Align: text.AlignRight})
	}
	return cfgs
}

// newTable returns a light-style table whose footer keeps its case.
func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Format.Footer = text.FormatDefault
	return tbl
}
