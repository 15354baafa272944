package render

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/roach88/scorebook/internal/engine"
	"github.com/roach88/scorebook/internal/scoring"
)

// MatchList renders one row per match.
func MatchList(matches []scoring.Match) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"ID", "Match", "Status", "1st innings", "2nd innings", "Result"})
	for _, m := range matches {
		tbl.AppendRow(table.Row{
			m.ID,
			fmt.Sprintf("%s v %s", m.Team1.DisplayName(), m.Team2.DisplayName()),
			m.Status,
			inningsCell(m, 0),
			inningsCell(m, 1),
			m.Result,
		})
	}
	tbl.AppendFooter(table.Row{"", plural(len(matches), "match", "matches")})
	return tbl.Render()
}

func inningsCell(m scoring.Match, i int) string {
	inn := m.Innings[i]
	if inn.Number == 0 || !inn.Started() {
		return ""
	}
	team, _ := m.Team(inn.BattingTeamID)
	return team.DisplayName() + " " + Score(inn)
}

// Match renders a match summary: headline, innings scores and status.
func Match(m scoring.Match) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Match %d: %s\n", m.ID, Headline(m))
	for i := range m.Innings {
		if cell := inningsCell(m, i); cell != "" {
			fmt.Fprintf(&b, "  %s\n", cell)
		}
	}
	b.WriteString(StatusLine(m))
	return b.String()
}

// Delivery renders one recorded delivery as a commentary-style line.
func Delivery(res engine.DeliveryResult) string {
	d, m := res.Delivery, res.Match
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s to %s, %s", d.Label(), Player(d.BowlerID), Player(d.BatsmanID), deliveryText(d.DeliveryInput))
	inn := m.Innings[d.Innings-1]
	fmt.Fprintf(&b, " | %s", Score(inn))
	if res.InningsClosed != 0 {
		fmt.Fprintf(&b, "\nEnd of innings %d", res.InningsClosed)
	}
	b.WriteString("\n")
	b.WriteString(StatusLine(m))
	return b.String()
}

func deliveryText(d scoring.DeliveryInput) string {
	var parts []string
	switch d.ExtrasType {
	case scoring.ExtrasWide:
		parts = append(parts, fmt.Sprintf("%d wd", d.Extras))
	case scoring.ExtrasNoBall:
		parts = append(parts, "no ball")
	case scoring.ExtrasBye:
		parts = append(parts, fmt.Sprintf("%d b", d.Extras))
	case scoring.ExtrasLegBye:
		parts = append(parts, fmt.Sprintf("%d lb", d.Extras))
	}
	if d.ExtrasType != scoring.ExtrasWide && d.ExtrasType != scoring.ExtrasBye && d.ExtrasType != scoring.ExtrasLegBye {
		switch d.RunsScored {
		case 0:
			if d.ExtrasType != scoring.ExtrasNoBall {
				parts = append(parts, "no run")
			}
		case 1:
			parts = append(parts, "1 run")
		case 4:
			parts = append(parts, "FOUR")
		case 6:
			parts = append(parts, "SIX")
		default:
			parts = append(parts, fmt.Sprintf("%d runs", d.RunsScored))
		}
	}
	if d.IsWicket {
		out := d.PlayerOutID
		if out == 0 {
			out = d.BatsmanID
		}
		parts = append(parts, fmt.Sprintf("OUT %s %s", Player(out), strings.ReplaceAll(string(d.DismissalType), "_", " ")))
	}
	return strings.Join(parts, ", ")
}

// Replay renders a replay report, listing any differences found.
func Replay(rep engine.ReplayReport) string {
	var b strings.Builder
	if rep.Consistent {
		fmt.Fprintf(&b, "Match %d: %s replayed, consistent\n", rep.MatchID, plural(rep.Deliveries, "delivery", "deliveries"))
		return b.String()
	}
	fmt.Fprintf(&b, "Match %d: %s replayed, %s\n", rep.MatchID,
		plural(rep.Deliveries, "delivery", "deliveries"),
		plural(len(rep.Differences), "difference", "differences"))

	tbl := newTable()
	tbl.AppendHeader(table.Row{"Field", "Committed", "Replayed"})
	for _, d := range rep.Differences {
		tbl.AppendRow(table.Row{d.Field, d.Committed, d.Replayed})
	}
	b.WriteString(tbl.Render())
	b.WriteString("\n")
	return b.String()
}

// Flow renders the ledger entries one request wrote.
func Flow(token string, deliveries []scoring.Delivery) string {
	if len(deliveries) == 0 {
		return fmt.Sprintf("Flow %s: no deliveries\n", token)
	}
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Match", "Seq", "Innings", "Ball", "Delivery"})
	for _, d := range deliveries {
		tbl.AppendRow(table.Row{d.MatchID, d.Seq, d.Innings, d.Label(), deliveryText(d.DeliveryInput)})
	}
	return fmt.Sprintf("Flow %s: %s\n", token, plural(len(deliveries), "delivery", "deliveries")) + tbl.Render() + "\n"
}
