package scoring

// performance returns the figures for a player, creating them the first
// time the player touches the match.
func (s *State) performance(playerID, teamID int64) *Performance {
	p, ok := s.Performances[playerID]
	if !ok {
		p = &Performance{MatchID: s.Match.ID, PlayerID: playerID, TeamID: teamID}
		s.Performances[playerID] = p
	}
	s.touchedPlayers[playerID] = true
	return p
}

// seat marks a player as having come to the crease.
func (s *State) seat(playerID, teamID int64) *Performance {
	p := s.performance(playerID, teamID)
	if !p.Batted {
		p.Batted = true
		p.BattingPosition = s.battedCount(teamID)
	}
	p.RetiredHurt = false
	return p
}

func (s *State) battedCount(teamID int64) int {
	n := 0
	for _, p := range s.Performances {
		if p.TeamID == teamID && p.Batted {
			n++
		}
	}
	return n
}

// creditPerformances applies a delivery to the striker, bowler, player out
// and fielder.
func (s *State) creditPerformances(inn *Innings, d DeliveryInput) {
	rule, _ := ExtrasRuleFor(d.ExtrasType)

	// Seat in crease order so the opening pair gets positions 1 and 2.
	striker := s.seat(d.BatsmanID, inn.BattingTeamID)
	s.seat(d.NonStrikerID, inn.BattingTeamID)

	striker.Runs += d.RunsScored
	if rule.FacedByBatsman {
		striker.BallsFaced++
	}
	if d.IsBoundary() {
		if d.RunsScored == 4 {
			striker.Fours++
		} else {
			striker.Sixes++
		}
	}

	bowler := s.performance(d.BowlerID, inn.BowlingTeamID)
	if rule.Legal {
		bowler.BallsBowled++
	}
	bowler.RunsConceded += chargedRuns(d)
	switch d.ExtrasType {
	case ExtrasWide:
		bowler.Wides++
	case ExtrasNoBall:
		bowler.NoBalls++
	}

	if !d.IsWicket {
		return
	}
	dr, _ := DismissalRuleFor(d.DismissalType)
	out := s.performance(d.PlayerOutID, inn.BattingTeamID)
	if !dr.TeamWicket {
		out.RetiredHurt = true
		return
	}

	out.IsOut = true
	out.DismissalType = d.DismissalType
	if dr.BowlerCredit {
		bowler.Wickets++
		out.DismissedByID = d.BowlerID
	}
	if d.FielderID == 0 {
		return
	}
	out.DismissalFielderID = d.FielderID
	fielder := s.performance(d.FielderID, inn.BowlingTeamID)
	switch d.DismissalType {
	case DismissalCaught:
		fielder.Catches++
	case DismissalStumped:
		fielder.Stumpings++
	case DismissalRunOut:
		fielder.RunOuts++
	}
}
