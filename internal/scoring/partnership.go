package scoring

// currentPartnership returns the index of the live stand of an innings, or -1.
func (s *State) currentPartnership(innings int) int {
	for i := len(s.Partnerships) - 1; i >= 0; i-- {
		p := s.Partnerships[i]
		if p.Innings == innings && p.IsCurrent {
			return i
		}
	}
	return -1
}

// InningsPartnerships returns the stands of one innings from parts, keeping
// their order.
func InningsPartnerships(parts []Partnership, innings int) []Partnership {
	var out []Partnership
	for _, p := range parts {
		if p.Innings == innings {
			out = append(out, p)
		}
	}
	return out
}

func (s *State) touchPartnership(i int) {
	p := s.Partnerships[i]
	s.touchedPartnerships[[2]int{p.Innings, p.Wicket}] = true
}

// openPartnership starts the stand for the next wicket. Either batter may be
// 0 when the scorer has not named them yet; the slot is filled by the next
// delivery.
func (s *State) openPartnership(inn *Innings, batter1, batter2 int64) {
	s.Partnerships = append(s.Partnerships, Partnership{
		MatchID:   s.Match.ID,
		Innings:   inn.Number,
		Wicket:    inn.Wickets + 1,
		Batter1ID: batter1,
		Batter2ID: batter2,
		StartBall: inn.LegalBalls,
		IsCurrent: true,
	})
	s.touchPartnership(len(s.Partnerships) - 1)
}

// seatBatters makes sure the current partnership holds the striker and
// non-striker, opening the first stand or filling an empty slot.
func (s *State) seatBatters(inn *Innings, d DeliveryInput) {
	i := s.currentPartnership(inn.Number)
	if i < 0 {
		s.openPartnership(inn, d.BatsmanID, d.NonStrikerID)
		return
	}
	p := &s.Partnerships[i]
	switch {
	case p.Batter1ID == 0:
		p.Batter1ID = otherBatter(d, p.Batter2ID)
	case p.Batter2ID == 0:
		p.Batter2ID = otherBatter(d, p.Batter1ID)
	default:
		return
	}
	s.touchPartnership(i)
}

func otherBatter(d DeliveryInput, known int64) int64 {
	if d.BatsmanID == known {
		return d.NonStrikerID
	}
	return d.BatsmanID
}

// creditPartnership adds a delivery to the current stand. Extras count
// toward the stand but not toward either batter.
func (s *State) creditPartnership(inn *Innings, d DeliveryInput) {
	i := s.currentPartnership(inn.Number)
	if i < 0 {
		return
	}
	p := &s.Partnerships[i]
	p.Runs += d.TotalRuns()
	if d.IsLegal() {
		p.Balls++
	}
	switch d.BatsmanID {
	case p.Batter1ID:
		p.Batter1Runs += d.RunsScored
	case p.Batter2ID:
		p.Batter2Runs += d.RunsScored
	}
	s.touchPartnership(i)
}

func (s *State) endPartnership(i, endBall int) {
	p := &s.Partnerships[i]
	p.IsCurrent = false
	p.EndBall = endBall
	s.touchPartnership(i)
}

// breakPartnership closes the stand on a team wicket and returns the
// batter who survived it.
func (s *State) breakPartnership(inn *Innings, outID int64) int64 {
	i := s.currentPartnership(inn.Number)
	if i < 0 {
		return 0
	}
	survivor := s.Partnerships[i].Partner(outID)
	s.endPartnership(i, inn.LegalBalls)
	return survivor
}

// retireBatter swaps a retiring batter for the incoming one without
// breaking the stand.
func (s *State) retireBatter(inn *Innings, outID, incomingID int64) {
	i := s.currentPartnership(inn.Number)
	if i < 0 {
		return
	}
	p := &s.Partnerships[i]
	if p.Batter1ID == outID {
		p.Batter1ID = incomingID
	} else {
		p.Batter2ID = incomingID
	}
	s.touchPartnership(i)
}
