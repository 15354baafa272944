package scoring

// MaxOvers is the longest limited-overs format the engine accepts.
const MaxOvers = 50

// ValidateNewMatch checks the arguments of CreateMatch.
func ValidateNewMatch(nm NewMatch) error {
	if nm.Team1.ID <= 0 || nm.Team2.ID <= 0 {
		return NewValidationError(0, "team_id", "team ids must be positive")
	}
	if nm.Team1.ID == nm.Team2.ID {
		return NewValidationError(0, "team_id", "a team cannot play itself")
	}
	if nm.TotalOvers < 1 || nm.TotalOvers > MaxOvers {
		return NewValidationError(0, "total_overs", "total overs must be between 1 and %d, got %d", MaxOvers, nm.TotalOvers)
	}
	return nil
}

// ValidateInput checks a delivery in isolation, without looking at match
// state. The input must already be normalized.
func ValidateInput(matchID int64, d DeliveryInput) error {
	if d.Innings != 1 && d.Innings != 2 {
		return NewValidationError(matchID, "innings", "innings must be 1 or 2, got %d", d.Innings)
	}
	if d.OverNumber < 0 {
		return NewValidationError(matchID, "over_number", "over number cannot be negative")
	}
	if d.BallNumber < 1 || d.BallNumber > BallsPerOver {
		return NewValidationError(matchID, "ball_number", "ball number must be 1-%d, got %d", BallsPerOver, d.BallNumber)
	}
	if d.RunsScored < 0 || d.RunsScored > 6 {
		return NewValidationError(matchID, "runs_scored", "runs scored must be 0-6, got %d", d.RunsScored)
	}
	if d.Extras < 0 || d.Extras > 5 {
		return NewValidationError(matchID, "extras", "extras must be 0-5, got %d", d.Extras)
	}

	if d.BatsmanID <= 0 || d.NonStrikerID <= 0 || d.BowlerID <= 0 {
		return NewValidationError(matchID, "batsman_id", "striker, non-striker and bowler are required")
	}
	if d.BatsmanID == d.NonStrikerID {
		return NewValidationError(matchID, "non_striker_id", "striker and non-striker must differ")
	}
	if d.BowlerID == d.BatsmanID || d.BowlerID == d.NonStrikerID {
		return NewValidationError(matchID, "bowler_id", "bowler %d is batting", d.BowlerID)
	}

	rule, ok := ExtrasRuleFor(d.ExtrasType)
	if !ok {
		return NewValidationError(matchID, "extras_type", "unknown extras type %q", d.ExtrasType)
	}
	if d.ExtrasType == ExtrasNone && d.Extras != 0 {
		return NewValidationError(matchID, "extras", "extras must be 0 when extras type is none")
	}
	if d.Extras < rule.MinExtras {
		return NewValidationError(matchID, "extras", "%s requires at least %d extra", d.ExtrasType, rule.MinExtras)
	}
	if !rule.RunsOffBat && d.RunsScored != 0 {
		return NewValidationError(matchID, "runs_scored", "no runs off the bat on a %s", d.ExtrasType)
	}

	return validateDismissal(matchID, d)
}

func validateDismissal(matchID int64, d DeliveryInput) error {
	if !d.IsWicket {
		if d.DismissalType != DismissalNone {
			return NewValidationError(matchID, "dismissal_type", "dismissal type %q without a wicket", d.DismissalType)
		}
		if d.PlayerOutID != 0 || d.IncomingBatsmanID != 0 {
			return NewValidationError(matchID, "player_out_id", "player out given without a wicket")
		}
		return nil
	}

	rule, ok := DismissalRuleFor(d.DismissalType)
	if !ok {
		return NewValidationError(matchID, "dismissal_type", "wicket requires a dismissal type, got %q", d.DismissalType)
	}
	if !rule.Extras[d.ExtrasType] {
		return NewValidationError(matchID, "dismissal_type", "%s is not possible off a %s", d.DismissalType, d.ExtrasType)
	}
	switch d.PlayerOutID {
	case d.BatsmanID:
	case d.NonStrikerID:
		if !rule.NonStrikerOut {
			return NewValidationError(matchID, "player_out_id", "non-striker cannot be out %s", d.DismissalType)
		}
	default:
		return NewValidationError(matchID, "player_out_id", "player out %d is not at the crease", d.PlayerOutID)
	}
	if rule.RequiresFielder && d.FielderID == 0 {
		return NewValidationError(matchID, "fielder_id", "%s requires a fielder", d.DismissalType)
	}
	if d.FielderID != 0 && (d.FielderID == d.BatsmanID || d.FielderID == d.NonStrikerID) {
		return NewValidationError(matchID, "fielder_id", "fielder %d is batting", d.FielderID)
	}
	if in := d.IncomingBatsmanID; in != 0 && (in == d.BatsmanID || in == d.NonStrikerID || in == d.BowlerID) {
		return NewValidationError(matchID, "incoming_batsman_id", "incoming batsman %d is already on the field", in)
	}
	return nil
}
