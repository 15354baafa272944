package scoring

// ExtrasRule describes how one extras type is scored.
type ExtrasRule struct {
	// Legal deliveries advance the ball counter toward the end of the over.
	Legal bool

	// ChargedToBowler means the extras count against the bowler's figures.
	ChargedToBowler bool

	// PenaltyOnly limits the bowler's charge to the penalty run. Extras
	// beyond it were run as byes and belong to the team alone.
	PenaltyOnly bool

	// FacedByBatsman means the striker is credited with a ball faced.
	FacedByBatsman bool

	// RunsOffBat allows runs credited to the striker on the same delivery.
	RunsOffBat bool

	// MinExtras is the smallest legal Extras value (the penalty run for
	// wides and no-balls, at least one run for byes).
	MinExtras int
}

var extrasRules = map[ExtrasType]ExtrasRule{
	ExtrasNone:   {Legal: true, FacedByBatsman: true, RunsOffBat: true, MinExtras: 0},
	ExtrasWide:   {Legal: false, ChargedToBowler: true, MinExtras: 1},
	ExtrasNoBall: {Legal: false, ChargedToBowler: true, PenaltyOnly: true, FacedByBatsman: true, RunsOffBat: true, MinExtras: 1},
	ExtrasBye:    {Legal: true, FacedByBatsman: true, MinExtras: 1},
	ExtrasLegBye: {Legal: true, FacedByBatsman: true, MinExtras: 1},
}

// ExtrasRuleFor returns the scoring rule for an extras type.
func ExtrasRuleFor(t ExtrasType) (ExtrasRule, bool) {
	r, ok := extrasRules[t]
	return r, ok
}

// IsLegal reports whether a delivery of this extras type counts toward the over.
func IsLegal(t ExtrasType) bool {
	return extrasRules[t].Legal
}

// DismissalRule describes one mode of dismissal.
type DismissalRule struct {
	// TeamWicket means the dismissal counts toward the batting side's wickets
	// and breaks the partnership.
	TeamWicket bool

	// BowlerCredit means the bowler is credited with the wicket.
	BowlerCredit bool

	// RequiresFielder means a fielder id must be recorded (catcher, keeper).
	RequiresFielder bool

	// NonStrikerOut means the player out may be the non-striker.
	NonStrikerOut bool

	// Extras lists the extras types this dismissal is possible off.
	Extras map[ExtrasType]bool
}

var (
	onlyFair      = map[ExtrasType]bool{ExtrasNone: true}
	fairOrWide    = map[ExtrasType]bool{ExtrasNone: true, ExtrasWide: true}
	anyExtrasType = map[ExtrasType]bool{
		ExtrasNone: true, ExtrasWide: true, ExtrasNoBall: true, ExtrasBye: true, ExtrasLegBye: true,
	}
)

// dismissalRules is the dismissal-versus-extras table. Every decision about
// whether a wicket is valid on a given delivery goes through it.
var dismissalRules = map[DismissalType]DismissalRule{
	DismissalBowled:      {TeamWicket: true, BowlerCredit: true, Extras: onlyFair},
	DismissalCaught:      {TeamWicket: true, BowlerCredit: true, RequiresFielder: true, Extras: onlyFair},
	DismissalLBW:         {TeamWicket: true, BowlerCredit: true, Extras: onlyFair},
	DismissalStumped:     {TeamWicket: true, BowlerCredit: true, RequiresFielder: true, Extras: fairOrWide},
	DismissalHitWicket:   {TeamWicket: true, BowlerCredit: true, Extras: fairOrWide},
	DismissalRunOut:      {TeamWicket: true, NonStrikerOut: true, Extras: anyExtrasType},
	DismissalObstructing: {TeamWicket: true, NonStrikerOut: true, Extras: anyExtrasType},
	DismissalHandling:    {TeamWicket: true, Extras: anyExtrasType},
	DismissalTimedOut:    {TeamWicket: true, NonStrikerOut: true, Extras: onlyFair},
	DismissalRetiredHurt: {NonStrikerOut: true, Extras: anyExtrasType},
}

// DismissalRuleFor returns the rule for a dismissal type.
// DismissalNone has no rule.
func DismissalRuleFor(t DismissalType) (DismissalRule, bool) {
	r, ok := dismissalRules[t]
	return r, ok
}

// countsAsWicket reports whether a delivery adds to the team's wicket count.
func countsAsWicket(d DeliveryInput) bool {
	if !d.IsWicket {
		return false
	}
	return dismissalRules[d.DismissalType].TeamWicket
}

// chargedRuns returns the runs a delivery adds to the bowler's figures.
func chargedRuns(d DeliveryInput) int {
	runs := d.RunsScored
	rule := extrasRules[d.ExtrasType]
	switch {
	case !rule.ChargedToBowler:
	case rule.PenaltyOnly:
		runs += min(d.Extras, rule.MinExtras)
	default:
		runs += d.Extras
	}
	return runs
}

// RunsRun returns the runs physically run or hit to the boundary, which
// decides whether the batters changed ends.
func (d DeliveryInput) RunsRun() int {
	switch d.ExtrasType {
	case ExtrasWide, ExtrasNoBall:
		// The penalty run is not run; anything beyond it was.
		return d.RunsScored + d.Extras - 1
	case ExtrasBye, ExtrasLegBye:
		return d.Extras
	default:
		return d.RunsScored
	}
}
