package scoring

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the lifecycle state of a match.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusToss      Status = "toss"
	StatusLive      Status = "live"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusUpcoming, StatusToss, StatusLive, StatusCompleted:
		return true
	}
	return false
}

// TossDecision is what the toss winner chose to do first.
type TossDecision string

const (
	DecisionBat  TossDecision = "bat"
	DecisionBowl TossDecision = "bowl"
)

// ExtrasType classifies runs not credited to the striker.
type ExtrasType string

const (
	ExtrasNone   ExtrasType = "none"
	ExtrasWide   ExtrasType = "wide"
	ExtrasNoBall ExtrasType = "no_ball"
	ExtrasBye    ExtrasType = "bye"
	ExtrasLegBye ExtrasType = "leg_bye"
)

// DismissalType is how a batter left the crease.
type DismissalType string

const (
	DismissalNone        DismissalType = "none"
	DismissalBowled      DismissalType = "bowled"
	DismissalCaught      DismissalType = "caught"
	DismissalLBW         DismissalType = "lbw"
	DismissalRunOut      DismissalType = "run_out"
	DismissalStumped     DismissalType = "stumped"
	DismissalHitWicket   DismissalType = "hit_wicket"
	DismissalRetiredHurt DismissalType = "retired_hurt"
	DismissalObstructing DismissalType = "obstructing"
	DismissalTimedOut    DismissalType = "timed_out"
	DismissalHandling    DismissalType = "handling"
)

// ResultType classifies a completed match.
type ResultType string

const (
	ResultNone         ResultType = ""
	ResultWonByRuns    ResultType = "won_by_runs"
	ResultWonByWickets ResultType = "won_by_wickets"
	ResultTie          ResultType = "tie"
	ResultNoResult     ResultType = "no_result"
)

// MaxWickets is the number of wickets that ends an innings.
const MaxWickets = 10

// TeamRef identifies a team. IDs are opaque tokens owned by the caller.
type TeamRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// DisplayName returns the team name, or "Team <id>" when none was given.
func (t TeamRef) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("Team %d", t.ID)
}

// NewMatch carries the arguments of CreateMatch.
type NewMatch struct {
	Team1       TeamRef   `json:"team1"`
	Team2       TeamRef   `json:"team2"`
	TotalOvers  int       `json:"total_overs"`
	Venue       string    `json:"venue,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at,omitzero"`
}

// Innings holds the running figures of one batting turn.
type Innings struct {
	Number        int   `json:"number"`
	BattingTeamID int64 `json:"batting_team_id"`
	BowlingTeamID int64 `json:"bowling_team_id"`
	Runs          int   `json:"runs"`
	Wickets       int   `json:"wickets"`
	LegalBalls    int   `json:"legal_balls"`
	Extras        int   `json:"extras"`
	Target        int   `json:"target,omitempty"`
	Closed        bool  `json:"closed"`

	// Over bookkeeping for maidens and the consecutive-overs rule.
	OverRuns         int   `json:"-"`
	OverDeliveries   int   `json:"-"`
	BowlerID         int64 `json:"-"`
	LastOverBowlerID int64 `json:"-"`
}

// Overs returns the legal balls bowled in overs notation.
func (i Innings) Overs() Overs {
	return OversFromBalls(i.LegalBalls)
}

// Started reports whether any delivery has been bowled in this innings.
func (i Innings) Started() bool {
	return i.LegalBalls > 0 || i.OverDeliveries > 0 || i.Runs > 0 || i.Wickets > 0 || i.Closed
}

// MarshalJSON adds the overs notation and run rate.
func (i Innings) MarshalJSON() ([]byte, error) {
	type plain Innings
	return json.Marshal(struct {
		plain
		Overs   Overs   `json:"overs"`
		RunRate float64 `json:"run_rate"`
	}{plain(i), i.Overs(), round2(RunRate(i.Runs, i.LegalBalls))})
}

// Match is the committed state of one match.
type Match struct {
	ID              int64        `json:"id"`
	Team1           TeamRef      `json:"team1"`
	Team2           TeamRef      `json:"team2"`
	TotalOvers      int          `json:"total_overs"`
	Venue           string       `json:"venue,omitempty"`
	ScheduledAt     time.Time    `json:"scheduled_at,omitzero"`
	Status          Status       `json:"status"`
	CurrentInnings  int          `json:"current_innings"`
	Innings         [2]Innings   `json:"innings"`
	TossWinnerID    int64        `json:"toss_winner_id,omitempty"`
	TossDecision    TossDecision `json:"toss_decision,omitempty"`
	WinnerID        int64        `json:"winner_id,omitempty"`
	Result          string       `json:"result,omitempty"`
	ResultType      ResultType   `json:"result_type,omitempty"`
	Margin          int          `json:"margin,omitempty"`
	PlayerOfMatchID int64        `json:"player_of_match_id,omitempty"`
	AbandonReason   string       `json:"abandon_reason,omitempty"`
	DeliveryCount   int          `json:"delivery_count"`
	CreatedAt       time.Time    `json:"created_at,omitzero"`
	UpdatedAt       time.Time    `json:"updated_at,omitzero"`
}

// Team returns the reference for a team id, or false if it is not playing.
func (m Match) Team(id int64) (TeamRef, bool) {
	switch id {
	case m.Team1.ID:
		return m.Team1, true
	case m.Team2.ID:
		return m.Team2, true
	}
	return TeamRef{}, false
}

// Opponent returns the other team's id.
func (m Match) Opponent(id int64) int64 {
	if id == m.Team1.ID {
		return m.Team2.ID
	}
	return m.Team1.ID
}

// InningsOf returns the innings in which teamID batted, if the toss has
// assigned one.
func (m Match) InningsOf(teamID int64) (Innings, bool) {
	for _, inn := range m.Innings {
		if inn.Number != 0 && inn.BattingTeamID == teamID {
			return inn, true
		}
	}
	return Innings{}, false
}

// Active returns the innings in progress, or nil when the match is not live.
func (m *Match) Active() *Innings {
	if m.Status != StatusLive || m.CurrentInnings < 1 || m.CurrentInnings > 2 {
		return nil
	}
	return &m.Innings[m.CurrentInnings-1]
}

// Target returns the runs the side batting second needs, 0 before innings 2.
func (m Match) Target() int {
	return m.Innings[1].Target
}

// Shot is optional metadata a scorer may attach to a delivery.
type Shot struct {
	Type   string `json:"type,omitempty"`
	Region string `json:"region,omitempty"`

	// Boundary distinguishes a hit to the rope from four or six run.
	// Nil means runs of 4 or 6 are treated as boundaries.
	Boundary *bool `json:"boundary,omitempty"`
}

// DeliveryInput is one scoring action as submitted by a scorer.
type DeliveryInput struct {
	Innings           int           `json:"innings"`
	OverNumber        int           `json:"over_number"`
	BallNumber        int           `json:"ball_number"`
	BatsmanID         int64         `json:"batsman_id"`
	NonStrikerID      int64         `json:"non_striker_id"`
	BowlerID          int64         `json:"bowler_id"`
	FielderID         int64         `json:"fielder_id,omitempty"`
	RunsScored        int           `json:"runs_scored"`
	Extras            int           `json:"extras"`
	ExtrasType        ExtrasType    `json:"extras_type"`
	IsWicket          bool          `json:"is_wicket"`
	DismissalType     DismissalType `json:"dismissal_type"`
	PlayerOutID       int64         `json:"player_out_id,omitempty"`
	IncomingBatsmanID int64         `json:"incoming_batsman_id,omitempty"`
	Shot              *Shot         `json:"shot,omitempty"`
}

// Normalized fills defaults: empty extras/dismissal types become "none"
// and a wicket with no player out names the striker.
func (d DeliveryInput) Normalized() DeliveryInput {
	if d.ExtrasType == "" {
		d.ExtrasType = ExtrasNone
	}
	if d.DismissalType == "" {
		d.DismissalType = DismissalNone
	}
	if d.IsWicket && d.PlayerOutID == 0 {
		d.PlayerOutID = d.BatsmanID
	}
	return d
}

// IsLegal reports whether the delivery counts toward the over.
func (d DeliveryInput) IsLegal() bool {
	return IsLegal(d.ExtrasType)
}

// TotalRuns returns everything the delivery adds to the team total.
func (d DeliveryInput) TotalRuns() int {
	return d.RunsScored + d.Extras
}

// IsBoundary reports whether RunsScored reached the rope.
func (d DeliveryInput) IsBoundary() bool {
	if d.RunsScored != 4 && d.RunsScored != 6 {
		return false
	}
	return d.Shot == nil || d.Shot.Boundary == nil || *d.Shot.Boundary
}

// Delivery is one immutable ledger entry.
type Delivery struct {
	ID      string `json:"id"`
	MatchID int64  `json:"match_id"`

	// Seq is the insertion sequence within the match, starting at 1.
	Seq int `json:"seq"`

	DeliveryInput

	FlowToken  string    `json:"flow_token,omitempty"`
	RecordedAt time.Time `json:"recorded_at,omitzero"`
}

// identity returns the fields hashed into the content-addressed ID.
// Flow token and wall-clock time are excluded so a replayed ledger hashes
// identically.
func (d Delivery) identity() map[string]any {
	fields := map[string]any{
		"match_id":            d.MatchID,
		"seq":                 d.Seq,
		"innings":             d.Innings,
		"over":                d.OverNumber,
		"ball":                d.BallNumber,
		"batsman_id":          d.BatsmanID,
		"non_striker_id":      d.NonStrikerID,
		"bowler_id":           d.BowlerID,
		"fielder_id":          d.FielderID,
		"runs_scored":         d.RunsScored,
		"extras":              d.Extras,
		"extras_type":         string(d.ExtrasType),
		"is_wicket":           d.IsWicket,
		"dismissal_type":      string(d.DismissalType),
		"player_out_id":       d.PlayerOutID,
		"incoming_batsman_id": d.IncomingBatsmanID,
	}
	if d.Shot != nil {
		shot := map[string]any{"type": d.Shot.Type, "region": d.Shot.Region}
		if d.Shot.Boundary != nil {
			shot["boundary"] = *d.Shot.Boundary
		}
		fields["shot"] = shot
	}
	return fields
}

// Label renders the over.ball position, e.g. "17.4".
func (d Delivery) Label() string {
	return fmt.Sprintf("%d.%d", d.OverNumber, d.BallNumber)
}

// Partnership is the stand between the two batters at the crease.
type Partnership struct {
	MatchID int64 `json:"match_id"`
	Innings int   `json:"innings"`

	// Wicket is the ordinal of the stand: 1 for the opening partnership.
	Wicket int `json:"wicket"`

	Batter1ID   int64 `json:"batter1_id"`
	Batter2ID   int64 `json:"batter2_id"`
	Batter1Runs int   `json:"batter1_runs"`
	Batter2Runs int   `json:"batter2_runs"`
	Runs        int   `json:"runs"`
	Balls       int   `json:"balls"`
	StartBall   int   `json:"start_ball"`
	EndBall     int   `json:"end_ball"`
	IsCurrent   bool  `json:"is_current"`
}

// StartOver returns where the stand began in overs notation.
func (p Partnership) StartOver() Overs {
	return OversFromBalls(p.StartBall)
}

// EndOver returns where the stand ended in overs notation.
func (p Partnership) EndOver() Overs {
	return OversFromBalls(p.EndBall)
}

// Has reports whether playerID is one of the two batters.
func (p Partnership) Has(playerID int64) bool {
	return playerID != 0 && (p.Batter1ID == playerID || p.Batter2ID == playerID)
}

// Partner returns the other batter, 0 when the slot is still open.
func (p Partnership) Partner(playerID int64) int64 {
	if p.Batter1ID == playerID {
		return p.Batter2ID
	}
	return p.Batter1ID
}

// Performance is one player's figures in one match.
type Performance struct {
	MatchID  int64 `json:"match_id"`
	PlayerID int64 `json:"player_id"`
	TeamID   int64 `json:"team_id"`

	Batted             bool          `json:"batted"`
	BattingPosition    int           `json:"batting_position,omitempty"`
	Runs               int           `json:"runs"`
	BallsFaced         int           `json:"balls_faced"`
	Fours              int           `json:"fours"`
	Sixes              int           `json:"sixes"`
	IsOut              bool          `json:"is_out"`
	RetiredHurt        bool          `json:"retired_hurt,omitempty"`
	DismissalType      DismissalType `json:"dismissal_type,omitempty"`
	DismissedByID      int64         `json:"dismissed_by_id,omitempty"`
	DismissalFielderID int64         `json:"dismissal_fielder_id,omitempty"`

	BallsBowled  int `json:"balls_bowled"`
	RunsConceded int `json:"runs_conceded"`
	Wickets      int `json:"wickets"`
	Maidens      int `json:"maidens"`
	Wides        int `json:"wides"`
	NoBalls      int `json:"no_balls"`

	Catches   int `json:"catches"`
	RunOuts   int `json:"run_outs"`
	Stumpings int `json:"stumpings"`

	PlayerOfMatch bool `json:"player_of_match"`
}

// Bowled reports whether the player delivered at least one ball.
func (p Performance) Bowled() bool {
	return p.BallsBowled > 0 || p.Wides > 0 || p.NoBalls > 0
}

// OversBowled returns legal balls bowled in overs notation.
func (p Performance) OversBowled() Overs {
	return OversFromBalls(p.BallsBowled)
}

// StrikeRate returns runs per 100 balls faced.
func (p Performance) StrikeRate() float64 {
	if p.BallsFaced == 0 {
		return 0
	}
	return float64(p.Runs) * 100 / float64(p.BallsFaced)
}

// Economy returns runs conceded per over bowled.
func (p Performance) Economy() float64 {
	return RunRate(p.RunsConceded, p.BallsBowled)
}

// FieldingDismissals returns catches, run-outs and stumpings combined.
func (p Performance) FieldingDismissals() int {
	return p.Catches + p.RunOuts + p.Stumpings
}

// MarshalJSON adds the derived rates.
func (p Performance) MarshalJSON() ([]byte, error) {
	type plain Performance
	return json.Marshal(struct {
		plain
		OversBowled Overs   `json:"overs_bowled"`
		StrikeRate  float64 `json:"strike_rate"`
		Economy     float64 `json:"economy"`
	}{plain(p), p.OversBowled(), round2(p.StrikeRate()), round2(p.Economy())})
}

// Scorecard is the full record of a match.
type Scorecard struct {
	Match        Match         `json:"match"`
	Deliveries   []Delivery    `json:"deliveries"`
	Partnerships []Partnership `json:"partnerships"`
	Performances []Performance `json:"performances"`
}
