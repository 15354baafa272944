package harness

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/scorebook/internal/scoring"
)

// Scenario is a scripted sequence of matches with expectations about the
// state they leave behind.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Matches are played in order against one store, so career statistics
	// accumulate across them.
	Matches []MatchScript `yaml:"matches"`

	// Assertions validate the final state and the published events.
	Assertions []Assertion `yaml:"assertions"`

	// FlowToken is stamped on every delivery. Defaults to
	// "test-flow-default" so golden snapshots stay stable.
	FlowToken string `yaml:"flow_token,omitempty"`
}

// MatchScript describes one match: its teams, the toss and the innings
// ball by ball.
type MatchScript struct {
	Team1 scoring.TeamRef `yaml:"team1"`
	Team2 scoring.TeamRef `yaml:"team2"`
	Overs int             `yaml:"overs"`
	Venue string          `yaml:"venue,omitempty"`

	// Toss is omitted for a match abandoned before it.
	Toss *TossScript `yaml:"toss,omitempty"`

	Innings []InningsScript `yaml:"innings,omitempty"`

	// Abandon, when set, abandons the match after the scripted innings
	// with this reason.
	Abandon string `yaml:"abandon,omitempty"`
}

// TossScript records the toss.
type TossScript struct {
	Winner   int64                `yaml:"winner"`
	Decision scoring.TossDecision `yaml:"decision"`
}

// InningsScript is one innings in ball notation.
//
// Batters lists the batting order: the first two open and each wicket
// brings in the next. Bowlers rotate by over. Balls holds the deliveries,
// whitespace separated, usually one over per entry.
type InningsScript struct {
	Batters []int64  `yaml:"batters"`
	Bowlers []int64  `yaml:"bowlers"`
	Balls   []string `yaml:"balls"`
}

// Tokens returns every ball token of the innings in order.
func (s InningsScript) Tokens() []string {
	var out []string
	for _, line := range s.Balls {
		out = append(out, strings.Fields(line)...)
	}
	return out
}

// Assertion validates one aspect of the final state.
//
// Types:
//   - match: the match snapshot (status, result, winner_id, ...)
//   - innings: one innings (runs, wickets, overs, extras, target)
//   - performance: one player's match figures
//   - partnership: one stand, by innings and wicket
//   - career: one player's career statistics
//   - event_count: Count published events of type Event
//   - event_order: the first occurrences of Events appear in order
//   - rejections: Count deliveries rejected (optionally with Code)
//   - replay: rebuilding the match from its ledger finds no differences
//
// Expect is a subset match against the JSON form of the target.
type Assertion struct {
	Type string `yaml:"type"`

	// Match is the 1-based index into Scenario.Matches, default 1.
	Match int `yaml:"match,omitempty"`

	Innings int   `yaml:"innings,omitempty"`
	Player  int64 `yaml:"player,omitempty"`
	Wicket  int   `yaml:"wicket,omitempty"`

	Event  string   `yaml:"event,omitempty"`
	Events []string `yaml:"events,omitempty"`
	Code   string   `yaml:"code,omitempty"`
	Count  *int     `yaml:"count,omitempty"`

	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertMatch       = "match"
	AssertInnings     = "innings"
	AssertPerformance = "performance"
	AssertPartnership = "partnership"
	AssertCareer      = "career"
	AssertEventCount  = "event_count"
	AssertEventOrder  = "event_order"
	AssertRejections  = "rejections"
	AssertReplay      = "replay"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML, rejecting unknown fields.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Matches) == 0 {
		return fmt.Errorf("matches list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, m := range s.Matches {
		if err := validateMatch(m); err != nil {
			return fmt.Errorf("matches[%d]: %w", i, err)
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, a, len(s.Matches)); err != nil {
			return err
		}
	}
	return nil
}

func validateMatch(m MatchScript) error {
	if m.Overs <= 0 {
		return fmt.Errorf("overs is required")
	}
	if len(m.Innings) > 2 {
		return fmt.Errorf("at most 2 innings, got %d", len(m.Innings))
	}
	if len(m.Innings) > 0 && m.Toss == nil {
		return fmt.Errorf("innings require a toss")
	}
	for i, inn := range m.Innings {
		if len(inn.Batters) < 2 {
			return fmt.Errorf("innings[%d]: at least two batters are required", i)
		}
		if len(inn.Bowlers) == 0 {
			return fmt.Errorf("innings[%d]: at least one bowler is required", i)
		}
		for j, tok := range inn.Tokens() {
			if _, err := ParseBall(tok); err != nil {
				return fmt.Errorf("innings[%d] ball %d: %w", i, j+1, err)
			}
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion, matches int) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Match < 0 || a.Match > matches {
		return fmt.Errorf("assertions[%d]: match %d out of range 1..%d", index, a.Match, matches)
	}

	needExpect := func() error {
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for %s", index, a.Type)
		}
		return nil
	}

	switch a.Type {
	case AssertMatch:
		return needExpect()
	case AssertInnings:
		if a.Innings != 1 && a.Innings != 2 {
			return fmt.Errorf("assertions[%d]: innings must be 1 or 2 for innings", index)
		}
		return needExpect()
	case AssertPerformance, AssertCareer:
		if a.Player <= 0 {
			return fmt.Errorf("assertions[%d]: player is required for %s", index, a.Type)
		}
		return needExpect()
	case AssertPartnership:
		if a.Innings == 0 || a.Wicket == 0 {
			return fmt.Errorf("assertions[%d]: innings and wicket are required for partnership", index)
		}
		return needExpect()
	case AssertEventCount:
		if a.Event == "" || a.Count == nil {
			return fmt.Errorf("assertions[%d]: event and count are required for event_count", index)
		}
	case AssertEventOrder:
		if len(a.Events) == 0 {
			return fmt.Errorf("assertions[%d]: events list is required for event_order", index)
		}
	case AssertRejections:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for rejections", index)
		}
	case AssertReplay:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
