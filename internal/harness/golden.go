package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/scorebook/internal/canon"
)

// Snapshot is the part of a scenario run that golden files pin down: each
// match's outcome and the milestone events. Per-delivery events are left
// out; the innings totals already cover them.
type Snapshot struct {
	ScenarioName string
	FlowToken    string
	Result       *Result
}

// Canonical returns the canonical JSON form of the snapshot.
func (s Snapshot) Canonical() ([]byte, error) {
	return canon.Marshal(s.toCanonicalMap())
}

// Digest returns the content hash of the snapshot, stable across runs.
func (s Snapshot) Digest() (string, error) {
	return canon.Hash(canon.DomainSnapshot, s.toCanonicalMap())
}

// toCanonicalMap converts the snapshot to the map form canon.Marshal
// accepts: only strings, ints, bools, slices and maps.
func (s Snapshot) toCanonicalMap() map[string]any {
	matches := make([]any, 0, len(s.Result.Scorecards))
	for _, sc := range s.Result.Scorecards {
		m := sc.Match
		innings := make([]any, 0, 2)
		for _, inn := range m.Innings {
			if inn.Number == 0 || !inn.Started() {
				continue
			}
			innings = append(innings, map[string]any{
				"number":  inn.Number,
				"batting": inn.BattingTeamID,
				"runs":    inn.Runs,
				"wickets": inn.Wickets,
				"overs":   inn.Overs().String(),
				"extras":  inn.Extras,
			})
		}
		matches = append(matches, map[string]any{
			"status":          string(m.Status),
			"result":          m.Result,
			"winner":          m.WinnerID,
			"player_of_match": m.PlayerOfMatchID,
			"deliveries":      m.DeliveryCount,
			"innings":         innings,
		})
	}

	milestones := make([]any, 0)
	for _, ev := range s.Result.Trace {
		if ev.Type == "delivery_recorded" {
			continue
		}
		milestones = append(milestones, map[string]any{
			"type": ev.Type,
			"seq":  ev.Seq,
		})
	}

	out := map[string]any{
		"scenario_name": s.ScenarioName,
		"matches":       matches,
		"milestones":    milestones,
	}
	if s.FlowToken != "" {
		out["flow_token"] = s.FlowToken
	}
	return out
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file under testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, Snapshot{
		ScenarioName: scenario.Name,
		FlowToken:    scenario.FlowToken,
		Result:       result,
	})
}

// AssertGolden compares a snapshot against the golden file for name.
func AssertGolden(t *testing.T, name string, snap Snapshot) error {
	t.Helper()

	data, err := snap.Canonical()
	if err != nil {
		return err
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
