package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/roach88/scorebook/internal/engine"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Event trace for context, nil for state assertions
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nEvents:\n")
		for i, ev := range e.Trace {
			if ev.Type == "delivery_recorded" {
				continue
			}
			fmt.Fprintf(&buf, "  [%d] %s match=%d seq=%d\n", i+1, ev.Type, ev.MatchID, ev.Seq)
		}
	}
	return buf.String()
}

// AssertionContext provides the engine for assertions that read beyond
// the scorecards (career statistics, replay).
type AssertionContext struct {
	Engine *engine.Engine
	Ctx    context.Context
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertMatch, AssertInnings, AssertPerformance, AssertPartnership:
			err = assertScorecard(result, a)
		case AssertCareer:
			err = assertCareer(actx, a)
		case AssertEventCount:
			err = assertEventCount(result.Trace, a)
		case AssertEventOrder:
			err = assertEventOrder(result.Trace, a)
		case AssertRejections:
			err = assertRejections(result.Rejections, a)
		case AssertReplay:
			err = assertReplay(actx, result, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errors = append(errors, fmt.Sprintf("assertion[%d]: %v", i, err))
		}
	}
	return errors
}

// assertScorecard finds the target of a match, innings, performance or
// partnership assertion in the scorecard and subset-matches Expect.
func assertScorecard(result *Result, a Assertion) error {
	sc, ok := result.Scorecard(a.Match)
	if !ok {
		return fmt.Errorf("no scorecard for match %d", a.Match)
	}

	var (
		target any
		what   string
	)
	switch a.Type {
	case AssertMatch:
		target, what = sc.Match, "match"
	case AssertInnings:
		target, what = sc.Match.Innings[a.Innings-1], fmt.Sprintf("innings %d", a.Innings)
	case AssertPerformance:
		what = fmt.Sprintf("performance of %d", a.Player)
		for _, p := range sc.Performances {
			if p.PlayerID == a.Player {
				target = p
			}
		}
	case AssertPartnership:
		what = fmt.Sprintf("partnership innings %d wicket %d", a.Innings, a.Wicket)
		for _, p := range sc.Partnerships {
			if p.Innings == a.Innings && p.Wicket == a.Wicket {
				target = p
			}
		}
	}
	if target == nil {
		return &AssertionError{Type: a.Type, Expected: what, Actual: "not found"}
	}
	return matchFields(a.Type, what, target, a.Expect)
}

func assertCareer(actx *AssertionContext, a Assertion) error {
	if actx == nil || actx.Engine == nil {
		return fmt.Errorf("career requires an engine")
	}
	s, err := actx.Engine.GetPlayerStats(actx.Ctx, a.Player)
	if err != nil {
		return &AssertionError{
			Type:     AssertCareer,
			Expected: fmt.Sprintf("career statistics for %d", a.Player),
			Actual:   err.Error(),
		}
	}
	view := map[string]any{
		"highest_score": s.HighestScoreLabel(),
		"best_bowling":  s.BestBowling(),
		"overs_bowled":  s.OversBowled().String(),
	}
	return matchFields(AssertCareer, fmt.Sprintf("career of %d", a.Player), s, a.Expect, view)
}

func assertReplay(actx *AssertionContext, result *Result, a Assertion) error {
	if actx == nil || actx.Engine == nil {
		return fmt.Errorf("replay requires an engine")
	}
	sc, ok := result.Scorecard(a.Match)
	if !ok {
		return fmt.Errorf("no scorecard for match %d", a.Match)
	}
	rep, err := actx.Engine.ReplayMatch(actx.Ctx, sc.Match.ID)
	if err != nil {
		return err
	}
	if !rep.Consistent {
		diffs := make([]string, 0, len(rep.Differences))
		for _, d := range rep.Differences {
			diffs = append(diffs, fmt.Sprintf("%s: committed %s, replayed %s", d.Field, d.Committed, d.Replayed))
		}
		return &AssertionError{
			Type:     AssertReplay,
			Expected: fmt.Sprintf("match %d replays consistently", sc.Match.ID),
			Actual:   strings.Join(diffs, "; "),
		}
	}
	return nil
}

// assertEventCount checks the event type appears exactly Count times.
func assertEventCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range trace {
		if ev.Type == a.Event {
			count++
		}
	}
	if count != *a.Count {
		return &AssertionError{
			Type:     AssertEventCount,
			Expected: fmt.Sprintf("%d occurrences of %s", *a.Count, a.Event),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertEventOrder checks the first occurrences of the listed event types
// appear in order. Other events may come between them.
func assertEventOrder(trace []TraceEvent, a Assertion) error {
	positions := make(map[string]int)
	for i, ev := range trace {
		if _, seen := positions[ev.Type]; !seen {
			positions[ev.Type] = i + 1
		}
	}

	for _, typ := range a.Events {
		if positions[typ] == 0 {
			return &AssertionError{
				Type:     AssertEventOrder,
				Expected: fmt.Sprintf("all events present: %v", a.Events),
				Actual:   fmt.Sprintf("missing event: %s", typ),
				Trace:    trace,
			}
		}
	}
	for i := 1; i < len(a.Events); i++ {
		prev, curr := a.Events[i-1], a.Events[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertEventOrder,
				Expected: fmt.Sprintf("events in order: %v", a.Events),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

func assertRejections(rejections []Rejection, a Assertion) error {
	count := 0
	for _, r := range rejections {
		if a.Code == "" || r.Code == a.Code {
			count++
		}
	}
	if count != *a.Count {
		what := "rejections"
		if a.Code != "" {
			what = a.Code + " rejections"
		}
		return &AssertionError{
			Type:     AssertRejections,
			Expected: fmt.Sprintf("%d %s", *a.Count, what),
			Actual:   fmt.Sprintf("%d", count),
		}
	}
	return nil
}

// matchFields subset-matches expect against the JSON form of target.
// Extra maps add derived fields that are not part of the JSON form.
func matchFields(typ, what string, target any, expect map[string]any, extra ...map[string]any) error {
	actual, err := jsonMap(target)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	for _, m := range extra {
		for k, v := range m {
			actual[k] = v
		}
	}
	want, err := jsonMap(expect)
	if err != nil {
		return fmt.Errorf("%s: expect: %w", what, err)
	}

	keys := make([]string, 0, len(want))
	for k := range want {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		got, exists := actual[key]
		if !exists {
			return &AssertionError{
				Type:     typ,
				Expected: fmt.Sprintf("%s field %q to exist", what, key),
				Actual:   "field not present",
			}
		}
		if !valuesEqual(got, want[key]) {
			return &AssertionError{
				Type:     typ,
				Expected: fmt.Sprintf("%s %s = %v", what, key, want[key]),
				Actual:   fmt.Sprintf("%s %s = %v", what, key, got),
			}
		}
	}
	return nil
}

// jsonMap round-trips v through JSON so YAML ints and Go structs compare
// on the same footing.
func jsonMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// valuesEqual compares two decoded JSON values.
// Handles nested maps and slices.
func valuesEqual(actual, expected any) bool {
	if actual == nil && expected == nil {
		return true
	}
	if actual == nil || expected == nil {
		return false
	}
	return reflect.DeepEqual(actual, expected)
}
