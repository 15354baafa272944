package harness

import (
	"github.com/roach88/scorebook/internal/publish"
	"github.com/roach88/scorebook/internal/scoring"
)

// TraceEvent is one published match event, reduced to what assertions and
// golden snapshots compare.
type TraceEvent struct {
	Type    string `json:"type"`
	MatchID int64  `json:"match_id"`
	Seq     int    `json:"seq"`
	Innings int    `json:"innings,omitempty"`
	Ball    string `json:"ball,omitempty"`
	Status  string `json:"status"`
}

func traceOf(events []publish.MatchEvent) []TraceEvent {
	out := make([]TraceEvent, 0, len(events))
	for _, ev := range events {
		te := TraceEvent{
			Type:    string(ev.Type),
			MatchID: ev.MatchID,
			Seq:     ev.Seq,
			Innings: ev.Innings,
			Status:  string(ev.Match.Status),
		}
		if ev.Delivery != nil {
			te.Ball = ev.Delivery.Label()
		}
		out = append(out, te)
	}
	return out
}

// Rejection is a scripted delivery the engine refused as expected.
type Rejection struct {
	Match   int    `json:"match"`
	Innings int    `json:"innings"`
	Token   string `json:"token"`
	Code    string `json:"code"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every scripted delivery behaved as written and
	// every assertion held.
	Pass bool `json:"pass"`

	// Scorecards holds the final scorecard of each scripted match.
	Scorecards []scoring.Scorecard `json:"scorecards"`

	// Trace contains the published events in order.
	Trace []TraceEvent `json:"trace"`

	Rejections []Rejection `json:"rejections,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:       true,
		Scorecards: []scoring.Scorecard{},
		Trace:      []TraceEvent{},
		Errors:     []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Scorecard returns the scorecard of the n-th (1-based, 0 meaning 1)
// scripted match.
func (r *Result) Scorecard(n int) (scoring.Scorecard, bool) {
	if n == 0 {
		n = 1
	}
	if n < 1 || n > len(r.Scorecards) {
		return scoring.Scorecard{}, false
	}
	return r.Scorecards[n-1], true
}
