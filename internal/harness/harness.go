package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/scorebook/internal/engine"
	"github.com/roach88/scorebook/internal/publish"
	"github.com/roach88/scorebook/internal/scoring"
	"github.com/roach88/scorebook/internal/store"
	"github.com/roach88/scorebook/internal/testutil"
)

// Harness plays scripted matches through a real engine.
// It runs scenarios with a deterministic clock and flow tokens.
type Harness struct {
	store   *store.Store
	engine  *engine.Engine
	events  *publish.Recorder
	clock   *testutil.DeterministicClock
	flowGen *testutil.FixedFlowGenerator
	logger  *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database. Every delivery goes
// through engine.RecordDelivery exactly as a scorer's would; the harness
// only works out the striker, bowler and ball position from the notation.
//
// Execution flow:
//  1. Create fresh in-memory database and engine
//  2. Play each scripted match: create, toss, innings, abandon
//  3. Collect scorecards and published events
//  4. Evaluate assertions
//
// A returned error means the run itself failed (store, engine internals);
// behavioural mismatches are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	clock := testutil.NewDeterministicClock(testutil.DefaultClockStart, time.Second)
	st.SetClock(clock.Now)
	flowGen := testutil.NewFixedFlowGenerator(scenario.FlowToken)
	events := &publish.Recorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := &Harness{
		store:   st,
		engine:  engine.New(st, engine.WithClock(clock.Now), engine.WithFlowGenerator(flowGen), engine.WithPublisher(events), engine.WithLogger(logger)),
		events:  events,
		clock:   clock,
		flowGen: flowGen,
		logger:  logger,
	}

	ctx := context.Background()
	result := NewResult()
	for i, ms := range scenario.Matches {
		if err := h.playMatch(ctx, i+1, ms, result); err != nil {
			return nil, fmt.Errorf("match %d: %w", i+1, err)
		}
	}
	result.Trace = traceOf(events.Events())

	actx := &AssertionContext{Engine: h.engine, Ctx: ctx}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}
	return result, nil
}

// playMatch creates, plays and snapshots one scripted match.
func (h *Harness) playMatch(ctx context.Context, n int, ms MatchScript, result *Result) error {
	m, err := h.engine.CreateMatch(ctx, scoring.NewMatch{
		Team1:      ms.Team1,
		Team2:      ms.Team2,
		TotalOvers: ms.Overs,
		Venue:      ms.Venue,
	})
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	if ms.Toss != nil {
		if _, err := h.engine.RecordToss(ctx, m.ID, ms.Toss.Winner, ms.Toss.Decision); err != nil {
			return fmt.Errorf("toss: %w", err)
		}
	}

	for i, script := range ms.Innings {
		ok, err := h.playInnings(ctx, n, m.ID, i+1, script, result)
		if err != nil {
			return fmt.Errorf("innings %d: %w", i+1, err)
		}
		if !ok {
			break
		}
	}

	if ms.Abandon != "" {
		if _, err := h.engine.AbandonMatch(ctx, m.ID, ms.Abandon); err != nil {
			result.AddError(fmt.Sprintf("match %d: abandon: %v", n, err))
		}
	}

	sc, err := h.engine.GetScorecard(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("scorecard: %w", err)
	}
	result.Scorecards = append(result.Scorecards, sc)
	return nil
}

// crease tracks who is batting and where the innings stands.
type crease struct {
	striker, nonStriker int64
	order               []int64
	next                int
	legalBalls          int
}

func (c *crease) incoming() int64 {
	if c.next >= len(c.order) {
		return 0
	}
	id := c.order[c.next]
	c.next++
	return id
}

func (c *crease) swap() {
	c.striker, c.nonStriker = c.nonStriker, c.striker
}

// replace puts the incoming batter in the dismissed batter's place.
func (c *crease) replace(out, in int64) {
	if c.striker == out {
		c.striker = in
	} else if c.nonStriker == out {
		c.nonStriker = in
	}
}

// playInnings feeds one innings ball by ball. It returns false when the
// script went off course and the rest of the match cannot follow.
func (h *Harness) playInnings(ctx context.Context, n int, matchID int64, innings int, script InningsScript, result *Result) (bool, error) {
	c := &crease{
		striker:    script.Batters[0],
		nonStriker: script.Batters[1],
		order:      script.Batters,
		next:       2,
	}
	tokens := script.Tokens()
	fail := func(format string, args ...any) (bool, error) {
		result.AddError(fmt.Sprintf("match %d innings %d: ", n, innings) + fmt.Sprintf(format, args...))
		return false, nil
	}

	for i, tok := range tokens {
		ball, err := ParseBall(tok)
		if err != nil {
			return fail("%v", err)
		}

		over := c.legalBalls / scoring.BallsPerOver
		in := scoring.DeliveryInput{
			Innings:       innings,
			OverNumber:    over,
			BallNumber:    c.legalBalls%scoring.BallsPerOver + 1,
			BatsmanID:     c.striker,
			NonStrikerID:  c.nonStriker,
			BowlerID:      script.Bowlers[over%len(script.Bowlers)],
			FielderID:     ball.FielderID,
			RunsScored:    ball.RunsScored,
			Extras:        ball.Extras,
			ExtrasType:    ball.ExtrasType,
			IsWicket:      ball.Wicket,
			DismissalType: ball.Dismissal,
		}
		// Only claim the next batter for deliveries that should go through.
		var out int64
		if ball.Wicket {
			out = c.striker
			if ball.NonStrikerOut {
				out = c.nonStriker
			}
			in.PlayerOutID = out
			if ball.Reject == "" {
				in.IncomingBatsmanID = c.incoming()
			}
		}

		res, err := h.engine.RecordDelivery(ctx, matchID, in)
		if ball.Reject != "" {
			code := scoring.CodeOf(err)
			if err == nil {
				return fail("ball %d %q: accepted, want %s", i+1, tok, ball.Reject)
			}
			if code != ball.Reject {
				return fail("ball %d %q: rejected with %v, want %s", i+1, tok, err, ball.Reject)
			}
			result.Rejections = append(result.Rejections, Rejection{Match: n, Innings: innings, Token: tok, Code: string(code)})
			continue
		}
		if err != nil {
			if scoring.CodeOf(err) == "" {
				return false, fmt.Errorf("ball %d %q: %w", i+1, tok, err)
			}
			return fail("ball %d %q: %v", i+1, tok, err)
		}

		if in.IsLegal() {
			c.legalBalls++
		}
		if in.RunsRun()%2 == 1 {
			c.swap()
		}
		if ball.Wicket {
			c.replace(out, in.IncomingBatsmanID)
		}
		if in.IsLegal() && c.legalBalls%scoring.BallsPerOver == 0 {
			c.swap()
		}

		if res.InningsClosed != 0 || res.Completed {
			if extra := len(tokens) - i - 1; extra > 0 {
				return fail("%d balls scripted after the innings closed", extra)
			}
			return !res.Completed, nil
		}
	}
	return true, nil
}
