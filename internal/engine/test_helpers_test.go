package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/scorebook/internal/publish"
	"github.com/roach88/scorebook/internal/scoring"
	"github.com/roach88/scorebook/internal/store"
	"github.com/roach88/scorebook/internal/testutil"
)

const (
	lions  int64 = 1
	tigers int64 = 2
)

type testEngine struct {
	*Engine
	store  *store.Store
	events *publish.Recorder
	clock  *testutil.DeterministicClock
}

// createTestEngine opens a store in a temporary directory and returns an
// engine recording its events, with a deterministic clock.
func createTestEngine(t *testing.T, opts ...Option) *testEngine {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := testutil.NewDeterministicClock(time.Time{}, time.Second)
	s.SetClock(clock.Now)
	events := &publish.Recorder{}

	base := []Option{WithClock(clock.Now), WithPublisher(events)}
	e := New(s, append(base, opts...)...)
	return &testEngine{Engine: e, store: s, events: events, clock: clock}
}

// createTestMatch creates a Lions v Tigers match of the given overs.
func createTestMatch(t *testing.T, e *testEngine, overs int) scoring.Match {
	t.Helper()
	m, err := e.CreateMatch(context.Background(), scoring.NewMatch{
		Team1:      scoring.TeamRef{ID: lions, Name: "Lions"},
		Team2:      scoring.TeamRef{ID: tigers, Name: "Tigers"},
		TotalOvers: overs,
		Venue:      "Basin Reserve",
	})
	require.NoError(t, err)
	return m
}

// createLiveMatch creates a match and records a toss the Lions win and
// bat.
func createLiveMatch(t *testing.T, e *testEngine, overs int) scoring.Match {
	t.Helper()
	m := createTestMatch(t, e, overs)
	m, err := e.RecordToss(context.Background(), m.ID, lions, scoring.DecisionBat)
	require.NoError(t, err)
	return m
}

// scorer feeds deliveries for one innings, filling in the expected over
// and ball from the committed snapshot. Bowlers alternate by over. The
// striker keeps strike; a dismissed batter is replaced by the next id.
type scorer struct {
	t       *testing.T
	e       *testEngine
	matchID int64
	innings int

	striker, nonStriker, next int64
	bowlers                   [2]int64
}

func newScorer(t *testing.T, e *testEngine, matchID int64, innings int, firstBatter int64, bowlers [2]int64) *scorer {
	return &scorer{
		t: t, e: e, matchID: matchID, innings: innings,
		striker: firstBatter, nonStriker: firstBatter + 1, next: firstBatter + 2,
		bowlers: bowlers,
	}
}

// input builds the next expected delivery.
func (s *scorer) input(mod func(*scoring.DeliveryInput)) scoring.DeliveryInput {
	s.t.Helper()
	m, err := s.e.GetMatchSnapshot(context.Background(), s.matchID)
	require.NoError(s.t, err)
	balls := m.Innings[s.innings-1].LegalBalls
	over := balls / scoring.BallsPerOver
	in := scoring.DeliveryInput{
		Innings:      s.innings,
		OverNumber:   over,
		BallNumber:   balls%scoring.BallsPerOver + 1,
		BatsmanID:    s.striker,
		NonStrikerID: s.nonStriker,
		BowlerID:     s.bowlers[over%2],
	}
	if mod != nil {
		mod(&in)
	}
	return in
}

func (s *scorer) deliver(mod func(*scoring.DeliveryInput)) DeliveryResult {
	s.t.Helper()
	in := s.input(mod)
	res, err := s.e.RecordDelivery(context.Background(), s.matchID, in)
	require.NoError(s.t, err)
	if in.IsWicket {
		if in.PlayerOutID == s.nonStriker {
			s.nonStriker = in.IncomingBatsmanID
		} else {
			s.striker = in.IncomingBatsmanID
		}
	}
	return res
}

func (s *scorer) runs(n int) DeliveryResult {
	return s.deliver(func(d *scoring.DeliveryInput) { d.RunsScored = n })
}

func (s *scorer) repeat(times, n int) DeliveryResult {
	var res DeliveryResult
	for range times {
		res = s.runs(n)
	}
	return res
}

func (s *scorer) bowled() DeliveryResult {
	incoming := s.next
	s.next++
	return s.deliver(func(d *scoring.DeliveryInput) {
		d.IsWicket = true
		d.DismissalType = scoring.DismissalBowled
		d.IncomingBatsmanID = incoming
	})
}

// playShortMatch plays a two-over match: the Lions make 12/0 (one run a
// ball) and the Tigers chase it with 6, 6, 1 in the first over.
func playShortMatch(t *testing.T, e *testEngine) (scoring.Match, DeliveryResult) {
	t.Helper()
	m := createLiveMatch(t, e, 2)

	first := newScorer(t, e, m.ID, 1, 101, [2]int64{210, 211})
	first.repeat(12, 1)

	second := newScorer(t, e, m.ID, 2, 201, [2]int64{110, 111})
	second.runs(6)
	second.runs(6)
	return m, second.runs(1)
}
