package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/scorebook/internal/scoring"
)

var testTime = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	s.SetClock(func() time.Time { return testTime })
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestMatchValue returns an upcoming 20-over match between teams 1 and 2.
func createTestMatchValue() scoring.Match {
	return scoring.Match{
		Team1:      scoring.TeamRef{ID: 1, Name: "Lions"},
		Team2:      scoring.TeamRef{ID: 2, Name: "Tigers"},
		TotalOvers: 20,
		Venue:      "Eden Park",
		Status:     scoring.StatusUpcoming,
		CreatedAt:  testTime,
		UpdatedAt:  testTime,
	}
}

// createTestMatch inserts an upcoming match and returns it with its ID.
func createTestMatch(t *testing.T, s *Store) scoring.Match {
	t.Helper()
	ctx := context.Background()
	m := createTestMatchValue()
	err := s.WithTx(ctx, func(tx *Tx) error {
		id, err := tx.InsertMatch(ctx, m)
		m.ID = id
		return err
	})
	if err != nil {
		t.Fatalf("insert match: %v", err)
	}
	return m
}

// createTestDelivery creates a dot ball with minimal required fields.
func createTestDelivery(matchID int64, id string, seq, over, ball int) scoring.Delivery {
	return scoring.Delivery{
		ID:      id,
		MatchID: matchID,
		Seq:     seq,
		DeliveryInput: scoring.DeliveryInput{
			Innings:       1,
			OverNumber:    over,
			BallNumber:    ball,
			BatsmanID:     101,
			NonStrikerID:  102,
			BowlerID:      210,
			ExtrasType:    scoring.ExtrasNone,
			DismissalType: scoring.DismissalNone,
		},
		FlowToken:  "flow-1",
		RecordedAt: testTime,
	}
}
