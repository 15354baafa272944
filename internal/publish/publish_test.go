package publish

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scorebook/internal/scoring"
)

func testEvent() MatchEvent {
	return MatchEvent{
		Type:      EventDeliveryRecorded,
		MatchID:   7,
		Seq:       12,
		FlowToken: "flow-1",
		Innings:   1,
		Match: scoring.Match{
			ID:     7,
			Team1:  scoring.TeamRef{ID: 1, Name: "Lions"},
			Team2:  scoring.TeamRef{ID: 2, Name: "Tigers"},
			Status: scoring.StatusLive,
		},
		At: time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC),
	}
}

func TestStreamKey(t *testing.T) {
	p := NewStreamPublisher(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "", 0)
	defer p.Close()

	assert.Equal(t, "scorebook.matches.7", p.Stream(7))
	assert.Equal(t, "live.42", streamKey("live", 42))
}

func TestStreamValues(t *testing.T) {
	values, err := streamValues(testEvent())
	require.NoError(t, err)

	assert.Equal(t, "delivery_recorded", values["type"])
	assert.Equal(t, int64(7), values["match_id"])
	assert.Equal(t, 12, values["seq"])
	assert.Equal(t, "live", values["status"])
	assert.Equal(t, "flow-1", values["flow_token"])

	var decoded MatchEvent
	require.NoError(t, json.Unmarshal([]byte(values["data"].(string)), &decoded))
	assert.Equal(t, EventDeliveryRecorded, decoded.Type)
	assert.Equal(t, "Tigers", decoded.Match.Team2.Name)
	assert.Nil(t, decoded.Delivery)
}

func TestStreamValues_OmitsEmptyFlowToken(t *testing.T) {
	ev := testEvent()
	ev.FlowToken = ""

	values, err := streamValues(ev)
	require.NoError(t, err)

	_, ok := values["flow_token"]
	assert.False(t, ok)
}

func TestRecorder(t *testing.T) {
	var r Recorder
	ctx := context.Background()

	require.NoError(t, r.Publish(ctx, MatchEvent{Type: EventTossRecorded}))
	require.NoError(t, r.Publish(ctx, MatchEvent{Type: EventDeliveryRecorded}))

	assert.Equal(t, []EventType{EventTossRecorded, EventDeliveryRecorded}, r.Types())
	assert.Len(t, r.Events(), 2)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), testEvent()))
}
