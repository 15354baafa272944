// Package publish emits committed match state to downstream consumers.
//
// Events are published after the unit of work that produced them has
// committed. A publish failure never affects the committed match.
package publish

import (
	"context"
	"sync"
	"time"

	"github.com/roach88/scorebook/internal/scoring"
)

// EventType names what happened to a match.
type EventType string

const (
	EventTossRecorded     EventType = "toss_recorded"
	EventDeliveryRecorded EventType = "delivery_recorded"
	EventInningsClosed    EventType = "innings_closed"
	EventMatchCompleted   EventType = "match_completed"
	EventMatchAbandoned   EventType = "match_abandoned"
)

// MatchEvent is one committed change. Match is the snapshot after the
// change; Delivery is set for delivery_recorded and for the innings and
// match events a delivery caused.
type MatchEvent struct {
	Type      EventType         `json:"type"`
	MatchID   int64             `json:"match_id"`
	Seq       int               `json:"seq"`
	FlowToken string            `json:"flow_token,omitempty"`
	Innings   int               `json:"innings,omitempty"`
	Match     scoring.Match     `json:"match"`
	Delivery  *scoring.Delivery `json:"delivery,omitempty"`
	At        time.Time         `json:"at"`
}

// Publisher delivers match events. Implementations must be safe for
// concurrent use: the engine publishes from many goroutines.
type Publisher interface {
	Publish(ctx context.Context, ev MatchEvent) error
}

// Nop discards every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, MatchEvent) error { return nil }

// Recorder keeps every event in memory, in publish order.
type Recorder struct {
	mu     sync.Mutex
	events []MatchEvent
}

// Publish implements Publisher.
func (r *Recorder) Publish(_ context.Context, ev MatchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []MatchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]MatchEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the recorded event types, in order.
func (r *Recorder) Types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}
