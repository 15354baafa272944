package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// DefaultStreamPrefix is the stream key prefix when none is configured.
const DefaultStreamPrefix = "scorebook.matches"

// StreamPublisher appends match events to one Redis stream per match,
// keyed "<prefix>.<matchID>".
type StreamPublisher struct {
	client *redis.Client
	prefix string
	maxLen int64
}

// NewStreamPublisher creates a stream publisher. A maxLen above zero caps
// each stream approximately at that many entries.
func NewStreamPublisher(client *redis.Client, prefix string, maxLen int64) *StreamPublisher {
	if prefix == "" {
		prefix = DefaultStreamPrefix
	}
	return &StreamPublisher{client: client, prefix: prefix, maxLen: maxLen}
}

// Dial connects to Redis from a redis:// URL and checks the connection.
func Dial(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Stream returns the stream key for a match.
func (p *StreamPublisher) Stream(matchID int64) string {
	return streamKey(p.prefix, matchID)
}

func streamKey(prefix string, matchID int64) string {
	return prefix + "." + strconv.FormatInt(matchID, 10)
}

// Publish implements Publisher.
func (p *StreamPublisher) Publish(ctx context.Context, ev MatchEvent) error {
	values, err := streamValues(ev)
	if err != nil {
		return err
	}
	args := &redis.XAddArgs{
		Stream: p.Stream(ev.MatchID),
		Values: values,
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", args.Stream, err)
	}
	return nil
}

// Close closes the underlying client.
func (p *StreamPublisher) Close() error {
	return p.client.Close()
}

// streamValues flattens an event into stream entry fields. The full event
// is carried as JSON in "data"; the other fields allow filtering without
// decoding it.
func streamValues(ev MatchEvent) (map[string]any, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", ev.Type, err)
	}
	values := map[string]any{
		"type":     string(ev.Type),
		"match_id": ev.MatchID,
		"seq":      ev.Seq,
		"status":   string(ev.Match.Status),
		"data":     string(data),
	}
	if ev.FlowToken != "" {
		values["flow_token"] = ev.FlowToken
	}
	return values, nil
}
