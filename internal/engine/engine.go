package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/scorebook/internal/metrics"
	"github.com/roach88/scorebook/internal/publish"
	"github.com/roach88/scorebook/internal/scoring"
	"github.com/roach88/scorebook/internal/store"
)

// Engine runs scoring operations against a store.
//
// Thread-safety: all methods are safe for concurrent use. Operations on the
// same match are serialized by the match lock; operations on different
// matches proceed independently.
type Engine struct {
	store     *store.Store
	locks     *lockTable
	flowGen   FlowTokenGenerator
	now       func() time.Time
	publisher publish.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithFlowGenerator sets the flow token generator. Default: UUIDv7Generator.
func WithFlowGenerator(g FlowTokenGenerator) Option {
	return func(e *Engine) { e.flowGen = g }
}

// WithClock sets the wall clock used for created, updated and recorded
// timestamps. Default: time.Now in UTC.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithPublisher sets where committed match events go. Default: publish.Nop.
func WithPublisher(p publish.Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

// WithMetrics sets the instruments the engine records to. Default: a fresh
// metrics.Metrics with its own registry.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine over an open store.
func New(s *store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:     s,
		locks:     newLockTable(),
		flowGen:   UUIDv7Generator{},
		now:       func() time.Time { return time.Now().UTC() },
		publisher: publish.Nop{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = metrics.New()
	}
	return e
}

// Metrics returns the engine's instruments.
func (e *Engine) Metrics() *metrics.Metrics { return e.metrics }

// Ping checks that the store is reachable.
func (e *Engine) Ping(ctx context.Context) error { return e.store.Ping(ctx) }

// NewFlow generates a flow token for one external request.
func (e *Engine) NewFlow() string {
	return e.flowGen.Generate()
}

// unit runs fn as one unit of work on a match: under the match lock, in
// one store transaction. Errors are counted and logged before they are
// returned.
func (e *Engine) unit(ctx context.Context, op string, matchID int64, fn func(tx *store.Tx) error) error {
	start := time.Now()
	defer e.metrics.Observe(op, start)

	unlock := e.locks.lock(matchID)
	defer unlock()

	if err := e.store.WithTx(ctx, fn); err != nil {
		return e.reject(op, matchID, err)
	}
	return nil
}

// write runs fn in a writer transaction without a match lock, for work
// that touches no existing match.
func (e *Engine) write(ctx context.Context, op string, fn func(tx *store.Tx) error) error {
	start := time.Now()
	defer e.metrics.Observe(op, start)

	if err := e.store.WithTx(ctx, fn); err != nil {
		return e.reject(op, 0, err)
	}
	return nil
}

// read runs fn in a read transaction without taking a match lock. It sees
// committed state only and never waits on a unit of work.
func (e *Engine) read(ctx context.Context, op string, fn func(tx *store.Tx) error) error {
	start := time.Now()
	defer e.metrics.Observe(op, start)

	if err := e.store.View(ctx, fn); err != nil {
		return e.reject(op, 0, err)
	}
	return nil
}

func (e *Engine) reject(op string, matchID int64, err error) error {
	code := scoring.CodeOf(err)
	e.metrics.Rejected(op, string(code))
	if code == "" {
		e.logger.Error("operation failed", "op", op, "match", matchID, "error", err)
	} else {
		e.logger.Debug("operation rejected", "op", op, "match", matchID, "code", code, "error", err)
	}
	return err
}

// publish sends committed events. The unit has already committed, so the
// caller's cancellation does not apply and failures are only logged.
func (e *Engine) publish(ctx context.Context, events ...publish.MatchEvent) {
	ctx = context.WithoutCancel(ctx)
	for _, ev := range events {
		if err := e.publisher.Publish(ctx, ev); err != nil {
			e.metrics.PublishFailed()
			e.logger.Warn("publish failed",
				"match", ev.MatchID,
				"event", ev.Type,
				"seq", ev.Seq,
				"error", err,
			)
		}
	}
}

func (e *Engine) event(typ publish.EventType, m scoring.Match, flow string) publish.MatchEvent {
	return publish.MatchEvent{
		Type:      typ,
		MatchID:   m.ID,
		Seq:       m.DeliveryCount,
		FlowToken: flow,
		Match:     m,
		At:        m.UpdatedAt,
	}
}
