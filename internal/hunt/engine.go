package hunt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m3rciful/gotto/core/logger"
	"github.com/m3rciful/gotto/core/telegram/state"
	"github.com/m3rciful/gotto/core/telemetry"
)

// Engine runs the hunt machine against a session store, one event at a time
// per session.
type Engine struct {
	store   state.Store[Session]
	machine *Machine
	locks   *state.KeyedMutex
}

// NewEngine wires an engine around store and gen.
func NewEngine(store state.Store[Session], gen Generator, opts ...MachineOption) *Engine {
	return &Engine{
		store:   store,
		machine: NewMachine(gen, opts...),
		locks:   state.NewKeyedMutex(),
	}
}

// Handle applies ev to the session under key and returns the replies to send.
// The session is persisted before Handle returns; delivering the replies is
// the caller's concern and does not affect the stored session.
func (e *Engine) Handle(ctx context.Context, key state.Key, ev Event) ([]Reply, error) {
	ctx, span := telemetry.Tracer("hunt").Start(ctx, "hunt.handle")
	defer span.End()
	span.SetAttributes(
		attribute.String("hunt.event", ev.Kind.String()),
		attribute.String("hunt.command", ev.Command),
	)

	unlock, err := e.locks.Lock(ctx, key)
	if err != nil {
		span.SetStatus(codes.Error, "lock")
		return nil, fmt.Errorf("hunt: lock session %s: %w", key, err)
	}
	defer unlock()

	start := time.Now()
	current, err := e.store.Get(ctx, key)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load")
		return nil, fmt.Errorf("hunt: load session %s: %w", key, err)
	}
	ctx = logger.WithRound(ctx, current.RoundID)

	out, err := e.machine.Step(ctx, current, ev)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "step")
		return nil, fmt.Errorf("hunt: step %s: %w", current.State, err)
	}

	if err := e.save(ctx, key, current, out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("hunt.state", current.State.String()),
		attribute.String("hunt.next_state", out.Session.State.String()),
	)
	logger.Debug(ctx, "hunt", "hunt.transition",
		slog.String("status", "ok"),
		slog.String("round_id", out.Session.RoundID),
		slog.String("state", current.State.String()),
		slog.String("next_state", out.Session.State.String()),
		slog.String("kind", ev.Kind.String()),
		slog.String("command", ev.Command),
		slog.Int("radius", out.Session.Radius),
		slog.Int("replies", len(out.Replies)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return out.Replies, nil
}

// save writes out.Session in a single Set. A /start overwrites every field of
// the previous round, so a failed write leaves the old session intact.
func (e *Engine) save(ctx context.Context, key state.Key, prev Session, out Outcome) error {
	if !out.Reset && out.Session == prev {
		return nil
	}
	if err := e.store.Set(ctx, key, out.Session); err != nil {
		return fmt.Errorf("hunt: save session %s: %w", key, err)
	}
	return nil
}

// Session returns the stored session under key.
func (e *Engine) Session(ctx context.Context, key state.Key) (Session, error) {
	return e.store.Get(ctx, key)
}

// Stats reports how many sessions the store holds. ok is false when the
// store cannot count.
func (e *Engine) Stats(ctx context.Context) (sessions int, ok bool, err error) {
	c, isCounter := e.store.(state.Counter)
	if !isCounter {
		return 0, false, nil
	}
	n, err := c.Len(ctx)
	if err != nil {
		return 0, true, fmt.Errorf("hunt: count sessions: %w", err)
	}
	return n, true, nil
}
