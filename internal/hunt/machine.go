package hunt

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m3rciful/gotto/core/logger"
	"github.com/m3rciful/gotto/core/telemetry"
)

// Outcome is the result of handling one event.
type Outcome struct {
	Session Session
	Replies []Reply
	// Reset starts a new round: Session replaces the stored one even when
	// equal to it.
	Reset bool
}

// Handler applies one event to a session. Handlers never mutate their input.
type Handler func(ctx context.Context, s Session, ev Event) (Outcome, error)

type route struct {
	state   State
	kind    EventKind
	command string
}

// Machine is the hunt transition table.
type Machine struct {
	gen        Generator
	newRoundID func() string
	routes     map[route]Handler
}

// MachineOption customises a Machine.
type MachineOption func(*Machine)

// WithRoundIDs overrides the round id source.
func WithRoundIDs(next func() string) MachineOption {
	return func(m *Machine) {
		if next != nil {
			m.newRoundID = next
		}
	}
}

// NewMachine builds the transition table around gen.
func NewMachine(gen Generator, opts ...MachineOption) *Machine {
	m := &Machine{
		gen:        gen,
		newRoundID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.routes = map[route]Handler{
		{AnyState, EventCommand, CmdStart}: m.start,
		{AnyState, EventCommand, CmdHelp}:  m.help,

		{StateGettingLocation, EventText, ""}:     m.setRadius,
		{StateGettingLocation, EventLocation, ""}: m.issueTarget,

		{StateWaitingForReach, EventCommand, CmdCheck}: m.promptCheck,
		{StateWaitingForReach, EventLocation, ""}:      m.checkArrival,
	}
	return m
}

// Lookup returns the handler for ev in state st. Wildcard commands win over
// state routes; unmatched events get the catch-all.
func (m *Machine) Lookup(st State, ev Event) Handler {
	if ev.Kind == EventCommand {
		if h, ok := m.routes[route{AnyState, EventCommand, ev.Command}]; ok {
			return h
		}
		if h, ok := m.routes[route{st, EventCommand, ev.Command}]; ok {
			return h
		}
		return m.expect
	}
	if h, ok := m.routes[route{st, ev.Kind, ""}]; ok {
		return h
	}
	return m.expect
}

// Step applies ev to s.
func (m *Machine) Step(ctx context.Context, s Session, ev Event) (Outcome, error) {
	return m.Lookup(s.State, ev)(ctx, s, ev)
}

func (m *Machine) start(_ context.Context, _ Session, _ Event) (Outcome, error) {
	next := Session{State: StateGettingLocation, RoundID: m.newRoundID()}
	return Outcome{
		Session: next,
		Replies: []Reply{Text(MsgWelcome)},
		Reset:   true,
	}, nil
}

func (m *Machine) help(_ context.Context, s Session, _ Event) (Outcome, error) {
	return Outcome{
		Session: s,
		Replies: []Reply{Text(MsgHelp, ThresholdMeters).As(FormatMarkdown)},
	}, nil
}

func (m *Machine) setRadius(_ context.Context, s Session, ev Event) (Outcome, error) {
	radius, err := ParseRadius(ev.Text)
	switch {
	case errors.Is(err, ErrRadiusNotPositive):
		return Outcome{Session: s, Replies: []Reply{Text(MsgRadiusNotPositive)}}, nil
	case err != nil:
		return Outcome{Session: s, Replies: []Reply{Text(MsgRadiusNotInteger)}}, nil
	}
	s.Radius = radius
	return Outcome{
		Session: s,
		Replies: []Reply{Text(MsgShareLocation).With(KeyboardShareLocation)},
	}, nil
}

func (m *Machine) issueTarget(ctx context.Context, s Session, ev Event) (Outcome, error) {
	if !s.HasRadius() {
		return Outcome{Session: s, Replies: []Reply{Text(MsgRadiusFirst)}}, nil
	}

	origin := ev.Location
	target, err := m.generate(ctx, s, origin)
	if err != nil {
		logger.Warn(ctx, "hunt", "hunt.generate",
			slog.String("status", "fail"),
			slog.String("round_id", s.RoundID),
			slog.Int("radius", s.Radius),
			slog.String("err", err.Error()),
		)
		return Outcome{
			Session: s,
			Replies: []Reply{Text(MsgGeneratorFailed).With(KeyboardShareLocation)},
		}, nil
	}

	_, d := CheckProximity(origin, target)
	s.State = StateWaitingForReach
	s.Target = &target
	return Outcome{
		Session: s,
		Replies: []Reply{
			Pin(target),
			Text(MsgTargetIssued, target.String(), RoundMeters(d), ThresholdMeters).
				As(FormatHTML).
				With(KeyboardRound),
		},
	}, nil
}

func (m *Machine) generate(ctx context.Context, s Session, origin Coordinate) (Coordinate, error) {
	ctx, span := telemetry.Tracer("hunt").Start(ctx, "hunt.generate")
	defer span.End()
	span.SetAttributes(attribute.Int("hunt.radius_m", s.Radius))

	if m.gen == nil {
		err := errors.New("hunt: no target generator configured")
		span.SetStatus(codes.Error, err.Error())
		return Coordinate{}, err
	}
	target, err := m.gen.Generate(ctx, origin, s.Radius)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate failed")
		return Coordinate{}, err
	}
	return target, nil
}

func (m *Machine) promptCheck(_ context.Context, s Session, _ Event) (Outcome, error) {
	return Outcome{
		Session: s,
		Replies: []Reply{Text(MsgCheckPrompt).With(KeyboardShareLocation)},
	}, nil
}

func (m *Machine) checkArrival(ctx context.Context, s Session, ev Event) (Outcome, error) {
	if s.Target == nil {
		return Outcome{Session: s, Replies: []Reply{Text(MsgLocationFirst)}}, nil
	}

	reached, d := CheckProximity(ev.Location, *s.Target)
	logger.Debug(ctx, "hunt", "hunt.proximity",
		slog.String("round_id", s.RoundID),
		slog.Float64("distance_m", d),
		slog.Bool("reached", reached),
	)
	if reached {
		return Outcome{
			Session: s,
			Replies: []Reply{Text(MsgReached).With(KeyboardRestart)},
		}, nil
	}
	return Outcome{
		Session: s,
		Replies: []Reply{Text(MsgRemaining, RoundMeters(d)).With(KeyboardRound)},
	}, nil
}

// expect is the catch-all: it explains what the current state is waiting for.
func (m *Machine) expect(_ context.Context, s Session, _ Event) (Outcome, error) {
	var r Reply
	switch s.State {
	case StateGettingLocation:
		if s.HasRadius() {
			r = Text(MsgExpectLocation).With(KeyboardShareLocation)
		} else {
			r = Text(MsgExpectRadius)
		}
	case StateWaitingForReach:
		r = Text(MsgExpectCheck).With(KeyboardRound)
	default:
		r = Text(MsgExpectStart).With(KeyboardRestart)
	}
	return Outcome{Session: s, Replies: []Reply{r}}, nil
}
