package bot

import (
	"context"
	"log/slog"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/gotto/core/logger"
	"github.com/m3rciful/gotto/core/telegram/helpers"
	"github.com/m3rciful/gotto/core/telegram/state"
	"github.com/m3rciful/gotto/internal/hunt"
)

// Handlers adapt Telegram updates to engine events.
type Handlers struct {
	engine   *hunt.Engine
	renderer *Renderer
}

// NewHandlers wires handlers around engine and renderer.
func NewHandlers(engine *hunt.Engine, renderer *Renderer) *Handlers {
	return &Handlers{engine: engine, renderer: renderer}
}

// Command returns a handler feeding the fixed command name to the engine,
// whatever text the update carried.
func (h *Handlers) Command(name string) tele.HandlerFunc {
	return func(c tele.Context) error {
		ev := hunt.CommandEvent(name)
		ev.Text = c.Text()
		return h.dispatch(c, ev)
	}
}

// Update handles every non-command message.
func (h *Handlers) Update(c tele.Context) error {
	return h.dispatch(c, EventFrom(c))
}

// Stats reports stored sessions and delivered and failed reply jobs.
func (h *Handlers) Stats(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	lang := helpers.Language(c)
	sessions := "n/a"
	n, ok, err := h.engine.Stats(ctx)
	if err != nil {
		logger.Warn(ctx, "hunt", "hunt.stats", slog.String("err", err.Error()))
	} else if ok {
		sessions = strconv.Itoa(n)
	}
	var sent, failed uint64
	if d := helpers.Dispatcher(); d != nil {
		sent, failed = d.SentCount(), d.ErrorCount()
	}
	return h.renderer.Send(c, lang, []hunt.Reply{hunt.Text(hunt.MsgStats, sessions, sent, failed)})
}

// Limited answers an update the rate limit skipped, so the user knows to
// resend it.
func (h *Handlers) Limited(c tele.Context) error {
	return h.renderer.Send(c, helpers.Language(c), []hunt.Reply{hunt.Text(hunt.MsgTooFast)})
}

func (h *Handlers) dispatch(c tele.Context, ev hunt.Event) error {
	ctx := helpers.BuildContext(c)
	ev.Lang = helpers.Language(c)
	replies, err := h.engine.Handle(ctx, state.KeyFrom(c), ev)
	if err != nil {
		h.fail(ctx, c, ev, err)
		return err
	}
	return h.renderer.Send(c, ev.Lang, replies)
}

func (h *Handlers) fail(ctx context.Context, c tele.Context, ev hunt.Event, err error) {
	logger.Error(ctx, "hunt", "hunt.handle",
		slog.String("status", "error"),
		slog.String("kind", ev.Kind.String()),
		slog.String("command", ev.Command),
		slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
	)
	if serr := h.renderer.Send(c, ev.Lang, []hunt.Reply{hunt.Text(hunt.MsgInternalError)}); serr != nil {
		logger.Warn(ctx, "hunt", "hunt.handle.notify", slog.String("err", serr.Error()))
	}
}

// EventFrom classifies a message into an engine event.
func EventFrom(c tele.Context) hunt.Event {
	msg := c.Message()
	if msg == nil {
		return hunt.Event{Kind: hunt.EventOther}
	}
	if loc := msg.Location; loc != nil {
		// telebot decodes coordinates as float32: about 7 significant digits,
		// roughly 1 m at longitudes past 100°. Well inside the arrival radius.
		return hunt.LocationEvent(float64(loc.Lat), float64(loc.Lng))
	}
	if msg.Text != "" {
		return hunt.TextEvent(msg.Text)
	}
	return hunt.Event{Kind: hunt.EventOther}
}
