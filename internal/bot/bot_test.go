package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/gotto/core/telegram/state"
	"github.com/m3rciful/gotto/internal/hunt"
	"github.com/m3rciful/gotto/internal/texts"
)

type sent struct {
	what any
	opts *tele.SendOptions
}

// recordingContext captures sends instead of calling the Bot API.
type recordingContext struct {
	tele.Context
	sent []sent
}

func (r *recordingContext) Send(what any, opts ...any) error {
	s := sent{what: what}
	for _, o := range opts {
		if so, ok := o.(*tele.SendOptions); ok {
			s.opts = so
		}
	}
	r.sent = append(r.sent, s)
	return nil
}

func newUpdate(msg *tele.Message) *recordingContext {
	if msg.Sender == nil {
		msg.Sender = &tele.User{ID: 7, LanguageCode: "en"}
	}
	if msg.Chat == nil {
		msg.Chat = &tele.Chat{ID: 7}
	}
	return &recordingContext{Context: tele.NewContext(nil, tele.Update{ID: 1, Message: msg})}
}

func northGenerator() hunt.Generator {
	return hunt.GeneratorFunc(func(_ context.Context, origin hunt.Coordinate, _ int) (hunt.Coordinate, error) {
		return hunt.Coordinate{Lat: origin.Lat + 0.01, Lon: origin.Lon}, nil
	})
}

func newTestApp(t *testing.T, gen hunt.Generator) *App {
	t.Helper()
	app, err := New(&Config{}, state.NewMemoryStore[hunt.Session](), gen)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return app
}

func TestEventFrom(t *testing.T) {
	tests := []struct {
		name    string
		msg     *tele.Message
		kind    hunt.EventKind
		command string
	}{
		{"text", &tele.Message{Text: "250"}, hunt.EventText, ""},
		{"command text", &tele.Message{Text: "/check@gotto_bot"}, hunt.EventCommand, hunt.CmdCheck},
		{"location", &tele.Message{Location: &tele.Location{Lat: 55.75, Lng: 37.61}}, hunt.EventLocation, ""},
		{"sticker", &tele.Message{Sticker: &tele.Sticker{}}, hunt.EventOther, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := EventFrom(newUpdate(tt.msg))
			if ev.Kind != tt.kind || ev.Command != tt.command {
				t.Fatalf("event = %v %q", ev.Kind, ev.Command)
			}
		})
	}
}

func TestRendererMessage(t *testing.T) {
	r := NewRenderer(texts.MustNew())

	text, opts := r.Message("en", hunt.Text(hunt.MsgShareLocation).With(hunt.KeyboardShareLocation))
	if text == "" || opts.ParseMode != tele.ModeDefault {
		t.Fatalf("text=%q mode=%q", text, opts.ParseMode)
	}
	if opts.ReplyMarkup == nil || len(opts.ReplyMarkup.ReplyKeyboard) != 1 || !opts.ReplyMarkup.ReplyKeyboard[0][0].Location {
		t.Fatalf("markup = %+v", opts.ReplyMarkup)
	}
	if got := opts.ReplyMarkup.ReplyKeyboard[0][0].Text; got != "Share location" {
		t.Fatalf("button = %q", got)
	}

	_, opts = r.Message("ru", hunt.Text(hunt.MsgHelp, hunt.ThresholdMeters).As(hunt.FormatMarkdown))
	if opts.ParseMode != tele.ModeMarkdown || opts.ReplyMarkup != nil || !opts.DisableWebPagePreview {
		t.Fatalf("help opts = %+v", opts)
	}

	_, opts = r.Message("en", hunt.Text(hunt.MsgRemaining, 10).With(hunt.KeyboardRound))
	row := opts.ReplyMarkup.ReplyKeyboard[0]
	if len(row) != 2 || row[0].Text != hunt.CmdCheck || row[1].Text != hunt.CmdStart {
		t.Fatalf("round keyboard = %+v", row)
	}
}

func TestRoundThroughHandlers(t *testing.T) {
	app := newTestApp(t, northGenerator())
	h := app.handlers

	c := newUpdate(&tele.Message{Text: "/start"})
	if err := h.Command(hunt.CmdStart)(c); err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(c.sent) != 1 || !strings.HasPrefix(c.sent[0].what.(string), "Welcome") {
		t.Fatalf("start sent = %+v", c.sent)
	}

	c = newUpdate(&tele.Message{Text: "500"})
	if err := h.Update(c); err != nil {
		t.Fatalf("radius: %v", err)
	}
	if len(c.sent) != 1 || c.sent[0].opts.ReplyMarkup == nil {
		t.Fatalf("radius sent = %+v", c.sent)
	}

	c = newUpdate(&tele.Message{Location: &tele.Location{Lat: 10, Lng: 20}})
	if err := h.Update(c); err != nil {
		t.Fatalf("location: %v", err)
	}
	if len(c.sent) != 2 {
		t.Fatalf("location sent %d messages", len(c.sent))
	}
	if _, ok := c.sent[0].what.(*tele.Location); !ok {
		t.Fatalf("first send = %T, want pin", c.sent[0].what)
	}
	if c.sent[1].opts.ParseMode != tele.ModeHTML {
		t.Fatalf("target parse mode = %q", c.sent[1].opts.ParseMode)
	}

	c = newUpdate(&tele.Message{Text: "/check"})
	if err := h.Command(hunt.CmdCheck)(c); err != nil {
		t.Fatalf("check: %v", err)
	}
	s, err := app.engine.Session(context.Background(), state.Key{ChatID: 7, UserID: 7})
	if err != nil || s.State != hunt.StateWaitingForReach {
		t.Fatalf("session = %+v, %v", s, err)
	}
}

func TestEngineFailureNotifiesUser(t *testing.T) {
	app, err := New(&Config{}, brokenStore{}, northGenerator())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	c := newUpdate(&tele.Message{Text: "/start"})
	if err := app.handlers.Command(hunt.CmdStart)(c); err == nil {
		t.Fatal("expected error")
	}
	if len(c.sent) != 1 || c.sent[0].what != "Something went wrong. Please try again." {
		t.Fatalf("sent = %+v", c.sent)
	}
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, state.Key) (hunt.Session, error) {
	return hunt.Session{}, errors.New("db down")
}
func (brokenStore) Set(context.Context, state.Key, hunt.Session) error { return nil }
func (brokenStore) Reset(context.Context, state.Key) error             { return nil }

func TestStatsCountsSessions(t *testing.T) {
	app := newTestApp(t, northGenerator())
	if err := app.handlers.Command(hunt.CmdStart)(newUpdate(&tele.Message{Text: "/start"})); err != nil {
		t.Fatalf("start: %v", err)
	}
	c := newUpdate(&tele.Message{Text: "/stats"})
	if err := app.handlers.Stats(c); err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(c.sent) != 1 || c.sent[0].what != "Sessions: 1\nSent: 0\nSend failures: 0" {
		t.Fatalf("sent = %+v", c.sent)
	}
}

func TestRegistryLocalizesMenu(t *testing.T) {
	reg := newTestApp(t, northGenerator()).Registry()

	visible := reg.ListCommands(true, "en")
	if len(visible) != 3 {
		t.Fatalf("visible = %+v", visible)
	}
	for _, cmd := range visible {
		if cmd.Text == "stats" {
			t.Fatal("stats must stay hidden")
		}
	}
	if _, cmd, ok := reg.LookupCommand("/help"); !ok || cmd.DescriptionFor("en") != "how to use the bot" || cmd.Description != "как пользоваться ботом" {
		t.Fatalf("help = %+v", cmd)
	}
	if _, cmd, ok := reg.LookupCommand("/stats"); !ok || !cmd.AdminOnly {
		t.Fatalf("stats = %+v", cmd)
	}
}

func TestRateLimitedUpdateIsAnswered(t *testing.T) {
	cfg := &Config{}
	cfg.RateLimit.IntervalMS = 300
	app, err := New(cfg, state.NewMemoryStore[hunt.Session](), northGenerator())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	opts, err := app.TelegramRunOptions()
	if err != nil {
		t.Fatalf("run options: %v", err)
	}
	var limiter tele.MiddlewareFunc
	for _, mw := range opts.Middlewares {
		if mw.Name == "rate_limit" {
			limiter = mw.Use
		}
	}
	if limiter == nil {
		t.Fatal("rate limit middleware not installed")
	}

	handled := 0
	h := limiter(func(tele.Context) error { handled++; return nil })
	first := newUpdate(&tele.Message{Location: &tele.Location{Lat: 1, Lng: 1}})
	second := newUpdate(&tele.Message{Location: &tele.Location{Lat: 1, Lng: 1}})
	if err := h(first); err != nil {
		t.Fatalf("first: %v", err)
	}
	if err := h(second); err != nil {
		t.Fatalf("second: %v", err)
	}

	if handled != 1 {
		t.Fatalf("handled = %d, want 1", handled)
	}
	if len(first.sent) != 0 {
		t.Fatalf("first sent = %+v", first.sent)
	}
	if len(second.sent) != 1 || second.sent[0].what != "Too fast, that message was skipped. Please send it again." {
		t.Fatalf("second sent = %+v", second.sent)
	}
}
