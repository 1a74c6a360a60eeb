package helpers

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/gotto/core/logger"
)

// storeKey is the tele.Context slot holding the update's context.Context.
const storeKey = "update_ctx"

// StoreContext makes ctx the context handlers of this update log with.
func StoreContext(c tele.Context, ctx context.Context) {
	if c != nil && ctx != nil {
		c.Set(storeKey, ctx)
	}
}

// ContextFrom returns the context stored for the update, if any.
func ContextFrom(c tele.Context) (context.Context, bool) {
	if c == nil {
		return nil, false
	}
	ctx, ok := c.Get(storeKey).(context.Context)
	return ctx, ok
}

// BuildContext returns the stored update context, creating one with rid and
// update metadata when middleware did not run (tests, OnError).
func BuildContext(c tele.Context) context.Context {
	if ctx, ok := ContextFrom(c); ok {
		return ctx
	}
	upd := c.Update()
	userID, chatID := IDs(c)
	rid, _ := c.Get("rid").(string)
	if rid == "" {
		rid = logger.BuildRID(upd.ID, chatID, userID)
	}
	ctx := logger.WithUpdateMeta(logger.WithRID(logger.Background(), rid), upd.ID, userID, chatID)
	ctx = logger.WithLogger(ctx, logger.Component("tg"))
	StoreContext(c, ctx)
	return ctx
}

// WithHandler tags the update context with the handler name.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := BuildContext(c)
	if handler == "" || logger.HandlerFrom(ctx) == handler {
		return ctx
	}
	ctx = logger.WithHandler(ctx, handler)
	StoreContext(c, ctx)
	return ctx
}

// WithSpan stores ctx with span attached so later logs carry its ids.
func WithSpan(c tele.Context, ctx context.Context, span trace.Span) context.Context {
	ctx = trace.ContextWithSpan(ctx, span)
	StoreContext(c, ctx)
	return ctx
}

// IDs returns the sender and chat ids of an update, zero when absent.
func IDs(c tele.Context) (userID, chatID int64) {
	if u := c.Sender(); u != nil {
		userID = u.ID
	}
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	return userID, chatID
}

// Language returns the sender's Telegram language_code.
func Language(c tele.Context) string {
	if u := c.Sender(); u != nil {
		return u.LanguageCode
	}
	return ""
}
