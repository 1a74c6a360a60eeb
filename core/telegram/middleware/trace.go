package middleware

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/gotto/core/logger"
	tghelpers "github.com/m3rciful/gotto/core/telegram/helpers"
	"github.com/m3rciful/gotto/core/telemetry"
)

// TraceMiddleware opens one span per update. Handlers reach it through the
// context stored on tele.Context, so their logs carry trace and span ids.
func TraceMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx, span := telemetry.Tracer("tg").Start(logger.Background(), "tg.update")
		defer span.End()

		userID, chatID := tghelpers.IDs(c)
		span.SetAttributes(
			attribute.Int("tg.update_id", c.Update().ID),
			attribute.Int64("tg.chat_id", chatID),
			attribute.Int64("tg.user_id", userID),
			attribute.String("tg.kind", UpdateKind(c)),
		)
		tghelpers.WithSpan(c, ctx, span)

		err := next(c)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "handler failed")
		}
		return err
	}
}
