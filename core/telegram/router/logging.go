package router

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/gotto/core/logger"
	tghelpers "github.com/m3rciful/gotto/core/telegram/helpers"
	"github.com/m3rciful/gotto/core/telegram/middleware"
)

// summary describes one routed update; it is logged once as handler.handled.
type summary struct {
	handler string
	start   time.Time
	// status and outcome override the values derived from the handler error.
	status  string
	outcome string
}

func newSummary(handler string) summary {
	return summary{handler: handler, start: time.Now()}
}

// run executes fn with the handler name attached to the update context and
// logs the summary afterwards.
func (s summary) run(c tele.Context, fn func() error) error {
	tghelpers.WithHandler(c, s.handler)
	err := fn()
	s.log(c, err)
	return err
}

func (s summary) log(c tele.Context, err error) {
	ctx := tghelpers.WithHandler(c, s.handler)
	msgs, kb := middleware.GetCounters(c)

	result := "ok"
	if err != nil {
		result = "fail"
	}
	attrs := []slog.Attr{
		slog.String("status", orDefault(s.status, result)),
		slog.String("outcome", orDefault(s.outcome, result)),
		slog.Int("messages", msgs),
		slog.Int("pins", middleware.GetPins(c)),
		slog.Bool("kb", kb),
		slog.Duration("duration", logger.RoundMS(time.Since(s.start))),
	}
	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelWarn
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", errorCode(err)),
		)
	}
	logger.LogEvent(ctx, logger.Component("tg"), level, "handler.handled", attrs...)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// handlerName turns a command or button label into a log-friendly name:
// "/Check Now" becomes "check_now".
func handlerName(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	if name == "" {
		return "unknown"
	}
	return strings.ToLower(strings.Join(strings.Fields(name), "_"))
}

// errorCode prefers an explicit Code() from anywhere in the chain and falls
// back to the dynamic type name of err.
func errorCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		if code := handlerName(coded.Code()); code != "unknown" {
			return strings.ToUpper(code)
		}
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return "UNKNOWN_ERROR"
	}
	return strings.ToUpper(t.Name())
}
