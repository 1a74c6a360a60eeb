package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/gotto/core/logger"
	tghelpers "github.com/m3rciful/gotto/core/telegram/helpers"
)

// PanicError is returned by RecoverMiddleware in place of a handler panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string { return fmt.Sprintf("telegram: handler panic: %v", e.Value) }

// Code classifies the error in handler summaries.
func (e *PanicError) Code() string { return "panic" }

// Unwrap exposes a panicked error value.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// RecoverMiddleware turns a handler panic into a *PanicError so the update
// is logged as failed and the bot keeps serving other updates.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			perr := &PanicError{Value: r, Stack: debug.Stack()}
			logger.TG.ErrorContext(tghelpers.BuildContext(c), "panic recovered",
				slog.String("event", "tg.panic"),
				slog.String("err", logger.SanitizeLimit(fmt.Sprint(r), 256)),
				slog.String("stack", string(perr.Stack)),
			)
			err = perr
		}()
		return next(c)
	}
}
