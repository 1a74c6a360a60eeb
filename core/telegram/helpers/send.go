package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/gotto/core/logger"
	"github.com/m3rciful/gotto/core/telegram/sender"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

// Dispatcher returns the wired sender, nil when sends are synchronous.
func Dispatcher() *sender.Dispatcher {
	return globalDispatcher.Load()
}

// SendSteps delivers steps in order through the dispatcher. When the queue
// refuses the job the steps run inline with the same retry policy.
func SendSteps(c tele.Context, action, endpoint string, steps ...sender.Step) error {
	disp := Dispatcher()
	if disp == nil {
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	}

	ctx := BuildContext(c)
	if err := disp.EnqueueSteps(ctx, action, endpoint, steps...); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, "tg.sender", "queue.fallback",
				slog.String("action", action),
				slog.String("endpoint", endpoint),
				slog.String("err", err.Error()),
			)
			return disp.RunSteps(ctx, action, endpoint, steps...)
		}
		return err
	}
	return nil
}

// TextStep builds a step sending text with opts to the current chat.
func TextStep(c tele.Context, text string, opts *tele.SendOptions) sender.Step {
	return func() error {
		if opts != nil {
			return c.Send(text, opts)
		}
		return c.Send(text)
	}
}

// LocationStep builds a step sending a map pin to the current chat.
func LocationStep(c tele.Context, lat, lon float64) sender.Step {
	loc := &tele.Location{Lat: float32(lat), Lng: float32(lon)}
	return func() error {
		return c.Send(loc)
	}
}
