package middleware

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/gotto/core/logger"
	tghelpers "github.com/m3rciful/gotto/core/telegram/helpers"
)

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	Interval time.Duration
	// Exclude lists update classes ("message", "callback", "inline_query")
	// that bypass the limit.
	Exclude   []string
	OnLimited tele.HandlerFunc
	// Now is the clock, time.Now when nil.
	Now func() time.Time
}

// updateClass buckets updates the way rate_limit.exclude_updates names them.
func updateClass(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return "callback"
	case upd.Message != nil:
		return "message"
	case upd.Query != nil:
		return "inline_query"
	}
	return "other"
}

// RateLimitMiddleware returns a middleware that enforces a minimum interval
// between updates from the same user. Limited updates never reach the
// handler, so they do not touch the user's session.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	var (
		lastSeen = make(map[int64]time.Time)
		mu       sync.Mutex
		sweptAt  time.Time
	)
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 {
				return next(c)
			}
			if slices.Contains(opts.Exclude, updateClass(c.Update())) {
				return next(c)
			}

			t := now()
			mu.Lock()
			if t.Sub(sweptAt) > time.Minute {
				for id, seen := range lastSeen {
					if t.Sub(seen) >= opts.Interval {
						delete(lastSeen, id)
					}
				}
				sweptAt = t
			}
			if last, ok := lastSeen[user.ID]; ok && t.Sub(last) < opts.Interval {
				mu.Unlock()
				ctx := tghelpers.BuildContext(c)
				_, chatID := tghelpers.IDs(c)
				logger.TG.WarnContext(ctx, "rate limit",
					slog.String("event", "tg.rate_limit"),
					slog.Int64("chat_id", chatID),
					slog.Int64("user_id", user.ID),
				)
				if opts.OnLimited != nil {
					return opts.OnLimited(c)
				}
				return nil
			}
			lastSeen[user.ID] = t
			mu.Unlock()
			return next(c)
		}
	}
}
