package middleware

import (
	"log/slog"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/gotto/core/logger"
	tghelpers "github.com/m3rciful/gotto/core/telegram/helpers"
)

// seenWindow is how many recent update ids are remembered for receipt dedup.
const seenWindow = 256

// seenUpdates is a fixed-size ring of update ids. Telegram redelivers an
// update when the previous getUpdates offset was not acknowledged.
type seenUpdates struct {
	mu   sync.Mutex
	ring [seenWindow]int
	set  map[int]struct{}
	next int
}

var receipts = &seenUpdates{set: make(map[int]struct{}, seenWindow)}

// mark records id and reports whether it was already present.
func (s *seenUpdates) mark(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.set[id]; ok {
		return true
	}
	if len(s.set) == seenWindow {
		delete(s.set, s.ring[s.next])
	}
	s.ring[s.next] = id
	s.set[id] = struct{}{}
	s.next = (s.next + 1) % seenWindow
	return false
}

// UpdateKind names the payload of a message update for logs.
func UpdateKind(c tele.Context) string {
	msg := c.Message()
	switch {
	case msg == nil:
		return "other"
	case msg.Location != nil:
		return "location"
	case msg.Text != "":
		return "text"
	case msg.Photo != nil:
		return "photo"
	case msg.Sticker != nil:
		return "sticker"
	case msg.Contact != nil:
		return "contact"
	case msg.Document != nil:
		return "document"
	}
	return "other"
}

// LoggerMiddleware assigns the request id, stores the update context for
// handlers and logs one sampled update.received line per update.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		userID, chatID := tghelpers.IDs(c)
		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)

		// A context stored earlier carries the span from TraceMiddleware.
		ctx, ok := tghelpers.ContextFrom(c)
		if !ok {
			ctx = logger.Background()
		}
		ctx = logger.WithRID(ctx, rid)
		ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
		ctx = logger.WithLogger(ctx, logger.Component("tg"))
		tghelpers.StoreContext(c, ctx)

		if logger.ShouldSampleDebug() && !receipts.mark(upd.ID) {
			logger.LogEvent(ctx, logger.Component("tg"), slog.LevelDebug, "update.received", receiptAttrs(c)...)
		}
		return next(c)
	}
}

func receiptAttrs(c tele.Context) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("status", "ok"),
		slog.String("kind", UpdateKind(c)),
	}
	if chat := c.Chat(); chat != nil {
		attrs = append(attrs, slog.String("chat_type", string(chat.Type)))
	}
	if u := c.Sender(); u != nil {
		if u.Username != "" {
			attrs = append(attrs, slog.String("username", logger.SanitizeLimit(u.Username, 64)))
		}
		if u.LanguageCode != "" {
			attrs = append(attrs, slog.String("lang", u.LanguageCode))
		}
	}
	if loc := c.Message(); loc != nil && loc.Location != nil {
		attrs = append(attrs,
			slog.Float64("lat", float64(loc.Location.Lat)),
			slog.Float64("lon", float64(loc.Location.Lng)),
		)
	}
	if t := c.Text(); t != "" {
		attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(t, 256)))
	}
	return attrs
}
