package middleware

import (
	"sync/atomic"

	tele "gopkg.in/telebot.v4"
)

const countersKey = "reply_counters"

// counters tracks what was sent in reply to one update. Replies may leave
// through dispatcher workers, so fields are atomic.
type counters struct {
	messages atomic.Int64
	pins     atomic.Int64
	keyboard atomic.Bool
}

func countersFrom(c tele.Context) *counters {
	if c == nil {
		return nil
	}
	n, _ := c.Get(countersKey).(*counters)
	return n
}

// countingContext wraps tele.Context so that every successful Send or Reply
// is counted.
type countingContext struct {
	tele.Context
	n *counters
}

func (m countingContext) record(what any, opts []any) {
	m.n.messages.Add(1)
	if _, ok := what.(*tele.Location); ok {
		m.n.pins.Add(1)
	}
	if withKeyboard(opts) {
		m.n.keyboard.Store(true)
	}
}

func withKeyboard(opts []any) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

func (m countingContext) Send(what any, opts ...any) error {
	err := m.Context.Send(what, opts...)
	if err == nil {
		m.record(what, opts)
	}
	return err
}

func (m countingContext) Reply(what any, opts ...any) error {
	err := m.Context.Reply(what, opts...)
	if err == nil {
		m.record(what, opts)
	}
	return err
}

// MessageMetricsMiddleware counts replies, map pins and keyboards sent while
// handling an update; the handler summary reads them back.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		n := &counters{}
		c.Set(countersKey, n)
		return next(countingContext{Context: c, n: n})
	}
}

// GetPins reads the number of map pins sent while handling the update.
func GetPins(c tele.Context) int {
	if n := countersFrom(c); n != nil {
		return int(n.pins.Load())
	}
	return 0
}

// GetCounters reads the reply count and whether any reply carried a keyboard.
func GetCounters(c tele.Context) (int, bool) {
	n := countersFrom(c)
	if n == nil {
		return 0, false
	}
	return int(n.messages.Load()), n.keyboard.Load()
}
