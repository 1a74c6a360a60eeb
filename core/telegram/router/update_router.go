package router

import (
	"strings"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/gotto/core/telegram"
	"github.com/m3rciful/gotto/core/telegram/middleware"
)

// UpdateEndpoints are the message kinds forwarded to the update handler.
var UpdateEndpoints = []string{
	tele.OnText,
	tele.OnLocation,
	tele.OnMedia,
	tele.OnSticker,
	tele.OnContact,
	tele.OnDocument,
}

// UpdateOptions controls how non-command messages are routed.
type UpdateOptions struct {
	// Handler receives every message no registered command claimed.
	Handler tele.HandlerFunc
	// Endpoints overrides UpdateEndpoints.
	Endpoints []string
}

// UpdateRoutes routes free text, locations and other message kinds. Slash
// text that names a registered command or alias (e.g. "/check@bot") is sent to
// that command; everything else goes to the registry's text fallback, then
// to opts.Handler.
func UpdateRoutes(reg *tg.Registry, opts UpdateOptions) []tg.Route {
	handler := func(c tele.Context) error {
		if reg != nil && strings.HasPrefix(c.Text(), "/") {
			if key, cmd, ok := reg.LookupCommand(c.Text()); ok && cmd.Handler != nil && !cmd.AdminOnly {
				return newSummary(handlerName(key)).run(c, func() error {
					return cmd.Handler(c)
				})
			}
		}

		fallback := opts.Handler
		if reg != nil && reg.TextFallback() != nil {
			fallback = reg.TextFallback()
		}
		if fallback == nil {
			s := newSummary("unhandled")
			s.status = "skip"
			s.log(c, nil)
			return nil
		}
		return newSummary("update."+middleware.UpdateKind(c)).run(c, func() error {
			return fallback(c)
		})
	}

	kinds := opts.Endpoints
	if len(kinds) == 0 {
		kinds = UpdateEndpoints
	}
	routes := make([]tg.Route, 0, len(kinds))
	for _, ep := range kinds {
		routes = append(routes, tg.Route{Endpoint: ep, Handler: handler})
	}
	return routes
}
