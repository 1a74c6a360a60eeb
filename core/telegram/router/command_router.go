package router

import (
	"log/slog"
	"maps"
	"slices"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/gotto/core/logger"
	tg "github.com/m3rciful/gotto/core/telegram"
	"github.com/m3rciful/gotto/core/telegram/commands"
	"github.com/m3rciful/gotto/core/telegram/middleware"
)

// CommandRouteOptions configures how commands are wrapped and exposed.
type CommandRouteOptions struct {
	AdminID int64
	// OnAdminReject answers non-admins calling an admin-only command.
	OnAdminReject tele.HandlerFunc
}

// CommandRoutes binds every registered command and its aliases to the
// command handler, behind the admin guard when the command is admin-only.
// Each call is logged as one handler summary.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}
	guard := middleware.AdminOnlyMiddleware(middleware.AdminOptions{
		AdminID:  opts.AdminID,
		OnReject: opts.OnAdminReject,
	})

	cmds := reg.Commands()
	var routes []tg.Route
	for _, name := range slices.Sorted(maps.Keys(cmds)) {
		h := commandHandler(name, cmds[name], guard)
		for _, ep := range endpoints(name, cmds[name].Aliases) {
			routes = append(routes, tg.Route{Endpoint: ep, Handler: h})
		}
	}

	logger.Info(logger.Background(), "tg.wire", "routes.commands",
		slog.Int("commands", len(cmds)),
		slog.Int("routes", len(routes)),
	)
	return routes
}

func commandHandler(name string, cmd commands.Command, guard tele.MiddlewareFunc) tele.HandlerFunc {
	inner := cmd.Handler
	if cmd.AdminOnly {
		inner = guard(inner)
	}
	label := handlerName(name)
	return func(c tele.Context) error {
		return newSummary(label).run(c, func() error { return inner(c) })
	}
}

// endpoints lists name and its non-empty aliases, each with a leading slash.
func endpoints(name string, aliases []string) []string {
	out := []string{name}
	for _, a := range aliases {
		if a = strings.TrimPrefix(strings.TrimSpace(a), "/"); a != "" {
			out = append(out, "/"+a)
		}
	}
	return out
}
