package telegram

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/gotto/core/logger"
	"github.com/m3rciful/gotto/core/telegram/commands"
)

// Registry holds bot commands and the fallback for unmatched updates.
type Registry struct {
	commands     map[string]commands.Command
	aliases      map[string]string
	textFallback tele.HandlerFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]commands.Command),
		aliases:  make(map[string]string),
	}
}

// RegisterCommand adds cmd under name, which must start with a slash.
// Invalid and duplicate registrations are logged and ignored.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) {
	if reason := r.rejectReason(name, cmd); reason != "" {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("name", name),
			slog.String("reason", reason),
		)
		return
	}
	r.commands[name] = cmd
	for _, alias := range cmd.Aliases {
		if alias = canonical(alias); alias != "/" {
			r.aliases[alias] = name
		}
	}
}

func (r *Registry) rejectReason(name string, cmd commands.Command) string {
	switch {
	case r == nil || name == "" || cmd.Handler == nil || cmd.Description == "":
		return "invalid"
	case name[0] != '/':
		return "no_slash_prefix"
	}
	if _, exists := r.commands[name]; exists {
		return "duplicate"
	}
	return ""
}

// ListCommands returns the menu entries in lang ("" for the default texts),
// optionally filtering out hidden and admin-only commands.
func (r *Registry) ListCommands(visibleOnly bool, lang string) []tele.Command {
	var list []tele.Command
	for name, meta := range r.commands {
		if visibleOnly && (meta.Hidden || meta.AdminOnly) {
			continue
		}
		list = append(list, tele.Command{
			Text:        strings.TrimPrefix(name, "/"),
			Description: meta.DescriptionFor(lang),
		})
	}
	slices.SortFunc(list, func(a, b tele.Command) int { return strings.Compare(a.Text, b.Text) })
	return list
}

// Languages lists every language that has localized command descriptions.
func (r *Registry) Languages() []string {
	seen := map[string]bool{}
	for _, meta := range r.commands {
		for lang := range meta.Descriptions {
			seen[lang] = true
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// canonical reduces command text to its lowercase "/name" form, dropping
// arguments and a trailing @botname.
func canonical(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "/"
	}
	name, _, _ := strings.Cut(fields[0], "@")
	return "/" + strings.TrimPrefix(strings.ToLower(name), "/")
}

// LookupCommand resolves command text or one of its aliases to the
// registered name and command.
func (r *Registry) LookupCommand(text string) (string, commands.Command, bool) {
	name := canonical(text)
	if cmd, ok := r.commands[name]; ok {
		return name, cmd, true
	}
	if key, ok := r.aliases[name]; ok {
		return key, r.commands[key], true
	}
	return "", commands.Command{}, false
}

// Commands returns all registered commands.
func (r *Registry) Commands() map[string]commands.Command {
	return r.commands
}

// SetTextFallback sets the handler for updates no command matches.
func (r *Registry) SetTextFallback(h tele.HandlerFunc) {
	r.textFallback = h
}

// TextFallback returns the current fallback handler.
func (r *Registry) TextFallback() tele.HandlerFunc {
	return r.textFallback
}

// InitBotCommands sets the Telegram command menu, once with the default
// texts and once per localized language.
func InitBotCommands(bot *tele.Bot, reg *Registry) {
	if err := bot.SetCommands(reg.ListCommands(true, "")); err != nil {
		logger.TWire.LogAttrs(context.Background(), slog.LevelError, "register.commands.set_failed",
			slog.String("err", err.Error()),
		)
	}
	for _, lang := range reg.Languages() {
		if err := bot.SetCommands(reg.ListCommands(true, lang), lang); err != nil {
			logger.TWire.LogAttrs(context.Background(), slog.LevelError, "register.commands.set_failed",
				slog.String("lang", lang),
				slog.String("err", err.Error()),
			)
		}
	}
}
