// Package bot wires the treasure hunt engine to Telegram.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/gotto/core/bootstrap"
	"github.com/m3rciful/gotto/core/cmd"
	"github.com/m3rciful/gotto/core/logger"
	coretelegram "github.com/m3rciful/gotto/core/telegram"
	"github.com/m3rciful/gotto/core/telegram/commands"
	"github.com/m3rciful/gotto/core/telegram/router"
	"github.com/m3rciful/gotto/core/telegram/state"
	"github.com/m3rciful/gotto/internal/hunt"
	"github.com/m3rciful/gotto/internal/storage/postgres"
	"github.com/m3rciful/gotto/internal/target"
	"github.com/m3rciful/gotto/internal/texts"
)

// App holds the wired bot.
type App struct {
	cfg      *Config
	infra    *bootstrap.Result
	texts    *texts.Catalog
	engine   *hunt.Engine
	handlers *Handlers
}

// Bootstrap initialises logging, tracing and storage, then builds the app.
func Bootstrap(ctx context.Context, carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("bot: unexpected config type %T", carrier)
	}
	infra, err := bootstrap.Run(ctx, bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.DatabaseConfig(),
	})
	if err != nil {
		return nil, err
	}

	var store state.Store[hunt.Session]
	if infra.DB != nil {
		store = postgres.NewSessionStore(infra.DB)
	} else {
		store = state.NewMemoryStore[hunt.Session]()
	}

	gen, err := target.NewRandom()
	if err != nil {
		_ = infra.Close(ctx)
		return nil, fmt.Errorf("bot: target generator: %w", err)
	}
	app, err := New(cfg, store, gen)
	if err != nil {
		_ = infra.Close(ctx)
		return nil, err
	}
	app.infra = infra
	logger.Info(ctx, "app", "app.bootstrap",
		slog.String("storage", cfg.Storage.Driver),
		slog.Int("locales", len(app.texts.Languages())),
	)
	return app, nil
}

// New builds an app around an existing store and generator.
func New(cfg *Config, store state.Store[hunt.Session], gen hunt.Generator) (*App, error) {
	catalog, err := texts.New()
	if err != nil {
		return nil, fmt.Errorf("bot: texts: %w", err)
	}
	engine := hunt.NewEngine(store, gen)
	return &App{
		cfg:      cfg,
		texts:    catalog,
		engine:   engine,
		handlers: NewHandlers(engine, NewRenderer(catalog)),
	}, nil
}

// Registry declares the bot commands with localized menu texts.
func (a *App) Registry() *coretelegram.Registry {
	reg := coretelegram.NewRegistry()
	reg.RegisterCommand(hunt.CmdStart, a.command(texts.DescStart, a.handlers.Command(hunt.CmdStart)))
	reg.RegisterCommand(hunt.CmdHelp, a.command(texts.DescHelp, a.handlers.Command(hunt.CmdHelp)))
	reg.RegisterCommand(hunt.CmdCheck, a.command(texts.DescCheck, a.handlers.Command(hunt.CmdCheck)))

	stats := a.command(texts.DescStats, a.handlers.Stats)
	stats.AdminOnly = true
	stats.Hidden = true
	reg.RegisterCommand("/stats", stats)
	return reg
}

func (a *App) command(desc hunt.MessageKey, h tele.HandlerFunc) commands.Command {
	cmd := commands.Command{
		Handler:      h,
		Description:  a.texts.Render(texts.DefaultLanguage.String(), desc),
		Descriptions: make(map[string]string),
	}
	for _, tag := range a.texts.Languages() {
		cmd.Descriptions[tag.String()] = a.texts.Render(tag.String(), desc)
	}
	return cmd
}

// TelegramRunOptions assembles registry, routes and middlewares.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	core := a.cfg.CoreConfig()
	reg := a.Registry()

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{AdminID: core.Telegram.AdminID})
	routes = append(routes, router.UpdateRoutes(reg, router.UpdateOptions{Handler: a.handlers.Update})...)

	return coretelegram.RunOptions{
		Config:      core,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(core, a.handlers.Limited),
		Routes:      routes,
	}, nil
}

// Close releases the database pool and flushes traces.
func (a *App) Close(ctx context.Context) error {
	return a.infra.Close(ctx)
}
