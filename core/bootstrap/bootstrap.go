package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/gotto/core/config"
	coredatabase "github.com/m3rciful/gotto/core/database"
	"github.com/m3rciful/gotto/core/logger"
	"github.com/m3rciful/gotto/core/telemetry"
)

// Options control the generic bootstrap pipeline shared between bots.
type Options struct {
	Config *coreconfig.Config
	// Database is nil for bots that keep no durable state.
	Database *coredatabase.Config

	LoggerInit     func(*coreconfig.Config) error
	TelemetrySetup func(context.Context, coreconfig.TelemetryConfig) (telemetry.ShutdownFunc, error)
	Connect        func(context.Context, coredatabase.Config) (*sqlx.DB, error)
	Migrate        func(context.Context, coredatabase.Config) error
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	DB *sqlx.DB

	shutdownTelemetry telemetry.ShutdownFunc
}

// Close releases the database pool and flushes pending spans.
func (r *Result) Close(ctx context.Context) error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.shutdownTelemetry != nil {
		errs = append(errs, r.shutdownTelemetry(ctx))
	}
	if r.DB != nil {
		errs = append(errs, r.DB.Close())
	}
	return errors.Join(errs...)
}

// Run initializes the logger and tracing, then connects to the database and
// applies migrations when one is configured.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}
	opts = opts.withDefaults()

	if err := opts.LoggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	shutdown, err := opts.TelemetrySetup(ctx, opts.Config.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: telemetry init failed: %w", err)
	}
	res := &Result{shutdownTelemetry: shutdown}

	if opts.Database == nil {
		return res, nil
	}

	db, err := opts.Connect(ctx, *opts.Database)
	if err != nil {
		_ = res.Close(ctx)
		return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
	}
	res.DB = db

	if err := opts.Migrate(ctx, *opts.Database); err != nil {
		_ = res.Close(ctx)
		return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
	}

	return res, nil
}

func (o Options) withDefaults() Options {
	if o.LoggerInit == nil {
		o.LoggerInit = logger.InitLogger
	}
	if o.TelemetrySetup == nil {
		o.TelemetrySetup = telemetry.Setup
	}
	if o.Connect == nil {
		o.Connect = coredatabase.Connect
	}
	if o.Migrate == nil {
		o.Migrate = coredatabase.RunMigrations
	}
	return o
}
