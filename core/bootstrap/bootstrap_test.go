package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/gotto/core/config"
	coredatabase "github.com/m3rciful/gotto/core/database"
	"github.com/m3rciful/gotto/core/telemetry"
)

func noLogger(*coreconfig.Config) error { return nil }

func countingTelemetry(n *int) func(context.Context, coreconfig.TelemetryConfig) (telemetry.ShutdownFunc, error) {
	return func(context.Context, coreconfig.TelemetryConfig) (telemetry.ShutdownFunc, error) {
		return func(context.Context) error { *n++; return nil }, nil
	}
}

func TestRunWithoutDatabase(t *testing.T) {
	var shutdowns int
	connect := func(context.Context, coredatabase.Config) (*sqlx.DB, error) {
		t.Fatal("connect must not be called")
		return nil, nil
	}
	res, err := Run(context.Background(), Options{
		Config:         &coreconfig.Config{},
		LoggerInit:     noLogger,
		TelemetrySetup: countingTelemetry(&shutdowns),
		Connect:        connect,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.DB != nil {
		t.Fatal("unexpected database")
	}
	if err := res.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if shutdowns != 1 {
		t.Fatalf("telemetry shutdowns = %d", shutdowns)
	}
}

func TestRunDatabaseFailureShutsTelemetryDown(t *testing.T) {
	var shutdowns int
	boom := errors.New("refused")
	_, err := Run(context.Background(), Options{
		Config:         &coreconfig.Config{},
		Database:       &coredatabase.Config{Host: "db"},
		LoggerInit:     noLogger,
		TelemetrySetup: countingTelemetry(&shutdowns),
		Connect:        func(context.Context, coredatabase.Config) (*sqlx.DB, error) { return nil, boom },
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if shutdowns != 1 {
		t.Fatalf("telemetry shutdowns = %d", shutdowns)
	}
}

func TestRunLoggerFailure(t *testing.T) {
	boom := errors.New("bad log dir")
	_, err := Run(context.Background(), Options{
		Config:     &coreconfig.Config{},
		LoggerInit: func(*coreconfig.Config) error { return boom },
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
