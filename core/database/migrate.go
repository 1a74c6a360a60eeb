package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/m3rciful/gotto/core/logger"
)

const readyTimeout = 30 * time.Second

// RunMigrations waits for the server and applies every pending up migration
// from cfg.MigrationsDir ("migrations" when empty).
func RunMigrations(ctx context.Context, cfg Config) error {
	if err := WaitForPostgres(ctx, cfg, readyTimeout); err != nil {
		return migrateFailed(ctx, "wait", fmt.Errorf("database not ready: %w", err))
	}

	dir, err := resolveMigrationsDir(cfg.MigrationsDir)
	if err != nil {
		return migrateFailed(ctx, "resolve", err)
	}
	files := listMigrationFiles(dir)
	preview, truncated := logger.SummarizeStrings(files, 6)
	logger.Debug(ctx, "db.migrate", "resolve",
		slog.String("path", dir),
		slog.Int("count", len(files)),
		slog.String("files", preview),
		slog.Bool("truncated", truncated),
	)

	m, err := migrate.New("file://"+filepath.ToSlash(dir), cfg.URL())
	if err != nil {
		return migrateFailed(ctx, "init", fmt.Errorf("failed to initialize migrations: %w", err))
	}
	defer m.Close()

	from, _, _ := m.Version()
	start := time.Now()
	upErr := m.Up()
	took := logger.RoundMS(time.Since(start))
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return migrateFailed(ctx, "apply", fmt.Errorf("migration execution failed: %w", upErr),
			slog.Duration("duration", took))
	}
	to, _, _ := m.Version()

	logger.Info(ctx, "db.migrate", "summary",
		slog.String("status", "ok"),
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("version", uint64(to)),
		slog.Int("count", len(selectApplied(files, uint64(from), uint64(to)))),
		slog.Duration("duration", took),
	)
	return nil
}

func migrateFailed(ctx context.Context, stage string, err error, attrs ...slog.Attr) error {
	logger.Error(ctx, "db.migrate", stage, append([]slog.Attr{
		slog.String("status", "fail"),
		slog.String("err", err.Error()),
	}, attrs...)...)
	return err
}

func resolveMigrationsDir(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "migrations"
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve migrations dir: %w", err)
	}
	return abs, nil
}

// listMigrationFiles returns the *.up.sql names in dir, sorted.
func listMigrationFiles(dir string) []string {
	matches, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && !info.IsDir() {
			names = append(names, filepath.Base(m))
		}
	}
	slices.Sort(names)
	return names
}

// selectApplied returns the files whose version lies in (from, to].
func selectApplied(files []string, from, to uint64) []string {
	var out []string
	for _, f := range files {
		prefix, _, _ := strings.Cut(f, "_")
		v, err := strconv.ParseUint(prefix, 10, 64)
		if err == nil && v > from && v <= to {
			out = append(out, f)
		}
	}
	return out
}
