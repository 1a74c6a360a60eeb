package database

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSelectApplied(t *testing.T) {
	files := []string{"0001_hunt_sessions.up.sql", "0002_round_id.up.sql", "0003_touch.up.sql"}
	got := selectApplied(files, 1, 3)
	want := []string{"0002_round_id.up.sql", "0003_touch.up.sql"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("selectApplied = %v, want %v", got, want)
	}
	if got := selectApplied(files, 3, 3); got != nil {
		t.Fatalf("expected nothing applied, got %v", got)
	}
}

func TestListMigrationFilesSkipsDown(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_b.up.sql", "0001_a.up.sql", "0001_a.down.sql"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	got := listMigrationFiles(dir)
	want := []string{"0001_a.up.sql", "0002_b.up.sql"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("listMigrationFiles = %v, want %v", got, want)
	}
}

func TestConfigURL(t *testing.T) {
	cfg := Config{Host: "db", Port: "5432", User: "hunt", Password: "p@ss", Name: "gotto"}
	if got, want := cfg.URL(), "postgres://hunt:p%40ss@db:5432/gotto?sslmode=disable"; got != want {
		t.Fatalf("URL = %q, want %q", got, want)
	}
	if got, want := cfg.KeywordDSN(), "user=hunt password=p@ss host=db port=5432 dbname=gotto sslmode=disable"; got != want {
		t.Fatalf("KeywordDSN = %q, want %q", got, want)
	}
}

func TestResolveMigrationsDir(t *testing.T) {
	got, err := resolveMigrationsDir("  ")
	if err != nil || !filepath.IsAbs(got) || filepath.Base(got) != "migrations" {
		t.Fatalf("resolveMigrationsDir = %q, %v", got, err)
	}
	abs := filepath.Join(t.TempDir(), "sql")
	if got, _ := resolveMigrationsDir(abs); got != abs {
		t.Fatalf("absolute dir changed to %q", got)
	}
}
