package logger

import (
	"log/slog"
	"path/filepath"
	"testing"

	coreconfig "github.com/m3rciful/gotto/core/config"
)

func TestSettingsFrom(t *testing.T) {
	tests := []struct {
		name    string
		logging coreconfig.LoggingConfig
		format  logFormat
		level   slog.Level
		sample  [2]int
	}{
		{"defaults", coreconfig.LoggingConfig{}, formatJSON, slog.LevelInfo, [2]int{1, 50}},
		{"dev profile prefers kv", coreconfig.LoggingConfig{Profile: "Dev"}, formatKV, slog.LevelInfo, [2]int{1, 50}},
		{"explicit json wins", coreconfig.LoggingConfig{Profile: "debug", Format: "json", Level: "debug"}, formatJSON, slog.LevelDebug, [2]int{1, 50}},
		{"sampling off", coreconfig.LoggingConfig{Format: "text", Level: "warning", DebugSample: "0"}, formatKV, slog.LevelWarn, [2]int{0, 0}},
		{"sampling ratio", coreconfig.LoggingConfig{DebugSample: "1/5", Level: "error"}, formatJSON, slog.LevelError, [2]int{1, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := settingsFrom(&coreconfig.Config{Logging: tt.logging})
			if s.format != tt.format || s.level != tt.level || s.sampleNum != tt.sample[0] || s.sampleDen != tt.sample[1] {
				t.Fatalf("settings = %+v", s)
			}
		})
	}
}

func TestSettingsKeyOrderAndFile(t *testing.T) {
	s := settingsFrom(&coreconfig.Config{Logging: coreconfig.LoggingConfig{
		KeysOrder: " ts, level ,,event",
		Dir:       "logs",
		BotFile:   "bot.log",
	}})
	if len(s.keyOrder) != 3 || s.keyOrder[1] != "level" {
		t.Fatalf("key order = %v", s.keyOrder)
	}
	if s.filePath != filepath.Join("logs", "bot.log") || s.profile != "prod" {
		t.Fatalf("settings = %+v", s)
	}
	if s := settingsFrom(nil); len(s.keyOrder) != len(defaultKeyOrder) || s.filePath != "" {
		t.Fatalf("nil config settings = %+v", s)
	}
}
