package logger

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestContextMetadata(t *testing.T) {
	ctx := WithUpdateMeta(WithRID(Background(), "1:2:3"), 1, 3, 2)
	ctx = WithHandler(ctx, "cmd.start")
	ctx = WithRound(ctx, "round-1")
	if RIDFrom(ctx) != "1:2:3" || UpdateIDFrom(ctx) != 1 || UserIDFrom(ctx) != 3 || ChatIDFrom(ctx) != 2 {
		t.Fatal("update metadata lost")
	}
	if HandlerFrom(ctx) != "cmd.start" || RoundFrom(ctx) != "round-1" {
		t.Fatal("handler or round lost")
	}
	if WithRound(ctx, "") != ctx {
		t.Fatal("empty round must not shadow the current one")
	}
	if FromContext(Background()) != L {
		t.Fatal("nil context without a logger must fall back to L")
	}
}

func TestCompactRID(t *testing.T) {
	tests := map[string]string{
		"35:1000:36": "z.rs.10",
		"-5:1:1":     "-5.1.1",
		"abc":        "abc",
		"1:x:2":      "1:x:2",
		"":           "",
	}
	for in, want := range tests {
		if got := CompactRID(in); got != want {
			t.Errorf("CompactRID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeLimit(t *testing.T) {
	if got := Sanitize("a\x00b\tc\u200bd\x7f\n"); got != "ab\tcd\n" {
		t.Fatalf("Sanitize = %q", got)
	}
	if got := SanitizeLimit("привет", 3); got != "при" {
		t.Fatalf("SanitizeLimit = %q", got)
	}
	if SanitizeLimit("x", 0) != "" {
		t.Fatal("zero limit must yield empty string")
	}
}

func TestRatioSampler(t *testing.T) {
	s := newRatioSampler(2, 5)
	var passed int
	for range 50 {
		if s.Allow() {
			passed++
		}
	}
	if passed != 20 {
		t.Fatalf("passed = %d, want 20", passed)
	}
	s.Set(0, 5)
	for range 5 {
		if !s.Allow() {
			t.Fatal("disabled sampler must allow everything")
		}
	}
}

func TestParseRatioSpec(t *testing.T) {
	tests := []struct {
		in       string
		num, den int
	}{
		{"1/10", 1, 10},
		{" 3 / 4 ", 3, 4},
		{"20", 1, 20},
		{"0", 0, 0},
		{"a/b", 0, 0},
		{"", 0, 0},
	}
	for _, tt := range tests {
		if n, d := parseRatioSpec(tt.in); n != tt.num || d != tt.den {
			t.Errorf("parseRatioSpec(%q) = %d/%d", tt.in, n, d)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestAsyncWriterFansOutAndKeepsFirstError(t *testing.T) {
	a, b := &bytes.Buffer{}, &bytes.Buffer{}
	w := newAsyncWriter([]io.Writer{a, b}, 16)
	for _, line := range []string{"one\n", "two\n"} {
		if err := w.Write([]byte(line)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if a.String() != "one\ntwo\n" || b.String() != a.String() {
		t.Fatalf("sinks = %q, %q", a.String(), b.String())
	}

	bad := newAsyncWriter([]io.Writer{failingWriter{}}, 1)
	_ = bad.Write([]byte("boom\n"))
	if err := bad.Close(); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("close err = %v", err)
	}
}

func TestRoundIDFromContextIsLogged(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   aw,
		format:   formatKV,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	ctx := WithRound(Background(), "r-42")
	LogEvent(ctx, slog.New(handler).With("component", "hunt"), slog.LevelInfo, "hunt.transition")
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !strings.Contains(buf.String(), "round_id=r-42") {
		t.Fatalf("missing round_id: %s", buf.String())
	}
}
