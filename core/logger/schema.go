package logger

import "strings"

// Canonical level names.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelFatal = "FATAL"
)

var levelAliases = map[string]string{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
	"fatal":   LevelFatal,
}

// Statuses a handler summary may report; outcomes are the terminal subset.
var (
	knownStatus  = set("ok", "fail", "error", "skip", "retry", "rate_limited", "cancelled")
	knownOutcome = set("ok", "fail", "cancelled", "rate_limited")
)

func set(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

func normalizeLevel(level string) string {
	if level == "" {
		return LevelInfo
	}
	if mapped, ok := levelAliases[strings.ToLower(level)]; ok {
		return mapped
	}
	return strings.ToUpper(level)
}

// normalizeStatus lowercases status and reports whether it is a known value.
func normalizeStatus(status string) (string, bool) {
	status = strings.ToLower(strings.TrimSpace(status))
	_, ok := knownStatus[status]
	return status, ok
}

// normalizeOutcome lowercases outcome; unknown outcomes are rejected.
func normalizeOutcome(outcome string) (string, bool) {
	outcome = strings.ToLower(strings.TrimSpace(outcome))
	if _, ok := knownOutcome[outcome]; !ok {
		return "", false
	}
	return outcome, true
}

// defaultKeyOrder puts envelope keys first, then update metadata, then the
// keys of the transport, the hunt engine and the session store.
var defaultKeyOrder = []string{
	// envelope
	"ts", "level", "component", "event", "status",
	"rid", "rid_full", "trace_id", "span_id", "ts_unix_nano",
	// update
	"update_id", "user_id", "chat_id", "kind", "handler", "outcome", "duration_ms",
	// transport
	"action", "endpoint", "messages", "pins", "mode", "listen", "public_url", "http_code",
	// hunt
	"round_id", "state", "next_state", "command", "radius", "distance_m", "reached", "replies", "sessions",
	// storage
	"db", "host", "port", "storage", "version",
	// errors
	"err", "err_code", "cause", "retryable", "attempts", "backoff_ms", "rate_limited",
}
