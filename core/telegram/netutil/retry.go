// Package netutil classifies Telegram Bot API failures for retry decisions
// and logging.
package netutil

import (
	"errors"
	"time"

	tele "gopkg.in/telebot.v4"
)

// retryable lists the Classify classes a retry can fix.
var retryable = map[string]bool{
	"timeout":  true,
	"flood":    true,
	"dial":     true,
	"http_5xx": true,
}

// ShouldRetry reports whether a failed Telegram call is worth retrying:
// timeouts, refused dials, flood control and 5xx API answers. Client errors,
// blocked chats and cancellation are final.
func ShouldRetry(err error) bool {
	return err != nil && retryable[Classify(err)]
}

// RetryAfter extracts the wait requested by Telegram flood control.
func RetryAfter(err error) (time.Duration, bool) {
	var flood tele.FloodError
	if errors.As(err, &flood) {
		return time.Duration(flood.RetryAfter) * time.Second, true
	}
	var floodPtr *tele.FloodError
	if errors.As(err, &floodPtr) && floodPtr != nil {
		return time.Duration(floodPtr.RetryAfter) * time.Second, true
	}
	return 0, false
}
