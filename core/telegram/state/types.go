package state

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v4"
)

// Key identifies one conversation: a user inside a chat.
type Key struct {
	ChatID int64
	UserID int64
}

// String renders the key for logs.
func (k Key) String() string {
	return fmt.Sprintf("%d:%d", k.ChatID, k.UserID)
}

// KeyFrom derives the session key of an update. Updates without a chat fall
// back to the sender's private chat id.
func KeyFrom(c tele.Context) Key {
	var k Key
	if u := c.Sender(); u != nil {
		k.UserID = u.ID
		k.ChatID = u.ID
	}
	if chat := c.Chat(); chat != nil {
		k.ChatID = chat.ID
	}
	return k
}

// Store keeps one value per conversation. A missing key reads as the zero value.
type Store[T any] interface {
	Get(ctx context.Context, key Key) (T, error)
	Set(ctx context.Context, key Key, value T) error
	Reset(ctx context.Context, key Key) error
}

// Counter is implemented by stores able to report how many sessions they hold.
type Counter interface {
	Len(ctx context.Context) (int, error)
}
