// Package state provides session storage primitives for Telegram bots: a
// generic per-conversation store and a keyed lock that serializes work on one
// conversation. It is domain-agnostic so it can be reused across bots.
package state
