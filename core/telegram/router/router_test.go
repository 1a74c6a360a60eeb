package router

import (
	"errors"
	"fmt"
	"testing"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/gotto/core/telegram"
	"github.com/m3rciful/gotto/core/telegram/commands"
)

func textCtx(userID int64, msg *tele.Message) tele.Context {
	msg.Sender = &tele.User{ID: userID}
	msg.Chat = &tele.Chat{ID: userID, Type: tele.ChatPrivate}
	return tele.NewContext(nil, tele.Update{ID: 7, Message: msg})
}

func TestUpdateRoutesDispatch(t *testing.T) {
	var got []string
	reg := tg.NewRegistry()
	reg.RegisterCommand("/check", commands.Command{
		Description: "check",
		Handler:     func(tele.Context) error { got = append(got, "check"); return nil },
	})
	reg.RegisterCommand("/stats", commands.Command{
		Description: "stats",
		AdminOnly:   true,
		Handler:     func(tele.Context) error { got = append(got, "stats"); return nil },
	})
	routes := UpdateRoutes(reg, UpdateOptions{
		Handler: func(c tele.Context) error { got = append(got, "update:"+c.Text()); return nil },
	})
	if len(routes) != len(UpdateEndpoints) {
		t.Fatalf("routes = %d", len(routes))
	}
	h := routes[0].Handler

	_ = h(textCtx(1, &tele.Message{Text: "/check@gotto_bot"}))
	_ = h(textCtx(1, &tele.Message{Text: "150"}))
	_ = h(textCtx(1, &tele.Message{Text: "check"}))
	_ = h(textCtx(1, &tele.Message{Text: "/stats"}))
	_ = h(textCtx(1, &tele.Message{Location: &tele.Location{Lat: 1, Lng: 1}}))

	want := []string{"check", "update:150", "update:check", "update:/stats", "update:"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestCommandRoutesAdminAndAliases(t *testing.T) {
	var ran []string
	reg := tg.NewRegistry()
	reg.RegisterCommand("/start", commands.Command{
		Description: "start",
		Aliases:     []string{"begin"},
		Handler:     func(tele.Context) error { ran = append(ran, "start"); return nil },
	})
	reg.RegisterCommand("/stats", commands.Command{
		Description: "stats",
		AdminOnly:   true,
		Handler:     func(tele.Context) error { ran = append(ran, "stats"); return nil },
	})

	routes := CommandRoutes(reg, CommandRouteOptions{AdminID: 99})
	byEndpoint := map[any]tele.HandlerFunc{}
	for _, r := range routes {
		byEndpoint[r.Endpoint] = r.Handler
	}
	if len(byEndpoint) != 3 {
		t.Fatalf("endpoints = %v", len(byEndpoint))
	}

	_ = byEndpoint["/begin"](textCtx(1, &tele.Message{Text: "/begin"}))
	_ = byEndpoint["/stats"](textCtx(1, &tele.Message{Text: "/stats"}))
	_ = byEndpoint["/stats"](textCtx(99, &tele.Message{Text: "/stats"}))
	if len(ran) != 2 || ran[0] != "start" || ran[1] != "stats" {
		t.Fatalf("ran = %v", ran)
	}
}

type codedErr struct{}

func (codedErr) Error() string { return "coded" }
func (codedErr) Code() string  { return "session store" }

func TestErrorCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"coded", codedErr{}, "SESSION_STORE"},
		{"wrapped coded", fmt.Errorf("load: %w", codedErr{}), "SESSION_STORE"},
		{"type name", errors.New("x"), "ERRORSTRING"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := errorCode(tc.err); got != tc.want {
				t.Fatalf("errorCode = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestHandlerName(t *testing.T) {
	for in, want := range map[string]string{
		"/Check Now": "check_now",
		"  /start ":  "start",
		"":           "unknown",
		"/":          "unknown",
	} {
		if got := handlerName(in); got != want {
			t.Errorf("handlerName(%q) = %q, want %q", in, got, want)
		}
	}
}
