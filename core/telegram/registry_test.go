package telegram

import (
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/gotto/core/telegram/commands"
)

func noop(tele.Context) error { return nil }

func TestRegistryCommands(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start", commands.Command{
		Handler:      noop,
		Description:  "Начать",
		Descriptions: map[string]string{"en": "Start"},
	})
	reg.RegisterCommand("/stats", commands.Command{Handler: noop, Description: "stats", AdminOnly: true, Hidden: true})
	reg.RegisterCommand("help", commands.Command{Handler: noop, Description: "no slash"})
	reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "dup"})

	if len(reg.Commands()) != 2 {
		t.Fatalf("commands = %d", len(reg.Commands()))
	}

	visible := reg.ListCommands(true, "")
	if len(visible) != 1 || visible[0].Text != "start" || visible[0].Description != "Начать" {
		t.Fatalf("visible = %+v", visible)
	}
	if en := reg.ListCommands(true, "en"); en[0].Description != "Start" {
		t.Fatalf("en = %+v", en)
	}
	if all := reg.ListCommands(false, ""); len(all) != 2 {
		t.Fatalf("all = %+v", all)
	}
	if langs := reg.Languages(); len(langs) != 1 || langs[0] != "en" {
		t.Fatalf("languages = %v", langs)
	}
}

func TestLookupCommand(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/check", commands.Command{Handler: noop, Description: "check", Aliases: []string{"c"}})

	for _, in := range []string{"/check", "check", "/CHECK", "/check@gotto_bot", "/check now", "/c"} {
		key, _, ok := reg.LookupCommand(in)
		if !ok || key != "/check" {
			t.Errorf("LookupCommand(%q) = %q, %v", in, key, ok)
		}
	}
	if _, _, ok := reg.LookupCommand("/nope"); ok {
		t.Fatal("unexpected match")
	}
}

func TestCanonical(t *testing.T) {
	for in, want := range map[string]string{
		"":                   "/",
		"  /Start  ":         "/start",
		"/check@gotto_bot x": "/check",
		"help\nmore":         "/help",
		"/stats@bot":         "/stats",
	} {
		if got := canonical(in); got != want {
			t.Errorf("canonical(%q) = %q, want %q", in, got, want)
		}
	}
}
