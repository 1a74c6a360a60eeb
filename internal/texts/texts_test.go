package texts

import (
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/m3rciful/gotto/internal/hunt"
)

func TestCatalogsAreComplete(t *testing.T) {
	c := MustNew()
	for _, tag := range c.Languages() {
		keys := append(append([]hunt.MessageKey(nil), hunt.Messages...), Descriptions...)
		for _, key := range keys {
			if !c.Has(tag, key) {
				t.Errorf("%s: missing %q", tag, key)
			}
		}
	}
}

func TestMatch(t *testing.T) {
	c := MustNew()
	tests := map[string]language.Tag{
		"":      language.Russian,
		"ru":    language.Russian,
		"en":    language.English,
		"en-GB": language.English,
		"de":    language.Russian,
		"%%":    language.Russian,
	}
	for code, want := range tests {
		if got := c.Match(code); got != want {
			t.Errorf("Match(%q) = %s, want %s", code, got, want)
		}
	}
}

func TestRender(t *testing.T) {
	c := MustNew()

	help := c.Render("en", hunt.MsgHelp, hunt.ThresholdMeters)
	if !strings.Contains(help, "within 100 meters") {
		t.Fatalf("help = %q", help)
	}
	if got := c.Render("ru", hunt.MsgHelp, hunt.ThresholdMeters); !strings.Contains(got, "100 метров") {
		t.Fatalf("ru help = %q", got)
	}

	issued := c.Render("ru", hunt.MsgTargetIssued, "55.755800, 37.617300", 42, hunt.ThresholdMeters)
	if !strings.Contains(issued, "<code>55.755800, 37.617300</code>") || !strings.Contains(issued, "42м") {
		t.Fatalf("issued = %q", issued)
	}

	if got := c.Render("en", hunt.MsgRemaining, 57); got != "Not there yet, 57 meters to go." {
		t.Fatalf("remaining = %q", got)
	}
	if got := c.Render("fr", hunt.BtnShareLocation); got != "Поделиться" {
		t.Fatalf("fallback button = %q", got)
	}
}
