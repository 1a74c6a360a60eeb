package keyboard

import "testing"

func TestReplyButtons(t *testing.T) {
	m := ReplyButtons([]string{"/check", "/start"})
	if !m.ResizeKeyboard || !m.OneTimeKeyboard {
		t.Fatalf("flags = %+v", m)
	}
	if len(m.ReplyKeyboard) != 1 || len(m.ReplyKeyboard[0]) != 2 {
		t.Fatalf("layout = %+v", m.ReplyKeyboard)
	}
	if m.ReplyKeyboard[0][1].Text != "/start" {
		t.Fatalf("second button = %q", m.ReplyKeyboard[0][1].Text)
	}
}

func TestLocationRequest(t *testing.T) {
	m := LocationRequest("Share")
	if len(m.ReplyKeyboard) != 1 || len(m.ReplyKeyboard[0]) != 1 {
		t.Fatalf("layout = %+v", m.ReplyKeyboard)
	}
	btn := m.ReplyKeyboard[0][0]
	if !btn.Location || btn.Text != "Share" {
		t.Fatalf("button = %+v", btn)
	}
}
