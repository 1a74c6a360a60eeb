package telegram

import (
	"sync"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

// feedPoller delivers a fixed list of updates, closes fed, then waits for stop.
type feedPoller struct {
	updates []tele.Update
	fed     chan struct{}
}

func (p *feedPoller) Poll(_ *tele.Bot, dest chan tele.Update, stop chan struct{}) {
	for _, u := range p.updates {
		select {
		case dest <- u:
		case <-stop:
			return
		}
	}
	close(p.fed)
	<-stop
}

func textUpdate(id int, userID int64, text string) tele.Update {
	return tele.Update{ID: id, Message: &tele.Message{
		Text:   text,
		Sender: &tele.User{ID: userID},
		Chat:   &tele.Chat{ID: userID, Type: tele.ChatPrivate},
	}}
}

func TestSessionPollerOrdersPerSession(t *testing.T) {
	bot, err := tele.NewBot(tele.Settings{Offline: true, Synchronous: true})
	if err != nil {
		t.Fatalf("bot: %v", err)
	}

	var mu sync.Mutex
	seen := map[int64][]string{}
	otherDone := make(chan struct{})
	bot.Handle(tele.OnText, func(c tele.Context) error {
		switch c.Text() {
		case "a1":
			// The second session must progress while this one is busy.
			select {
			case <-otherDone:
			case <-time.After(2 * time.Second):
				t.Error("sessions did not run concurrently")
			}
		case "b2":
			defer close(otherDone)
		}
		mu.Lock()
		seen[c.Sender().ID] = append(seen[c.Sender().ID], c.Text())
		mu.Unlock()
		return nil
	})

	feed := &feedPoller{
		updates: []tele.Update{
			textUpdate(1, 1, "a1"),
			textUpdate(2, 2, "b1"),
			textUpdate(3, 1, "a2"),
			textUpdate(4, 2, "b2"),
			textUpdate(5, 1, "a3"),
		},
		fed: make(chan struct{}),
	}
	sp := NewSessionPoller(feed)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		sp.Poll(bot, bot.Updates, stop)
		close(done)
	}()

	<-feed.fed
	close(stop)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poll did not return after stop")
	}

	want := map[int64][]string{1: {"a1", "a2", "a3"}, 2: {"b1", "b2"}}
	for id, texts := range want {
		got := seen[id]
		if len(got) != len(texts) {
			t.Fatalf("user %d got %v, want %v", id, got, texts)
		}
		for i := range texts {
			if got[i] != texts[i] {
				t.Fatalf("user %d got %v, want %v", id, got, texts)
			}
		}
	}
	if sp.Pending() != 0 {
		t.Fatalf("pending = %d after drain", sp.Pending())
	}
}

func TestSessionPollerInnerQuits(t *testing.T) {
	bot, err := tele.NewBot(tele.Settings{Offline: true, Synchronous: true})
	if err != nil {
		t.Fatalf("bot: %v", err)
	}
	quit := tele.Poller(pollerFunc(func(_ *tele.Bot, _ chan tele.Update, stop chan struct{}) {
		close(stop)
	}))
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		NewSessionPoller(quit).Poll(bot, bot.Updates, stop)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("poll returned before stop")
	case <-time.After(20 * time.Millisecond):
	}
	close(stop)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poll did not return")
	}
}

type pollerFunc func(*tele.Bot, chan tele.Update, chan struct{})

func (f pollerFunc) Poll(b *tele.Bot, dest chan tele.Update, stop chan struct{}) { f(b, dest, stop) }
