package telegram

import (
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/gotto/core/telegram/state"
)

// SessionPoller wraps a poller and queues every update under its session key
// the moment it arrives. One worker per key runs the queue in arrival order,
// so a session never sees two handlers at once nor a later message first.
// Different sessions run concurrently. Updates without sender or chat share
// the zero key.
//
// The bot must be built with Synchronous set: ProcessUpdate then runs the
// handler on the session worker instead of spawning its own goroutine.
type SessionPoller struct {
	Poller tele.Poller
	// Capacity buffers updates between the wrapped poller and the queues.
	Capacity int

	mu     sync.Mutex
	queues map[state.Key][]tele.Update
	wg     sync.WaitGroup
}

// NewSessionPoller wraps p.
func NewSessionPoller(p tele.Poller) *SessionPoller {
	return &SessionPoller{Poller: p, Capacity: 64}
}

// Poll implements tele.Poller. Updates are processed by the session workers,
// never sent to dest. Poll returns once the wrapped poller has stopped and
// every queued update has been handled.
func (p *SessionPoller) Poll(b *tele.Bot, dest chan tele.Update, stop chan struct{}) {
	middle := make(chan tele.Update, max(p.Capacity, 1))
	stopInner := make(chan struct{})
	innerDone := make(chan struct{})

	go func() {
		p.Poller.Poll(b, middle, stopInner)
		close(innerDone)
	}()

	stopping := stop
	for {
		select {
		case upd := <-middle:
			p.enqueue(b, upd)
		case <-stopping:
			stopping = nil
			select {
			case <-stopInner: // closed by a webhook that failed to register
			default:
				close(stopInner)
			}
		case <-innerDone:
			// The wrapped poller may quit on its own (a failed setWebhook).
			if stopping != nil {
				<-stop
			}
			p.flush(b, middle)
			p.wg.Wait()
			return
		}
	}
}

func (p *SessionPoller) flush(b *tele.Bot, middle chan tele.Update) {
	for {
		select {
		case upd := <-middle:
			p.enqueue(b, upd)
		default:
			return
		}
	}
}

func (p *SessionPoller) enqueue(b *tele.Bot, upd tele.Update) {
	key := state.KeyFrom(tele.NewContext(b, upd))

	p.mu.Lock()
	if p.queues == nil {
		p.queues = make(map[state.Key][]tele.Update)
	}
	q, busy := p.queues[key]
	p.queues[key] = append(q, upd)
	p.mu.Unlock()

	if !busy {
		p.wg.Add(1)
		go p.drain(b, key)
	}
}

// drain runs the queue of key until it is empty. A key stays in the map
// while its worker is alive.
func (p *SessionPoller) drain(b *tele.Bot, key state.Key) {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		upd := p.queues[key][0]
		p.mu.Unlock()

		b.ProcessUpdate(upd)

		p.mu.Lock()
		rest := p.queues[key][1:]
		if len(rest) == 0 {
			delete(p.queues, key)
			p.mu.Unlock()
			return
		}
		p.queues[key] = rest
		p.mu.Unlock()
	}
}

// Pending reports how many sessions have queued or running updates.
func (p *SessionPoller) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queues)
}
