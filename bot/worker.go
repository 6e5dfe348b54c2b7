package bot

import (
	"context"
	"sync"

	"github.com/GabbasovDinar/TelegramBot/internal/telegram"
)

type job struct {
	chatID   int64
	identity string
	event    telegram.Event
}

type chatWorker struct {
	jobs chan job
}

// Dispatcher fans events out to one serial worker goroutine per identity.
// Everything for an identity, /reset_context included, flows through its
// worker in arrival order, so per-identity processing is strictly
// one-at-a-time and a reset can never race a completion in flight. The
// worker key is the identity, not the chat: the same user writing from two
// chats still shares one conversation, so those events must serialize too.
// Distinct identities run in parallel up to the global concurrency limit.
type Dispatcher struct {
	mu      sync.Mutex
	workers map[string]*chatWorker
	sem     chan struct{}
	handler *Handler
}

func NewDispatcher(handler *Handler, maxConcurrency int) *Dispatcher {
	if maxConcurrency <= 0 {
		maxConcurrency = 3
	}
	return &Dispatcher{
		workers: make(map[string]*chatWorker),
		sem:     make(chan struct{}, maxConcurrency),
		handler: handler,
	}
}

func (d *Dispatcher) Enqueue(chatID int64, identity string, ev telegram.Event) {
	d.mu.Lock()
	w, ok := d.workers[identity]
	if !ok {
		w = &chatWorker{jobs: make(chan job, 16)}
		d.workers[identity] = w
		go d.run(w)
	}
	d.mu.Unlock()

	w.jobs <- job{chatID: chatID, identity: identity, event: ev}
}

func (d *Dispatcher) run(w *chatWorker) {
	for j := range w.jobs {
		d.sem <- struct{}{}
		d.handler.HandleEvent(context.Background(), j.chatID, j.identity, j.event)
		<-d.sem
	}
}
