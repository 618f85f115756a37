// Package event is an in-process dispatcher for domain events. Listeners run
// synchronously; subscribers receive events on a buffered channel and are
// skipped, not blocked on, when their buffer is full.
package event

import (
	"sync"
)

// Names of the events fired by the terminal.
const (
	CatalogUpdated     = "catalog.updated"
	TransactionCreated = "transaction.created"
	SettingsSaved      = "settings.saved"
)

// Handler receives an event payload.
type Handler func(payload interface{})

// Message is what a subscriber receives.
type Message struct {
	Name    string      `json:"event"`
	Payload interface{} `json:"payload"`
}

type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	subs     map[int]chan Message
	nextSub  int
}

func NewBus() *Bus {
	return &Bus{
		handlers: map[string][]Handler{},
		subs:     map[int]chan Message{},
	}
}

// Listen registers a handler for name.
func (b *Bus) Listen(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Subscribe returns a channel receiving every event and a function that
// unsubscribes and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Message, func()) {
	ch := make(chan Message, buffer)

	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Fire dispatches to listeners of name and then to every subscriber.
func (b *Bus) Fire(name string, payload interface{}) {
	b.mu.RLock()
	hs := make([]Handler, len(b.handlers[name]))
	copy(hs, b.handlers[name])
	msg := Message{Name: name, Payload: payload}
	for _, ch := range b.subs {
		select {
		case ch <- msg:
		default:
		}
	}
	b.mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}

// Subscribers is the number of open subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
