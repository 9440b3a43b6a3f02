package keplr

import (
	"sync"

	"likedao_wallet/internal/app/port"
)

// EventHub fans key store change notifications out to subscribers.
type EventHub struct {
	mu          sync.Mutex
	subscribers map[chan struct{}]struct{}
}

var _ port.KeyStoreEvents = (*EventHub)(nil)

// NewEventHub creates an empty hub.
func NewEventHub() *EventHub {
	return &EventHub{subscribers: make(map[chan struct{}]struct{})}
}

// Subscribe returns a channel receiving one value per key store change and a
// function that unsubscribes and closes it.
func (h *EventHub) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish notifies every subscriber. A subscriber with a pending notification
// is not sent a second one.
func (h *EventHub) Publish() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
