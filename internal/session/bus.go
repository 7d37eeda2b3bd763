package session

import "sync"

// Bus broadcasts token changes between session stores sharing one durable
// slot, the way a storage event reaches every other browser tab. A publisher
// never hears its own change; only other origins are notified.
type Bus struct {
	mu   sync.Mutex
	subs map[string]func(token string)
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{subs: make(map[string]func(token string))}
}

// Subscribe registers a handler under the given origin id. The handler is
// invoked for every publication from a different origin.
func (b *Bus) Subscribe(origin string, fn func(token string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[origin] = fn
}

// Unsubscribe removes the handler registered under the origin id
func (b *Bus) Unsubscribe(origin string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, origin)
}

// Publish notifies every subscriber except the originating one
func (b *Bus) Publish(origin, token string) {
	b.mu.Lock()
	handlers := make([]func(string), 0, len(b.subs))
	for id, fn := range b.subs {
		if id != origin {
			handlers = append(handlers, fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(token)
	}
}
