// Package events fans out cache change notifications to subscribers.
package events

import (
	"sync"
	"sync/atomic"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/podcache/pkg/domain"
)

// Bus delivers events to buffered subscriber channels. Notify never blocks,
// an event is dropped for a subscriber whose buffer is full.
type Bus struct {
	mu        sync.Mutex
	subs      map[int]chan domain.Event
	nextID    int
	published atomic.Int64
	dropped   atomic.Int64
}

// NewBus makes an empty bus
func NewBus() *Bus {
	return &Bus{subs: map[int]chan domain.Event{}}
}

// Subscribe registers a subscriber with the given buffer size.
// The returned cancel func unregisters it and closes the channel.
func (b *Bus) Subscribe(buffer int) (ch <-chan domain.Event, cancel func()) {
	if buffer <= 0 {
		buffer = 16
	}
	c := make(chan domain.Event, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = c
	b.mu.Unlock()

	var once sync.Once
	return c, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(c)
		})
	}
}

// Notify implements cache.Notifier
func (b *Bus) Notify(ev domain.Event) {
	if b == nil {
		return
	}
	b.published.Add(1)

	b.mu.Lock()
	defer b.mu.Unlock()
	for id, c := range b.subs {
		select {
		case c <- ev:
		default:
			b.dropped.Add(1)
			lgr.Printf("[DEBUG] subscriber %d is full, %s event dropped", id, ev.Type)
		}
	}
}

// Stats returns the number of published and dropped events
func (b *Bus) Stats() (published, dropped int64) {
	return b.published.Load(), b.dropped.Load()
}
