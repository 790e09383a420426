package app

import (
	"sync"

	"github.com/vovakirdan/sprite-arena/internal/stats"
)

// busBuffer is the per-subscriber queue length.
const busBuffer = 10

// Bus fans achievement unlocks out to channel subscribers.
// A subscriber whose queue is full misses the event instead of blocking the
// publisher.
type Bus struct {
	mu      sync.Mutex
	clients map[chan stats.Unlock]struct{}
}

// NewBus creates a bus with no subscribers.
func NewBus() *Bus {
	return &Bus{clients: make(map[chan stats.Unlock]struct{})}
}

// Subscribe returns a new buffered channel that receives every published unlock.
func (b *Bus) Subscribe() chan stats.Unlock {
	ch := make(chan stats.Unlock, busBuffer)
	b.mu.Lock()
	b.clients[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes ch and closes it. Unknown channels are ignored.
func (b *Bus) Unsubscribe(ch chan stats.Unlock) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[ch]; !ok {
		return
	}
	delete(b.clients, ch)
	close(ch)
}

// Publish delivers u to every subscriber that has room for it.
func (b *Bus) Publish(u stats.Unlock) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.clients {
		select {
		case ch <- u:
		default:
			// skip subscribers with full queues
		}
	}
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}
