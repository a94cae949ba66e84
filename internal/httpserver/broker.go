package httpserver

import (
	"encoding/json"
	"sync"

	"github.com/robalobadob/flagquiz/internal/game"
)

// Broker is an in-process pub/sub fanning snapshots out to SSE subscribers.
// It implements game.Observer.
type Broker struct {
	mu   sync.RWMutex
	subs map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[chan []byte]struct{})}
}

// Subscribe returns a channel receiving JSON-encoded state views.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes ch.
func (b *Broker) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// Publish encodes the snapshot once and offers it to every subscriber.
func (b *Broker) Publish(s game.Snapshot) {
	data, err := encodeView(s)
	if err != nil {
		return
	}
	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// Subscribers reports the number of open streams.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// encodeView renders a snapshot the way streams carry it.
func encodeView(s game.Snapshot) ([]byte, error) {
	return json.Marshal(newStateView(s))
}
