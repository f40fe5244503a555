package services

import (
	"sync"

	"go.uber.org/zap"
)

const subscriberBuffer = 8

// Broadcaster fans settings changes out to SSE subscribers. Each subscriber
// gets its own buffered channel; a subscriber that cannot keep up has events
// dropped rather than blocking the publisher.
type Broadcaster struct {
	mu          sync.Mutex
	subscribers map[chan []byte]struct{}
	logger      *zap.Logger
}

// NewBroadcaster creates a new Broadcaster.
func NewBroadcaster(logger *zap.Logger) *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[chan []byte]struct{}),
		logger:      logger.Named("settings-broadcast"),
	}
}

// Subscribe registers a new subscriber and returns its event channel plus an
// unsubscribe func. Unsubscribe is idempotent and closes the channel.
func (b *Broadcaster) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, subscriberBuffer)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, ch)
			b.mu.Unlock()
			close(ch)
		})
	}

	return ch, unsubscribe
}

// Publish delivers an event to every subscriber, dropping it for any
// subscriber whose buffer is full.
func (b *Broadcaster) Publish(event []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.logger.Warn("Dropping settings event for slow subscriber")
		}
	}
}

// SubscriberCount reports the current number of subscribers.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}
