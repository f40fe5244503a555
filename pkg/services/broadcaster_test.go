package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBroadcasterFanOut(t *testing.T) {
	b := NewBroadcaster(zap.NewNop())

	ch1, unsub1 := b.Subscribe()
	ch2, unsub2 := b.Subscribe()
	defer unsub1()
	defer unsub2()

	b.Publish([]byte(`{"enabled":false}`))

	assert.Equal(t, []byte(`{"enabled":false}`), <-ch1)
	assert.Equal(t, []byte(`{"enabled":false}`), <-ch2)
}

func TestBroadcasterDropsWhenSubscriberFull(t *testing.T) {
	b := NewBroadcaster(zap.NewNop())

	slow, unsubSlow := b.Subscribe()
	fast, unsubFast := b.Subscribe()
	defer unsubSlow()
	defer unsubFast()

	// Overflow the slow subscriber's buffer without reading, draining the
	// fast one as we go. Publish must never block.
	for i := 0; i < subscriberBuffer+3; i++ {
		b.Publish([]byte("event"))
		<-fast
	}

	received := 0
	for {
		select {
		case <-slow:
			received++
			continue
		default:
		}
		break
	}
	assert.Equal(t, subscriberBuffer, received)
}

func TestBroadcasterUnsubscribe(t *testing.T) {
	b := NewBroadcaster(zap.NewNop())

	ch, unsub := b.Subscribe()
	require.Equal(t, 1, b.SubscriberCount())

	unsub()
	assert.Equal(t, 0, b.SubscriberCount())

	// Channel is closed after unsubscribe.
	_, open := <-ch
	assert.False(t, open)

	// Idempotent.
	unsub()
}
