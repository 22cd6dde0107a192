package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesAllSubscribers(t *testing.T) {
	hub := NewHub(nil)

	ch1, unsub1 := hub.Subscribe()
	ch2, unsub2 := hub.Subscribe()
	defer unsub1()
	defer unsub2()

	hub.Publish(CollectionChanged{Entity: "promoters", Action: ActionCreated, EntityID: "abc"})

	for _, ch := range []<-chan CollectionChanged{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, "promoters", ev.Entity)
			assert.Equal(t, ActionCreated, ev.Action)
			assert.False(t, ev.Timestamp.IsZero(), "timestamp is stamped on publish")
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub(nil)

	ch, unsub := hub.Subscribe()
	require.Equal(t, 1, hub.SubscriberCount())

	unsub()
	assert.Equal(t, 0, hub.SubscriberCount())

	// Channel is closed after unsubscribe.
	_, open := <-ch
	assert.False(t, open)

	// Idempotent: a second call must not panic.
	unsub()
}

func TestHub_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := NewHub(nil)

	_, unsub := hub.Subscribe()
	defer unsub()

	done := make(chan struct{})
	go func() {
		// Overflow the subscriber buffer; Publish must never block.
		for i := 0; i < subscriberBuffer*3; i++ {
			hub.Publish(CollectionChanged{Entity: "contracts", Action: ActionUpdated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
