// Package events provides the in-process change feed the dashboard
// subscribes to. Services publish a CollectionChanged event after every
// mutation; the SSE handler fans events out to connected clients so the
// UI can refetch the affected collection.
package events

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Actions carried by change events
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// CollectionChanged signals that a stored collection was mutated
type CollectionChanged struct {
	Entity    string    `json:"entity"` // promoters, contracts, parties, notifications
	Action    string    `json:"action"`
	EntityID  string    `json:"entity_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// subscriberBuffer is the per-subscriber channel depth. A subscriber
// that falls this far behind is dropped instead of blocking publishers.
const subscriberBuffer = 16

// Hub fans CollectionChanged events out to subscribers
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan CollectionChanged]struct{}
	logger      *logrus.Logger
}

// NewHub creates an event hub
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		subscribers: make(map[chan CollectionChanged]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a new subscriber and returns its channel along
// with an unsubscribe function. The unsubscribe function is idempotent.
func (h *Hub) Subscribe() (<-chan CollectionChanged, func()) {
	ch := make(chan CollectionChanged, subscriberBuffer)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			// Close may have already removed and closed the channel
			if _, ok := h.subscribers[ch]; ok {
				delete(h.subscribers, ch)
				close(ch)
			}
		})
	}
	return ch, unsubscribe
}

// Publish delivers an event to every subscriber without blocking. Full
// subscriber buffers drop the event for that subscriber only.
func (h *Hub) Publish(event CollectionChanged) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			if h.logger != nil {
				h.logger.WithFields(logrus.Fields{
					"entity": event.Entity,
					"action": event.Action,
				}).Warn("Dropping change event for slow subscriber")
			}
		}
	}
}

// SubscriberCount returns the number of active subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close closes every subscriber channel. Used during shutdown so open
// streams terminate instead of waiting on a channel that never delivers.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers {
		delete(h.subscribers, ch)
		close(ch)
	}
}
