package handlers

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/contracthub/cms-backend/internal/events"
)

// EventsHandler streams collection change events to the dashboard over
// Server-Sent Events so open views can refetch when data changes.
type EventsHandler struct {
	hub    *events.Hub
	logger *logrus.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *events.Hub, logger *logrus.Logger) *EventsHandler {
	return &EventsHandler{
		hub:    hub,
		logger: logger,
	}
}

// Stream subscribes the client to the change feed. The connection stays
// open until the client disconnects or the subscriber channel closes.
func (h *EventsHandler) Stream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ch, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	h.logger.WithField("subscribers", h.hub.SubscriberCount()).Debug("SSE client connected")

	clientGone := c.Request.Context().Done()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case event, ok := <-ch:
			if !ok {
				return false
			}
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.WithError(err).Warn("Failed to encode change event")
				return true
			}
			c.SSEvent("change", string(payload))
			return true
		}
	})

	h.logger.Debug("SSE client disconnected")
}
