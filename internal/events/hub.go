// Package events fans petition lifecycle events out to websocket
// subscribers. The workflow publishes events through storage onto the redis
// channel; the hub subscribes there and broadcasts to every connected
// client, so multiple server instances share one stream.
package events

import (
	log "github.com/sirupsen/logrus"

	"voxpop/backend/internal/models"
)

// Subscriber is one live event consumer. The hub only ever writes to its
// send channel; the concrete connection handling lives with the subscriber.
type Subscriber interface {
	// ID identifies the subscriber in logs.
	ID() string
	// SendChannel is where the hub delivers events for this subscriber.
	SendChannel() chan<- models.PetitionEvent
	// Run starts the subscriber's pumps.
	Run()
	// Close shuts the subscriber down and releases its channel.
	Close()
}

// Hub tracks subscribers and broadcasts events to all of them.
type Hub struct {
	subscribers map[string]Subscriber

	RegisterCh   chan Subscriber
	UnregisterCh chan Subscriber
	BroadcastCh  chan models.PetitionEvent
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subscribers:  make(map[string]Subscriber),
		RegisterCh:   make(chan Subscriber),
		UnregisterCh: make(chan Subscriber),
		BroadcastCh:  make(chan models.PetitionEvent, 64),
	}
}

// Run is the hub's dispatch loop. A subscriber whose send channel is full is
// dropped rather than allowed to stall the broadcast.
func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.RegisterCh:
			h.subscribers[sub.ID()] = sub
			sub.Run()
			log.WithField("subscriber", sub.ID()).Debug("event subscriber registered")

		case sub := <-h.UnregisterCh:
			if _, ok := h.subscribers[sub.ID()]; ok {
				delete(h.subscribers, sub.ID())
				sub.Close()
			}

		case event := <-h.BroadcastCh:
			for id, sub := range h.subscribers {
				select {
				case sub.SendChannel() <- event:
				default:
					log.WithField("subscriber", id).Warn("slow event subscriber dropped")
					delete(h.subscribers, id)
					sub.Close()
				}
			}
		}
	}
}
