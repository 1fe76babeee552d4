// Package feed fans complaint events out to websocket subscribers. Mutations
// publish events through redis; the hub subscribes once and forwards each
// event to every connected client whose watch set matches. The hub owns its
// client map from a single goroutine, fed by channels.
package feed

import (
	"encoding/json"
	"log"

	"samadhan/backend/internal/models"
	"samadhan/backend/internal/storage"
)

// Client is one live-feed subscriber.
type Client interface {
	GetUserID() string
	GetSendChannel() chan<- models.ComplaintEvent
	// WantsEvent reports whether the client watches the event's complaint.
	// A client with an empty watch set receives everything.
	WantsEvent(ev models.ComplaintEvent) bool
	Run()
	Close()
}

// Hub routes complaint events to connected clients.
type Hub struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	EventCh      chan models.ComplaintEvent

	Storage *storage.Service
}

// NewHub creates a hub bound to the store's event subscription.
func NewHub(s *storage.Service) *Hub {
	return &Hub{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		EventCh:      make(chan models.ComplaintEvent, 64),
		Storage:      s,
	}
}

// StartEventListener subscribes to the redis event channel and feeds the
// hub's event loop.
func (h *Hub) StartEventListener() {
	if h.Storage == nil {
		return
	}
	go func() {
		pubsub := h.Storage.SubscribeEvents()
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var ev models.ComplaintEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("ERROR: Failed to decode feed event: %v", err)
				continue
			}
			h.EventCh <- ev
		}
	}()
}

// Run is the hub's main loop: registrations, departures and event fan-out.
func (h *Hub) Run() {
	h.StartEventListener()
	log.Println("Feed hub started.")

	for {
		select {
		case client := <-h.RegisterCh:
			h.Clients[client.GetUserID()] = client

		case client := <-h.UnregisterCh:
			if _, ok := h.Clients[client.GetUserID()]; ok {
				delete(h.Clients, client.GetUserID())
				client.Close()
			}

		case ev := <-h.EventCh:
			for id, client := range h.Clients {
				if !client.WantsEvent(ev) {
					continue
				}
				select {
				case client.GetSendChannel() <- ev:
				default:
					// Slow consumer; drop it rather than block the loop.
					delete(h.Clients, id)
					client.Close()
				}
			}
		}
	}
}
