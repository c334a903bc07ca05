package ws

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// clientBufferSize bounds the per-client send queue. A client that cannot
// drain its queue is disconnected rather than allowed to block the hub.
const clientBufferSize = 64

// Client is one connected websocket peer registered with the Hub.
type Client struct {
	ID   string
	Send chan Message
}

// Hub fans broadcast messages out to every registered client. All state is
// owned by the Run goroutine; Register, Unregister and Broadcast are safe to
// call from any goroutine.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan Message

	mu      sync.RWMutex
	onClose func(connectionID string)
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message, 256),
	}
}

// SetOnClose installs a callback invoked with the connection id of every
// client that leaves the hub. Used to release identity claims held by
// disconnected students.
func (h *Hub) SetOnClose(fn func(connectionID string)) {
	h.mu.Lock()
	h.onClose = fn
	h.mu.Unlock()
}

// Run processes registrations and broadcasts until the process exits.
// Must be started exactly once, in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			log.Debug().Str("connection_id", c.ID).Int("clients", len(h.clients)).Msg("websocket client registered")

		case c := <-h.unregister:
			h.remove(c, "unregistered")

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.Send <- msg:
				default:
					// Slow consumer: drop it rather than block everyone.
					h.remove(c, "send buffer full")
				}
			}
		}
	}
}

// remove takes a client out of the hub and fires the onClose callback.
// Every exit path goes through here so a dropped connection always gets
// its identity claims released. No-op if the client already left.
func (h *Hub) remove(c *Client, reason string) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.Send)
	log.Debug().Str("connection_id", c.ID).Str("reason", reason).Int("clients", len(h.clients)).Msg("websocket client removed")

	h.mu.RLock()
	onClose := h.onClose
	h.mu.RUnlock()
	if onClose != nil {
		// Runs off the hub goroutine so a slow sweep never stalls
		// message delivery.
		go onClose(c.ID)
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Broadcast queues a message for delivery to every connected client.
// Delivery is fire-and-forget.
func (h *Hub) Broadcast(event Event, data any) {
	h.broadcast <- Message{Event: event, Data: data}
}

// NewClient builds a client with a buffered send queue.
func NewClient(id string) *Client {
	return &Client{ID: id, Send: make(chan Message, clientBufferSize)}
}
