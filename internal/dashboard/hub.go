// Package dashboard provides a read-only, WebSocket-based operator view of
// the moderation pipeline: a hub that broadcasts any lifecycle event handed
// to Broadcast (connect/reconnect/publish/enqueue/chat-write) to every
// attached browser, plus a status route. No pipeline component calls
// Broadcast, so the only live data it serves is the connected-client count
// on the status route. It sits outside the critical path of the moderation
// pipeline — if nobody is watching, nothing here affects it.
package dashboard

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Client represents a connected WebSocket client.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of connected operator clients and broadcasts
// pipeline lifecycle events to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop. Call in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			log.Printf("[Dashboard] client connected (%d total)", len(h.clients))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("[Dashboard] client disconnected (%d total)", len(h.clients))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Event is a pipeline lifecycle event pushed to operator browsers.
type Event struct {
	Stage   string `json:"stage"`   // "connect", "reconnect", "publish", "enqueue", "chat_write"
	Outcome string `json:"outcome"` // "ok" or "error"
	Detail  string `json:"detail,omitempty"`
}

// Message wraps an Event in the envelope the dashboard's frontend expects.
type Message struct {
	Type string `json:"type"`
	Data Event  `json:"data"`
}

// Broadcast pushes a lifecycle event to every connected client, dropping it
// if the hub's internal queue is full rather than blocking the caller.
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(Message{Type: "event", Data: event})
	if err != nil {
		log.Printf("[Dashboard] error marshaling event: %v", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		log.Printf("[Dashboard] broadcast channel full, dropping event")
	}
}

// ClientCount returns the number of connected operator clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
