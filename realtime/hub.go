// ABOUTME: Websocket hub fanning change events out to connected clients
// ABOUTME: Single goroutine owns the client set, channels carry the rest
package realtime

import (
	"encoding/json"
	"log"
)

// Hub owns the set of live connections. All membership changes and
// broadcasts pass through its run loop, so no lock is needed.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until Close is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("realtime: client connected (%d total)", len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("realtime: client disconnected (%d total)", len(h.clients))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// A client that cannot keep up is dropped, not
					// allowed to stall the rest.
					close(client.send)
					delete(h.clients, client)
				}
			}
		case <-h.done:
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		}
	}
}

// Publish broadcasts one change event to every connected client.
func (h *Hub) Publish(event ChangeEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("realtime: marshal failed: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

// Close stops the run loop and disconnects every client.
func (h *Hub) Close() {
	close(h.done)
}
