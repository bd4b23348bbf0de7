package ws

import (
	"log/slog"
	"sync"
)

// client is the slice of *websocket.Conn the hub needs.
type client interface {
	WriteJSON(v any) error
	Close() error
}

// Hub fans state-change events out to subscribed dashboard connections.
// Delivery is best effort and at most once; a connection that fails a
// write is dropped and the dashboard reconciles by polling.
type Hub struct {
	mu      sync.Mutex
	clients map[Topic]map[client]bool

	broadcast  chan Envelope
	register   chan subscription
	unregister chan subscription
}

// subscription attaches one connection to a set of topics.
type subscription struct {
	conn   client
	topics []Topic
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[Topic]map[client]bool),
		broadcast:  make(chan Envelope, 64),
		register:   make(chan subscription),
		unregister: make(chan subscription),
	}
}

// Run owns the client map; call it once in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			for _, t := range sub.topics {
				if h.clients[t] == nil {
					h.clients[t] = make(map[client]bool)
				}
				h.clients[t][sub.conn] = true
			}
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			h.dropLocked(sub.conn, sub.topics)
			h.mu.Unlock()

		case ev := <-h.broadcast:
			topic := Topic{Kind: ev.Kind, ScopeID: ev.ScopeID}
			h.mu.Lock()
			for conn := range h.clients[topic] {
				if err := conn.WriteJSON(ev); err != nil {
					slog.Warn("ws write failed, dropping client", "event", string(ev.Kind), "err", err)
					conn.Close()
					delete(h.clients[topic], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) dropLocked(conn client, topics []Topic) {
	for _, t := range topics {
		if _, ok := h.clients[t][conn]; ok {
			delete(h.clients[t], conn)
		}
	}
	conn.Close()
}

// Publish enqueues an event for every subscriber of (kind, scopeID).
// It never blocks order handling: if the hub is saturated the event is
// dropped, matching the at-most-once contract.
func (h *Hub) Publish(kind EventKind, scopeID uint, payload any) {
	ev := Envelope{Kind: kind, ScopeID: scopeID, Payload: payload}
	select {
	case h.broadcast <- ev:
	default:
		slog.Warn("event dropped, hub saturated", "event", string(kind), "scope", scopeID)
	}
}

// Subscribe registers conn for the given topics and returns a function
// that detaches it again.
func (h *Hub) Subscribe(conn client, topics []Topic) func() {
	h.register <- subscription{conn: conn, topics: topics}
	return func() {
		h.unregister <- subscription{conn: conn, topics: topics}
	}
}
