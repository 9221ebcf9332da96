// Package ws streams tracker events to websocket clients, one group of
// clients per session.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/tracker"
)

// message is a payload addressed to every client of one session.
type message struct {
	session uuid.UUID
	data    []byte
}

// Hub fans out session events to connected clients.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	now        func() time.Time
}

// NewHub creates a hub. Call Run to start delivering.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		broadcast:  make(chan message, 1024),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		now:        time.Now,
	}
}

// Run delivers messages until ctx is cancelled, then disconnects every client.
// Run must be called at most once.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mutex.Lock()
			for _, group := range h.clients {
				for c := range group {
					close(c.send)
				}
			}
			h.clients = make(map[uuid.UUID]map[*Client]bool)
			h.mutex.Unlock()
			return

		case client := <-h.register:
			h.mutex.Lock()
			group, ok := h.clients[client.session]
			if !ok {
				group = make(map[*Client]bool)
				h.clients[client.session] = group
			}
			group[client] = true
			total := len(group)
			h.mutex.Unlock()
			log.Printf("[ws] connected session=%s clients=%d", client.session, total)

		case client := <-h.unregister:
			h.mutex.Lock()
			h.removeLocked(client)
			h.mutex.Unlock()

		case msg := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients[msg.session] {
				select {
				case client.send <- msg.data:
				default:
					// Slow reader; drop it rather than stall every session.
					h.removeLocked(client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

func (h *Hub) removeLocked(client *Client) {
	group, ok := h.clients[client.session]
	if !ok || !group[client] {
		return
	}
	delete(group, client)
	close(client.send)
	if len(group) == 0 {
		delete(h.clients, client.session)
	}
	log.Printf("[ws] disconnected session=%s clients=%d", client.session, len(group))
}

// Register adds a client to its session group. Once the hub has stopped the
// client's send channel is closed instead, which ends its write pump.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister removes a client; unknown clients are ignored. It returns
// immediately once the hub has stopped, since Run has already closed every client.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues data for every client of a session. It never blocks;
// when the queue is full the message is dropped.
func (h *Hub) Broadcast(session uuid.UUID, data []byte) {
	select {
	case h.broadcast <- message{session: session, data: data}:
	default:
		log.Printf("[ws] broadcast dropped session=%s reason=buffer_full", session)
	}
}

// ClientCount returns the number of clients connected for a session.
func (h *Hub) ClientCount(session uuid.UUID) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[session])
}

// SessionEvent is the wire form of a tracker event.
type SessionEvent struct {
	tracker.Event
	SessionID uuid.UUID `json:"sessionId"`
	Timestamp string    `json:"timestamp"`
}

// Notifier returns a tracker.Notifier that publishes a session's events on the hub.
func (h *Hub) Notifier(session uuid.UUID) tracker.Notifier {
	return &sessionNotifier{hub: h, session: session}
}

type sessionNotifier struct {
	hub     *Hub
	session uuid.UUID
}

func (n *sessionNotifier) Publish(event tracker.Event) {
	b, err := json.Marshal(SessionEvent{
		Event:     event,
		SessionID: n.session,
		Timestamp: n.hub.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("[ws] encode event failed: %v", err)
		return
	}
	n.hub.Broadcast(n.session, b)
}
