package rpc

import (
	"log/slog"
	"sync"

	"github.com/ytdlp-gui/ytdlp-gui/server/internal/session"
)

const clientBuffer = 32

// Hub fans session snapshots out to every connected websocket client.
// It subscribes to the bus once, clients register with the hub.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

type client struct {
	send chan Message
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

func (h *Hub) register() *client {
	c := &client{send: make(chan Message, clientBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// Broadcast never blocks, a client that cannot keep up loses snapshots.
func (h *Hub) Broadcast(snap session.Snapshot) {
	msg := Message{Type: typeSnapshot, Snapshot: &snap}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slog.Debug("dropping snapshot for slow websocket client")
		}
	}
}

// Clients reports the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
