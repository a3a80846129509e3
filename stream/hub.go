package stream

import (
	"log/slog"
	"sync"
)

// clientBuffer is the number of frames queued per client before drops.
const clientBuffer = 16

// Hub tracks connected clients, fans snapshot frames out to them and queues
// their commands for the game loop.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]struct{}
	commands chan Command
	dropped  int
}

// NewHub creates a hub whose command queue holds commandBuffer entries.
func NewHub(commandBuffer int) *Hub {
	if commandBuffer < 1 {
		commandBuffer = 64
	}
	return &Hub{
		clients:  make(map[*Client]struct{}),
		commands: make(chan Command, commandBuffer),
	}
}

// Register adds a client to the broadcast set.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	slog.Info("client_connected", "remote", c.remote, "clients", len(h.clients))
}

// Unregister removes a client and closes its send channel. It is safe to
// call more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	slog.Info("client_disconnected", "remote", c.remote, "clients", len(h.clients))
}

// Broadcast queues a frame for every client. Clients whose queue is full
// skip the frame.
func (h *Hub) Broadcast(frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
		}
	}
}

// Submit queues a command without blocking. It returns false if the queue
// is full and the command was dropped.
func (h *Hub) Submit(cmd Command) bool {
	select {
	case h.commands <- cmd:
		return true
	default:
		h.mu.Lock()
		h.dropped++
		h.mu.Unlock()
		return false
	}
}

// Drain applies every queued command to ctl and returns how many it applied.
func (h *Hub) Drain(ctl Controller) int {
	n := 0
	for {
		select {
		case cmd := <-h.commands:
			cmd.Apply(ctl)
			n++
		default:
			return n
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns the number of commands rejected by a full queue.
func (h *Hub) Dropped() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}
