package main

import (
	"sync"

	"go.uber.org/zap"
)

const (
	maxConnsPerIP = 5
	maxConnsTotal = 1000
)

// Hub tracks live connections and enforces the per-IP and global caps.
// The game itself is shared by every client; the hub only owns the
// sockets.
type Hub struct {
	game       *Game
	log        *zap.Logger
	register   chan *Client
	unregister chan *Client
	clients    map[*Client]bool

	mu        sync.Mutex
	connsByIP map[string]int
}

// NewHub creates a new Hub bound to a game.
func NewHub(game *Game, log *zap.Logger) *Hub {
	return &Hub{
		game:       game,
		log:        log,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		connsByIP:  make(map[string]int),
	}
}

// Run processes register/unregister events
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				if client.playerID != "" {
					h.game.RemovePlayer(client.playerID)
				}
			}
		}
	}
}

// TryConnect reserves a connection slot for an IP. Returns false when
// either cap is hit.
func (h *Hub) TryConnect(ip string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	total := 0
	for _, n := range h.connsByIP {
		total += n
	}
	if total >= maxConnsTotal {
		h.log.Warn("connection cap reached", zap.Int("total", total))
		return false
	}
	if h.connsByIP[ip] >= maxConnsPerIP {
		h.log.Warn("per-ip cap reached", zap.String("ip", ip))
		return false
	}
	h.connsByIP[ip]++
	return true
}

// TrackDisconnect releases an IP's connection slot.
func (h *Hub) TrackDisconnect(ip string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.connsByIP[ip] <= 1 {
		delete(h.connsByIP, ip)
	} else {
		h.connsByIP[ip]--
	}
}
