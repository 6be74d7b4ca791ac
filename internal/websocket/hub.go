package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// How often the hub polls the leaderboard version.
	// Clients refetch only when the version moves, at most once per interval.
	versionPollInterval = 2 * time.Second

	// Per-client outbound buffer
	sendBufferSize = 256
)

// MessageVersionUpdate is the type tag of version notifications
const MessageVersionUpdate = "VERSION_UPDATE"

// VersionSource reports the current leaderboard version
type VersionSource interface {
	GetLeaderboardVersion(ctx context.Context) (int64, error)
}

// Client represents a WebSocket client connection
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected viewers and tells them when the leaderboard changes
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	versions   VersionSource
	interval   time.Duration
	done       chan struct{}

	mu          sync.RWMutex
	lastVersion int64
}

// VersionUpdate is the message pushed to clients
type VersionUpdate struct {
	Type    string `json:"type"`
	Version int64  `json:"version"`
}

// NewHub creates a new WebSocket hub
func NewHub(versions VersionSource) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		versions:   versions,
		interval:   versionPollInterval,
		done:       make(chan struct{}),
	}
}

// Run processes registrations and version polling until ctx is done
func (h *Hub) Run(ctx context.Context) {
	log.Println("🚀 WebSocket hub started")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("✅ Viewer connected (total: %d)", total)

			h.sendCurrentVersion(ctx, client)

		case client := <-h.unregister:
			h.remove(client)

		case <-ticker.C:
			h.checkAndBroadcastVersion(ctx)

		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			log.Println("🛑 WebSocket hub shutting down")
			return
		}
	}
}

// checkAndBroadcastVersion broadcasts when the version differs from the last one seen
func (h *Hub) checkAndBroadcastVersion(ctx context.Context) {
	current, err := h.versions.GetLeaderboardVersion(ctx)
	if err != nil {
		log.Printf("❌ Failed to get leaderboard version: %v", err)
		return
	}

	h.mu.Lock()
	changed := current != h.lastVersion
	h.lastVersion = current
	h.mu.Unlock()

	if !changed {
		return
	}

	log.Printf("📡 Leaderboard version %d, notifying %d viewers", current, h.GetClientCount())
	h.broadcast(current)
}

func (h *Hub) broadcast(version int64) {
	message, err := encodeVersion(version)
	if err != nil {
		log.Printf("❌ Failed to encode version update: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			log.Printf("⚠️ Viewer send buffer full, skipping")
		}
	}
}

// sendCurrentVersion primes a new client so it can fetch immediately
func (h *Hub) sendCurrentVersion(ctx context.Context, client *Client) {
	current, err := h.versions.GetLeaderboardVersion(ctx)
	if err != nil {
		log.Printf("❌ Failed to get initial version: %v", err)
		return
	}

	h.mu.Lock()
	if h.lastVersion == 0 {
		h.lastVersion = current
	}
	h.mu.Unlock()

	message, err := encodeVersion(current)
	if err != nil {
		log.Printf("❌ Failed to encode initial version: %v", err)
		return
	}

	select {
	case client.send <- message:
	default:
		log.Println("⚠️ Viewer send buffer full before initial version")
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		log.Printf("❌ Viewer disconnected (total: %d)", len(h.clients))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

// GetClientCount returns the current number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func encodeVersion(version int64) ([]byte, error) {
	return json.Marshal(VersionUpdate{Type: MessageVersionUpdate, Version: version})
}

// readPump drains the connection until the viewer goes away
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("⚠️ WebSocket unexpected close: %v", err)
			}
			return
		}
	}
}

// writePump forwards hub messages to the connection
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// ServeWS registers the connection and blocks until it closes
func ServeWS(hub *Hub, conn *websocket.Conn) {
	client := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
