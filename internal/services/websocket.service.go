package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type      string      `json:"type"` // "status", "pong", "error"
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// ClientConnection represents a connected WebSocket client
type ClientConnection struct {
	ID   string
	Conn *websocket.Conn
	Send chan WebSocketMessage
}

// WebSocketHub pushes a fresh status snapshot to every connected client
// on a fixed interval. Nothing is sampled while no client is connected.
type WebSocketHub struct {
	collector  Collector
	interval   time.Duration
	log        *zap.Logger
	clients    map[string]*ClientConnection
	register   chan *ClientConnection
	unregister chan string
	done       chan struct{}
	mu         sync.RWMutex
}

// NewWebSocketHub creates a hub; call Run to start it
func NewWebSocketHub(collector Collector, interval time.Duration, logger *zap.Logger) *WebSocketHub {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &WebSocketHub{
		collector:  collector,
		interval:   interval,
		log:        logger,
		clients:    make(map[string]*ClientConnection),
		register:   make(chan *ClientConnection),
		unregister: make(chan string),
		done:       make(chan struct{}),
	}
}

// Run manages the hub's event loop until ctx is done
func (h *WebSocketHub) Run(ctx context.Context) {
	defer close(h.done)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("client connected", zap.String("client", client.ID), zap.Int("total", total))

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, exists := h.clients[clientID]; exists {
				delete(h.clients, clientID)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("client disconnected", zap.String("client", clientID), zap.Int("total", total))

		case <-ticker.C:
			if h.ClientCount() == 0 {
				continue
			}
			h.broadcast(h.statusMessage(ctx))
		}
	}
}

// statusMessage samples the host. Collection blocks for the CPU sample
// window; registrations queue behind it.
func (h *WebSocketHub) statusMessage(ctx context.Context) WebSocketMessage {
	status, err := h.collector.CollectStatus(ctx)
	if err != nil {
		h.log.Warn("status collection failed", zap.Error(err))
		return WebSocketMessage{Type: "error", Timestamp: time.Now(), Error: "status unavailable"}
	}

	data, err := json.Marshal(status)
	if err != nil {
		h.log.Error("marshal status", zap.Error(err))
		return WebSocketMessage{Type: "error", Timestamp: time.Now(), Error: "status unavailable"}
	}

	return WebSocketMessage{
		Type:      "status",
		Timestamp: time.Now(),
		Data:      json.RawMessage(data),
	}
}

func (h *WebSocketHub) broadcast(msg WebSocketMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Send <- msg:
		default:
			// Client's send channel is full, skip this message
		}
	}
}

func (h *WebSocketHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		close(client.Send)
		delete(h.clients, id)
	}
}

// Register adds a new client to the hub. It returns false once the hub
// has stopped.
func (h *WebSocketHub) Register(client *ClientConnection) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client from the hub
func (h *WebSocketHub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SendMessage queues a message for one client without blocking. It is a
// no-op once the client has been unregistered.
func (h *WebSocketHub) SendMessage(clientID string, msg WebSocketMessage) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, exists := h.clients[clientID]
	if !exists {
		return false
	}

	select {
	case client.Send <- msg:
		return true
	default:
		return false // Send channel full
	}
}
