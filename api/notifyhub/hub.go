package notifyhub

import (
	"sync"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/chroma-ai/chroma-web/tool"
	"github.com/chroma-ai/chroma-web/types"
)

// Hub holds WebSocket connections grouped by client id and broadcasts to one client's tabs.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*websocket.Conn]*sync.Mutex
}

// New creates a new notify hub.
func New() *Hub {
	return &Hub{
		clients: make(map[string]map[*websocket.Conn]*sync.Mutex),
	}
}

// Register adds a WebSocket connection for clientID.
func (h *Hub) Register(clientID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.clients[clientID]
	if conns == nil {
		conns = make(map[*websocket.Conn]*sync.Mutex)
		h.clients[clientID] = conns
	}
	conns[conn] = &sync.Mutex{}
}

// Unregister removes a WebSocket connection.
func (h *Hub) Unregister(clientID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.clients[clientID]
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.clients, clientID)
	}
}

// Count returns the number of open connections of clientID.
func (h *Hub) Count(clientID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[clientID])
}

// Broadcast sends the notification as JSON to every tab of clientID.
// Implements types.NotifyHub.
func (h *Hub) Broadcast(clientID string, notification *types.Notification) {
	if notification == nil {
		return
	}
	payload, err := sonic.Marshal(notification)
	if err != nil {
		return
	}

	type target struct {
		conn *websocket.Conn
		mu   *sync.Mutex
	}
	h.mu.RLock()
	targets := make([]target, 0, len(h.clients[clientID]))
	for c, mu := range h.clients[clientID] {
		targets = append(targets, target{c, mu})
	}
	h.mu.RUnlock()

	for _, t := range targets {
		t.mu.Lock()
		err := t.conn.WriteMessage(websocket.TextMessage, payload)
		t.mu.Unlock()
		if err != nil {
			tool.DefaultLogger.Debugf("[NotifyHub] write to %s failed: %v", clientID, err)
		}
	}
}
