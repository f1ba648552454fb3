package realtime

import (
	"encoding/json"
	"sync"

	"freeland/pkg/logger"

	"github.com/gorilla/websocket"
)

// Conn is the subset of *websocket.Conn the hub needs; tests substitute fakes.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
}

// Hub owns the set of live sockets and the user<->socket binding. All maps
// are guarded by one mutex; callers never see raw iteration.
type Hub struct {
	mu         sync.Mutex
	conns      map[Conn]struct{}
	userByConn map[Conn]string
	connByUser map[string]Conn
	logger     *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		conns:      make(map[Conn]struct{}),
		userByConn: make(map[Conn]string),
		connByUser: make(map[string]Conn),
		logger:     log,
	}
}

// Connect adds a socket to the live set. Identity is bound later, from the
// first inbound action.
func (h *Hub) Connect(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
}

// Bind attaches a user identity to a socket, both directions. A socket binds
// at most once; a user reconnecting on a new socket supersedes the previous
// entry without closing the old socket.
func (h *Hub) Bind(c Conn, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, bound := h.userByConn[c]; bound {
		return
	}
	h.userByConn[c] = userID
	h.connByUser[userID] = c
}

// UserFor returns the identity bound to a socket, if any.
func (h *Hub) UserFor(c Conn) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	uid, ok := h.userByConn[c]
	return uid, ok
}

// Disconnect removes a socket from the live set and clears its binding.
func (h *Hub) Disconnect(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c)
	if uid, ok := h.userByConn[c]; ok {
		delete(h.userByConn, c)
		if h.connByUser[uid] == c {
			delete(h.connByUser, uid)
		}
	}
}

// Broadcast serializes the event once and attempts delivery to every live
// socket. Failures are logged and skipped, never fatal to the caller.
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast event: %v", err)
		return
	}

	h.mu.Lock()
	targets := make([]Conn, 0, len(h.conns))
	for c := range h.conns {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Warn("Broadcast delivery failed: %v", err)
		}
	}
}

// SendToUser delivers an event to one user's socket. If the user is not
// connected the event is silently dropped; this is an at-most-once channel,
// not a durable outbox.
func (h *Hub) SendToUser(userID string, event Event) {
	h.mu.Lock()
	c, ok := h.connByUser[userID]
	h.mu.Unlock()
	if !ok {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to marshal event for user %s: %v", userID, err)
		return
	}

	if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
		h.logger.Warn("Delivery to user %s failed: %v", userID, err)
	}
}
