package hub

import (
	"log/slog"
	"sync"

	"github.com/hekoh99/meta-library/domain"
)

// Hub is the session registry and broadcast dispatcher. It tracks every live
// connection for fan-out and keeps two views of the joined subset,
// connection->user and id->connection, mutated together under one lock so
// snapshots and membership are always consistent.
type Hub struct {
	mu    sync.RWMutex
	conns map[domain.Connection]struct{}
	users map[domain.Connection]*domain.UserState
	byID  map[string]domain.Connection
}

func New() *Hub {
	return &Hub{
		conns: make(map[domain.Connection]struct{}),
		users: make(map[domain.Connection]*domain.UserState),
		byID:  make(map[string]domain.Connection),
	}
}

// Register adds a freshly accepted connection to the broadcast set. A
// connection receives state traffic from this point on, before it joins.
func (h *Hub) Register(conn domain.Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

func (h *Hub) Unregister(conn domain.Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

// Join binds user to conn and snapshots the joined set in the same critical
// section, so the caller's welcome payload matches membership exactly.
func (h *Hub) Join(conn domain.Connection, user *domain.UserState) ([]domain.UserState, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.users[conn]; exists {
		return nil, false
	}
	// Joined connections are always part of the broadcast set, even when
	// the caller skipped Register.
	h.conns[conn] = struct{}{}
	h.users[conn] = user
	h.byID[user.ID] = conn

	snapshot := make([]domain.UserState, 0, len(h.users))
	for _, u := range h.users {
		snapshot = append(snapshot, *u)
	}
	return snapshot, true
}

func (h *Hub) Leave(conn domain.Connection) (domain.UserState, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	user, exists := h.users[conn]
	if !exists {
		return domain.UserState{}, false
	}
	delete(h.users, conn)
	delete(h.byID, user.ID)
	return *user, true
}

func (h *Hub) Move(conn domain.Connection, x, y float64) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	user, exists := h.users[conn]
	if !exists {
		return "", false
	}
	user.X = x
	user.Y = y
	return user.ID, true
}

func (h *Hub) User(conn domain.Connection) (domain.UserState, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	user, exists := h.users[conn]
	if !exists {
		return domain.UserState{}, false
	}
	return *user, true
}

func (h *Hub) Lookup(id string) (domain.Connection, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conn, exists := h.byID[id]
	return conn, exists
}

// Broadcast sends data to every live connection, sender included.
func (h *Hub) Broadcast(data []byte) {
	h.fanOut(nil, data)
}

// BroadcastExcept sends data to every live connection except sender.
func (h *Hub) BroadcastExcept(sender domain.Connection, data []byte) {
	h.fanOut(sender, data)
}

func (h *Hub) fanOut(exclude domain.Connection, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.conns {
		if conn == exclude {
			continue
		}
		if err := conn.Send(data); err != nil {
			// A dead connection cleans itself up through its read
			// pump; a slow one just misses this update.
			slog.Warn("drop broadcast", "connId", conn.ID(), "error", err)
		}
	}
}

// Count returns the number of joined users.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users)
}

// LiveCount returns the number of live connections, joined or not.
func (h *Hub) LiveCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
