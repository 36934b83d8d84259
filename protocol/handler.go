package protocol

import (
	"encoding/json"
	"log/slog"

	"github.com/hekoh99/meta-library/domain"
)

// Handler is the per-connection session state machine. All world mutation
// goes through the injected registry and door store, which serialize access
// internally; Handler itself keeps no state.
type Handler struct {
	registry domain.Registry
	doors    domain.DoorStore
}

func NewHandler(registry domain.Registry, doors domain.DoorStore) *Handler {
	return &Handler{registry: registry, doors: doors}
}

func (h *Handler) Handle(conn domain.Connection, data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		slog.Warn("invalid message", "connId", conn.ID(), "error", err)
		return
	}

	switch msg.Type {
	case TypeJoin:
		h.handleJoin(conn, msg)
	case TypeMove:
		h.handleMove(conn, msg)
	case TypeDoorToggle:
		h.handleDoorToggle(conn, msg)
	case TypeSignal:
		h.handleSignal(conn, msg)
	default:
		slog.Warn("unrecognized message type", "connId", conn.ID(), "type", msg.Type)
	}
}

// Disconnect drops conn from the broadcast set, removes the session bound to
// it, if any, and tells everyone left. Runs for graceful and abnormal closes
// alike.
func (h *Handler) Disconnect(conn domain.Connection) {
	h.registry.Unregister(conn)
	user, ok := h.registry.Leave(conn)
	if !ok {
		return
	}
	if data := encode(NewUserLeft(user.ID)); data != nil {
		h.registry.Broadcast(data)
	}
	slog.Info("user left", "userId", user.ID, "clients", h.registry.Count())
}

func (h *Handler) handleJoin(conn domain.Connection, msg ClientMessage) {
	id, err := newUserID()
	if err != nil {
		slog.Error("generate user id", "connId", conn.ID(), "error", err)
		return
	}

	user := &domain.UserState{
		ID:       id,
		Nickname: msg.Nickname,
		Avatar:   msg.Avatar,
		Color:    colorFromID(id),
	}

	// The room field is accepted but unused; there is a single world.
	users, ok := h.registry.Join(conn, user)
	if !ok {
		// Already joined: repeated joins are a silent no-op.
		return
	}

	if data := encode(NewWelcome(id, users, h.doors.Snapshot())); data != nil {
		if err := conn.Send(data); err != nil {
			slog.Warn("send welcome", "userId", id, "error", err)
		}
	}
	if data := encode(NewUserJoined(*user)); data != nil {
		h.registry.BroadcastExcept(conn, data)
	}
	slog.Info("user joined", "userId", id, "nickname", user.Nickname, "clients", h.registry.Count())
}

func (h *Handler) handleMove(conn domain.Connection, msg ClientMessage) {
	id, ok := h.registry.Move(conn, msg.X, msg.Y)
	if !ok {
		// Move before join: ignored.
		return
	}
	if data := encode(NewStateUpdate(id, msg.X, msg.Y)); data != nil {
		h.registry.BroadcastExcept(conn, data)
	}
}

func (h *Handler) handleDoorToggle(conn domain.Connection, msg ClientMessage) {
	isOpen := h.doors.Toggle(msg.Key)
	// Inclusive broadcast: the echo doubles as the requester's ack.
	if data := encode(NewDoorUpdate(msg.Key, isOpen)); data != nil {
		h.registry.Broadcast(data)
	}
	slog.Debug("door toggled", "key", msg.Key, "isOpen", isOpen)
}

// handleSignal relays opaque peer-signaling payloads to the addressed user.
// The payload is passed through untouched.
func (h *Handler) handleSignal(conn domain.Connection, msg ClientMessage) {
	sender, ok := h.registry.User(conn)
	if !ok {
		return
	}
	target, ok := h.registry.Lookup(msg.To)
	if !ok {
		slog.Debug("signal target not found", "from", sender.ID, "to", msg.To)
		return
	}
	if data := encode(NewSignalFrom(sender.ID, msg.Data)); data != nil {
		if err := target.Send(data); err != nil {
			slog.Debug("relay signal", "to", msg.To, "error", err)
		}
	}
}

func encode(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("marshal message", "error", err)
		return nil
	}
	return data
}
