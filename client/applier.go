package client

import (
	"encoding/json"
	"log/slog"

	"github.com/hekoh99/meta-library/domain"
	"github.com/hekoh99/meta-library/protocol"
)

// Handlers receives decoded server messages. Nil entries are skipped.
type Handlers struct {
	OnWelcome    func(id string, users []domain.UserState, doors []domain.DoorState)
	OnUserJoined func(user domain.UserState)
	OnUserLeft   func(id string)
	OnState      func(id string, x, y float64)
	OnDoorState  func(key string, isOpen bool)
	OnSignal     func(from string, data json.RawMessage)
}

// Applier dispatches each server message to exactly one handler. It holds no
// state of its own; storage and rendering belong to the handlers.
type Applier struct {
	handlers Handlers
}

func NewApplier(handlers Handlers) *Applier {
	return &Applier{handlers: handlers}
}

func (a *Applier) Apply(msg protocol.ServerMessage) {
	switch msg.Type {
	case protocol.TypeWelcome:
		if a.handlers.OnWelcome != nil {
			a.handlers.OnWelcome(msg.ID, msg.Users, msg.Doors)
		}
	case protocol.TypeUserJoined:
		if a.handlers.OnUserJoined != nil && msg.User != nil {
			a.handlers.OnUserJoined(*msg.User)
		}
	case protocol.TypeUserLeft:
		if a.handlers.OnUserLeft != nil {
			a.handlers.OnUserLeft(msg.ID)
		}
	case protocol.TypeState:
		if a.handlers.OnState != nil {
			a.handlers.OnState(msg.ID, msg.X, msg.Y)
		}
	case protocol.TypeDoorState:
		if a.handlers.OnDoorState != nil {
			a.handlers.OnDoorState(msg.Key, msg.IsOpen)
		}
	case protocol.TypeSignal:
		if a.handlers.OnSignal != nil {
			a.handlers.OnSignal(msg.From, msg.Data)
		}
	default:
		slog.Debug("unhandled server message", "type", msg.Type)
	}
}
