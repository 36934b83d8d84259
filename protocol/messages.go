package protocol

import (
	"encoding/json"

	"github.com/hekoh99/meta-library/domain"
)

// Client-to-server message tags.
const (
	TypeJoin       = "join"
	TypeMove       = "move"
	TypeDoorToggle = "door_toggle"
	TypeSignal     = "signal"
)

// Server-to-client message tags.
const (
	TypeWelcome    = "welcome"
	TypeUserJoined = "user_joined"
	TypeUserLeft   = "user_left"
	TypeState      = "state"
	TypeDoorState  = "door_state"
)

// ClientMessage is the decode target for inbound client frames. One flat
// struct covers every tag; Handle switches on Type and reads only the fields
// that tag defines.
type ClientMessage struct {
	Type     string          `json:"type"`
	Room     string          `json:"room"`
	Nickname string          `json:"nickname"`
	Avatar   string          `json:"avatar"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Key      string          `json:"key"`
	To       string          `json:"to"`
	Data     json.RawMessage `json:"data"`
}

// ServerMessage is the decode target for inbound server frames on the client
// side, flat for the same reason as ClientMessage.
type ServerMessage struct {
	Type   string             `json:"type"`
	ID     string             `json:"id"`
	Users  []domain.UserState `json:"users"`
	Doors  []domain.DoorState `json:"doors"`
	User   *domain.UserState  `json:"user"`
	X      float64            `json:"x"`
	Y      float64            `json:"y"`
	Key    string             `json:"key"`
	IsOpen bool               `json:"isOpen"`
	From   string             `json:"from"`
	Data   json.RawMessage    `json:"data"`
}

// Outbound messages are encoded from per-tag structs so each frame carries
// exactly the fields its tag defines.

type Join struct {
	Type     string `json:"type"`
	Room     string `json:"room"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

func NewJoin(room, nickname, avatar string) Join {
	return Join{Type: TypeJoin, Room: room, Nickname: nickname, Avatar: avatar}
}

type Move struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func NewMove(x, y float64) Move {
	return Move{Type: TypeMove, X: x, Y: y}
}

type DoorToggle struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

func NewDoorToggle(key string) DoorToggle {
	return DoorToggle{Type: TypeDoorToggle, Key: key}
}

type SignalTo struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

func NewSignalTo(to string, data json.RawMessage) SignalTo {
	return SignalTo{Type: TypeSignal, To: to, Data: data}
}

type Welcome struct {
	Type  string             `json:"type"`
	ID    string             `json:"id"`
	Users []domain.UserState `json:"users"`
	Doors []domain.DoorState `json:"doors"`
}

func NewWelcome(id string, users []domain.UserState, doors []domain.DoorState) Welcome {
	return Welcome{Type: TypeWelcome, ID: id, Users: users, Doors: doors}
}

type UserJoined struct {
	Type string           `json:"type"`
	User domain.UserState `json:"user"`
}

func NewUserJoined(user domain.UserState) UserJoined {
	return UserJoined{Type: TypeUserJoined, User: user}
}

type UserLeft struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

func NewUserLeft(id string) UserLeft {
	return UserLeft{Type: TypeUserLeft, ID: id}
}

type StateUpdate struct {
	Type string  `json:"type"`
	ID   string  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func NewStateUpdate(id string, x, y float64) StateUpdate {
	return StateUpdate{Type: TypeState, ID: id, X: x, Y: y}
}

type DoorUpdate struct {
	Type   string `json:"type"`
	Key    string `json:"key"`
	IsOpen bool   `json:"isOpen"`
}

func NewDoorUpdate(key string, isOpen bool) DoorUpdate {
	return DoorUpdate{Type: TypeDoorState, Key: key, IsOpen: isOpen}
}

type SignalFrom struct {
	Type string          `json:"type"`
	From string          `json:"from"`
	Data json.RawMessage `json:"data"`
}

func NewSignalFrom(from string, data json.RawMessage) SignalFrom {
	return SignalFrom{Type: TypeSignal, From: from, Data: data}
}
