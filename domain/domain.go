package domain

// UserState is the canonical record for one joined user. It is created on
// join, owned by the server registry, and mutated only through Registry.Move.
type UserState struct {
	ID       string  `json:"id"`
	Nickname string  `json:"nickname"`
	Avatar   string  `json:"avatar"`
	Color    int     `json:"color"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// DoorState is one named door flag. Absence of a key means closed.
type DoorState struct {
	Key    string `json:"key"`
	IsOpen bool   `json:"isOpen"`
}

type Connection interface {
	ID() string
	Send(data []byte) error
	Close() error
}

// Registry tracks live connections and the sessions bound to them, and fans
// messages out. Broadcasts reach every live connection, joined or not; the
// two session views (connection->user, id->connection) are always updated
// together.
type Registry interface {
	// Register adds a freshly accepted connection to the broadcast set,
	// before it has joined.
	Register(conn Connection)
	// Unregister removes conn from the broadcast set.
	Unregister(conn Connection)
	// Join binds user to conn and returns a snapshot of all joined users,
	// including the new one. Returns false if conn is already bound.
	Join(conn Connection, user *UserState) ([]UserState, bool)
	// Leave unbinds conn and returns the departed user, if conn was joined.
	Leave(conn Connection) (UserState, bool)
	// Move overwrites the position of the user bound to conn and returns
	// its id. Returns false if conn has not joined.
	Move(conn Connection, x, y float64) (string, bool)
	// User returns a copy of the user bound to conn.
	User(conn Connection) (UserState, bool)
	Lookup(id string) (Connection, bool)
	Broadcast(data []byte)
	BroadcastExcept(sender Connection, data []byte)
	Count() int
}

// DoorStore holds the authoritative door flags.
type DoorStore interface {
	// Toggle flips the flag for key (missing keys start closed) and
	// returns the new value.
	Toggle(key string) bool
	Snapshot() []DoorState
	Count() int
}

type MessageHandler interface {
	Handle(conn Connection, data []byte)
	// Disconnect runs session cleanup for conn. Safe to call for
	// connections that never joined.
	Disconnect(conn Connection)
}
