package client

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/hekoh99/meta-library/protocol"
)

type MessageListener func(msg protocol.ServerMessage)

type OpenListener func()

// Client owns one connection to the sync server. Messages that arrive before
// any listener is attached are buffered in arrival order and drained by the
// first registration, so a consumer that attaches late misses nothing.
//
// There is no reconnection: a dropped connection stays dropped.
type Client struct {
	mu            sync.Mutex
	ws            *websocket.Conn
	open          bool
	openListeners []OpenListener

	// deliverMu serializes all delivery so a buffer flush and a live
	// message can never interleave out of order.
	deliverMu sync.Mutex
	listeners []MessageListener
	buffered  []protocol.ServerMessage
}

func New() *Client {
	return &Client{}
}

// Connect dials url, fires open listeners, and starts the read loop.
func (c *Client) Connect(url string) error {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.ws = conn
	c.open = true
	listeners := c.openListeners
	c.openListeners = nil
	c.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}

	go c.readLoop()
	return nil
}

// OnOpen registers fn to run once the connection is established. If the
// connection is already open, fn runs immediately.
func (c *Client) OnOpen(fn OpenListener) {
	c.mu.Lock()
	if !c.open {
		c.openListeners = append(c.openListeners, fn)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	fn()
}

// OnMessage registers a consumer and drains any buffered messages to it, in
// arrival order, before any live message is delivered.
func (c *Client) OnMessage(fn MessageListener) {
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()

	c.listeners = append(c.listeners, fn)
	buffered := c.buffered
	c.buffered = nil
	for _, msg := range buffered {
		for _, listener := range c.listeners {
			listener(msg)
		}
	}
}

// Send marshals payload onto the wire and reports whether it was actually
// transmitted. Sending on a connection that is not open is a no-op, not an
// error; callers decide whether to queue or drop.
func (c *Client) Send(payload any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("marshal payload", "error", err)
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open || c.ws == nil {
		return false
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		c.open = false
		return false
	}
	return true
}

func (c *Client) readLoop() {
	defer func() {
		c.mu.Lock()
		c.open = false
		c.mu.Unlock()
		c.ws.Close()
	}()

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			slog.Debug("connection closed", "error", err)
			return
		}
		c.dispatch(data)
	}
}

func (c *Client) dispatch(data []byte) {
	var msg protocol.ServerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		slog.Warn("invalid server message", "error", err)
		return
	}

	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()

	if len(c.listeners) == 0 {
		c.buffered = append(c.buffered, msg)
		return
	}
	for _, listener := range c.listeners {
		listener(msg)
	}
}
