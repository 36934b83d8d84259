package hub

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hekoh99/meta-library/domain"
)

type mockConn struct {
	id       string
	received [][]byte
	mu       sync.Mutex
	sendErr  error
}

func (m *mockConn) ID() string { return m.id }

func (m *mockConn) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.received = append(m.received, data)
	return nil
}

func (m *mockConn) Close() error { return nil }

func (m *mockConn) getReceived() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.received
}

func user(id string) *domain.UserState {
	return &domain.UserState{ID: id, Nickname: "nick-" + id}
}

func TestHub_JoinSnapshot(t *testing.T) {
	h := New()
	c1 := &mockConn{id: "c1"}
	c2 := &mockConn{id: "c2"}

	snapshot, ok := h.Join(c1, user("u1"))
	require.True(t, ok)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "u1", snapshot[0].ID)

	snapshot, ok = h.Join(c2, user("u2"))
	require.True(t, ok)
	ids := []string{snapshot[0].ID, snapshot[1].ID}
	assert.ElementsMatch(t, []string{"u1", "u2"}, ids)
}

func TestHub_DuplicateJoinRejected(t *testing.T) {
	h := New()
	c1 := &mockConn{id: "c1"}

	_, ok := h.Join(c1, user("u1"))
	require.True(t, ok)

	snapshot, ok := h.Join(c1, user("u1-again"))
	assert.False(t, ok)
	assert.Nil(t, snapshot)
	assert.Equal(t, 1, h.Count())

	// The second user id must not have leaked into the id view.
	_, found := h.Lookup("u1-again")
	assert.False(t, found)
}

func TestHub_LeaveRemovesBothViews(t *testing.T) {
	h := New()
	c1 := &mockConn{id: "c1"}
	_, ok := h.Join(c1, user("u1"))
	require.True(t, ok)

	left, ok := h.Leave(c1)
	require.True(t, ok)
	assert.Equal(t, "u1", left.ID)
	assert.Equal(t, 0, h.Count())

	_, found := h.Lookup("u1")
	assert.False(t, found)
	_, moved := h.Move(c1, 1, 1)
	assert.False(t, moved)

	_, ok = h.Leave(c1)
	assert.False(t, ok, "second leave is a no-op")
}

func TestHub_Move(t *testing.T) {
	h := New()
	c1 := &mockConn{id: "c1"}

	_, ok := h.Move(c1, 3, 4)
	assert.False(t, ok, "move before join is rejected")

	_, joined := h.Join(c1, user("u1"))
	require.True(t, joined)

	id, ok := h.Move(c1, 3, 4)
	require.True(t, ok)
	assert.Equal(t, "u1", id)

	got, ok := h.User(c1)
	require.True(t, ok)
	assert.Equal(t, 3.0, got.X)
	assert.Equal(t, 4.0, got.Y)
}

func TestHub_Broadcast(t *testing.T) {
	tests := []struct {
		name         string
		exclusive    bool
		wantReceived map[string]int
	}{
		{
			name:         "inclusive reaches everyone",
			exclusive:    false,
			wantReceived: map[string]int{"c1": 1, "c2": 1, "c3": 1},
		},
		{
			name:         "exclusive skips the sender",
			exclusive:    true,
			wantReceived: map[string]int{"c1": 0, "c2": 1, "c3": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New()
			sender := &mockConn{id: "c1"}
			conns := []*mockConn{sender, {id: "c2"}, {id: "c3"}}
			for i, conn := range conns {
				_, ok := h.Join(conn, user(string(rune('a'+i))))
				require.True(t, ok)
			}

			if tt.exclusive {
				h.BroadcastExcept(sender, []byte("msg"))
			} else {
				h.Broadcast([]byte("msg"))
			}

			for _, conn := range conns {
				assert.Len(t, conn.getReceived(), tt.wantReceived[conn.id], "conn %s", conn.id)
			}
		})
	}
}

func TestHub_BroadcastReachesUnjoinedConnections(t *testing.T) {
	h := New()
	joined := &mockConn{id: "c1"}
	pending := &mockConn{id: "c2"}
	_, ok := h.Join(joined, user("u1"))
	require.True(t, ok)
	h.Register(pending)

	assert.Equal(t, 1, h.Count())
	assert.Equal(t, 2, h.LiveCount())

	h.Broadcast([]byte("msg"))
	assert.Len(t, joined.getReceived(), 1)
	assert.Len(t, pending.getReceived(), 1, "live connections get traffic before they join")

	h.BroadcastExcept(pending, []byte("msg"))
	assert.Len(t, pending.getReceived(), 1, "exclusion applies to unjoined senders too")

	h.Unregister(pending)
	h.Broadcast([]byte("msg"))
	assert.Len(t, pending.getReceived(), 1)
	assert.Equal(t, 1, h.LiveCount())
}

func TestHub_BroadcastSurvivesSendError(t *testing.T) {
	var logged bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logged, nil)))
	defer slog.SetDefault(prev)

	h := New()
	healthy := &mockConn{id: "c1"}
	broken := &mockConn{id: "c2", sendErr: assert.AnError}
	_, ok := h.Join(healthy, user("u1"))
	require.True(t, ok)
	_, ok = h.Join(broken, user("u2"))
	require.True(t, ok)

	h.Broadcast([]byte("msg"))

	assert.Len(t, healthy.getReceived(), 1)
	assert.Equal(t, 2, h.Count(), "a failed send does not evict the connection")
	assert.Contains(t, logged.String(), "level=WARN")
	assert.Contains(t, logged.String(), "drop broadcast")
}
