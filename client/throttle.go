package client

import (
	"math"
	"time"
)

const (
	minMoveDistance = 0.5
	minMoveInterval = 50 * time.Millisecond
)

// MoveThrottle gates outbound position updates: a move goes out only when it
// is both far enough from the last transmitted position and late enough after
// the last transmission. The server applies no rate limiting of its own.
type MoveThrottle struct {
	lastX, lastY float64
	lastSent     time.Time
	sent         bool
	now          func() time.Time
}

func NewMoveThrottle() *MoveThrottle {
	return &MoveThrottle{now: time.Now}
}

// Offer reports whether a move to (x, y) should be transmitted, recording it
// as the last transmission when it should. The first offer always passes.
func (t *MoveThrottle) Offer(x, y float64) bool {
	if t.sent {
		if math.Hypot(x-t.lastX, y-t.lastY) < minMoveDistance {
			return false
		}
		if t.now().Sub(t.lastSent) < minMoveInterval {
			return false
		}
	}
	t.lastX, t.lastY = x, y
	t.lastSent = t.now()
	t.sent = true
	return true
}
