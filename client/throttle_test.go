package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMoveThrottle(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := base
	throttle := NewMoveThrottle()
	throttle.now = func() time.Time { return now }

	assert.True(t, throttle.Offer(0, 0), "first move always goes out")

	now = now.Add(time.Second)
	assert.False(t, throttle.Offer(0.3, 0), "too close to the last transmitted position")
	assert.True(t, throttle.Offer(5, 5), "rejected near move did not shift the reference point")

	now = now.Add(49 * time.Millisecond)
	assert.False(t, throttle.Offer(10, 10), "49ms after the last send")
	now = now.Add(time.Millisecond)
	assert.True(t, throttle.Offer(10, 10), "both gates cleared: sent exactly once")
	assert.False(t, throttle.Offer(10, 10), "repeat of the same offer is silent")
}
