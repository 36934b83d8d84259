package protocol

import (
	"crypto/rand"
	"fmt"
)

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

const idLength = 8

// palette holds the display colors users are assigned from.
var palette = []int{0xffd166, 0x06d6a0, 0x118ab2, 0xef476f, 0x8ecae6, 0xfb8500}

// newUserID returns a short random token. 64^8 possibilities make collisions
// between concurrently joined users negligible.
func newUserID() (string, error) {
	buf := make([]byte, idLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(buf), nil
}

// colorFromID derives a cosmetic palette color deterministically from an id,
// so every client computes the same color for the same user.
func colorFromID(id string) int {
	hash := 0
	for _, ch := range []byte(id) {
		hash = (hash + int(ch)) % len(palette)
	}
	return palette[hash]
}
