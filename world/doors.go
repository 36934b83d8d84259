package world

import (
	"sort"
	"sync"

	"github.com/hekoh99/meta-library/domain"
)

// Doors is the authoritative door flag store. Entries are created lazily on
// first toggle and live for the process lifetime; a missing key means closed.
type Doors struct {
	mu   sync.Mutex
	open map[string]bool
}

func NewDoors() *Doors {
	return &Doors{open: make(map[string]bool)}
}

// Toggle flips the flag for key and returns the new value. The lock makes
// the read-modify-write atomic across connection goroutines.
func (d *Doors) Toggle(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := !d.open[key]
	d.open[key] = next
	return next
}

func (d *Doors) Snapshot() []domain.DoorState {
	d.mu.Lock()
	defer d.mu.Unlock()

	keys := make([]string, 0, len(d.open))
	for key := range d.open {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	states := make([]domain.DoorState, 0, len(keys))
	for _, key := range keys {
		states = append(states, domain.DoorState{Key: key, IsOpen: d.open[key]})
	}
	return states
}

func (d *Doors) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.open)
}
