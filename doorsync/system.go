package doorsync

import (
	"fmt"
	"time"

	"github.com/hekoh99/meta-library/interact"
)

// toggleDebounce is the minimum gap between toggle attempts on one door, so
// key repeat or a double tap does not fire duplicate requests.
const toggleDebounce = 250 * time.Millisecond

const doorPriority = 10

// Tile is one door tile. Tile ids are whatever the rendering layer's tileset
// uses; the door system only shuttles them between the two states.
type Tile struct {
	X, Y       int
	ClosedTile int
	OpenTile   int
}

// TileLayer is the boundary to the excluded rendering engine. The system
// drives two independent layers: the visual layer swaps closed/open tiles,
// the collision layer is fully present when closed and fully absent when
// open — a door is entirely passable or entirely blocking.
type TileLayer interface {
	PutTile(tileID, x, y int)
	RemoveTile(x, y int)
}

type Config struct {
	TileWidth  float64
	TileHeight float64
	Visual     TileLayer
	Collision  TileLayer
	// Send transmits a toggle request for a collision key and reports
	// whether it actually went out.
	Send func(key string) bool
}

// System keeps the local open/closed state of every door group. An
// authoritative door_state always wins; a local optimistic flip only covers
// the window while the connection is not ready. Owned by the client's single
// update loop, not safe for concurrent use.
type System struct {
	cfg         Config
	groups      map[string][]Tile
	open        map[string]bool
	pending     map[string]struct{}
	lastAttempt map[string]time.Time
	now         func() time.Time
}

func New(cfg Config) *System {
	return &System{
		cfg:         cfg,
		groups:      make(map[string][]Tile),
		open:        make(map[string]bool),
		pending:     make(map[string]struct{}),
		lastAttempt: make(map[string]time.Time),
		now:         time.Now,
	}
}

// AddTile puts tile into the group for key and renders it with the group's
// current state. isOpen seeds the state the first time a key is seen, from
// the map's initial status; later tiles inherit the group state.
func (s *System) AddTile(key string, tile Tile, isOpen bool) {
	if _, known := s.groups[key]; !known {
		s.open[key] = isOpen
	}
	s.groups[key] = append(s.groups[key], tile)
	s.renderTile(tile, s.open[key])
}

// ApplyDoorState applies an authoritative flag, overwriting any optimistic
// guess, and re-renders every tile of the group on both layers.
func (s *System) ApplyDoorState(key string, isOpen bool) {
	group, known := s.groups[key]
	if !known {
		return
	}
	s.open[key] = isOpen
	for _, tile := range group {
		s.renderTile(tile, isOpen)
	}
}

func (s *System) IsOpen(key string) bool {
	return s.open[key]
}

// RequestToggle asks the server to flip the door. If the request cannot be
// sent yet, the key is queued and the door flips locally so the player is
// not blocked; the authoritative echo corrects the guess once the deferred
// request goes out.
func (s *System) RequestToggle(key string) {
	now := s.now()
	if last, attempted := s.lastAttempt[key]; attempted && now.Sub(last) < toggleDebounce {
		return
	}
	s.lastAttempt[key] = now

	if s.cfg.Send != nil && s.cfg.Send(key) {
		return
	}
	s.pending[key] = struct{}{}
	s.ApplyDoorState(key, !s.open[key])
}

// FlushPending sends every queued toggle and clears the queue. Wire this to
// the transport's open callback.
func (s *System) FlushPending() {
	for key := range s.pending {
		if s.cfg.Send != nil {
			s.cfg.Send(key)
		}
	}
	s.pending = make(map[string]struct{})
}

func (s *System) PendingCount() int {
	return len(s.pending)
}

// Interactables exposes each door group as one interactable region covering
// the group's tile extent.
func (s *System) Interactables() []interact.Interactable {
	out := make([]interact.Interactable, 0, len(s.groups))
	for key, tiles := range s.groups {
		key := key
		out = append(out, interact.Interactable{
			ID:       fmt.Sprintf("door:%s", key),
			Bounds:   s.groupBounds(tiles),
			Priority: doorPriority,
			Interact: func() { s.RequestToggle(key) },
		})
	}
	return out
}

func (s *System) renderTile(tile Tile, isOpen bool) {
	if layer := s.cfg.Visual; layer != nil {
		if isOpen {
			layer.PutTile(tile.OpenTile, tile.X, tile.Y)
		} else {
			layer.PutTile(tile.ClosedTile, tile.X, tile.Y)
		}
	}
	if layer := s.cfg.Collision; layer != nil {
		if isOpen {
			layer.RemoveTile(tile.X, tile.Y)
		} else {
			layer.PutTile(tile.ClosedTile, tile.X, tile.Y)
		}
	}
}

func (s *System) groupBounds(tiles []Tile) interact.Rect {
	minX, minY := tiles[0].X, tiles[0].Y
	maxX, maxY := tiles[0].X, tiles[0].Y
	for _, tile := range tiles[1:] {
		minX = min(minX, tile.X)
		minY = min(minY, tile.Y)
		maxX = max(maxX, tile.X)
		maxY = max(maxY, tile.Y)
	}
	return interact.Rect{
		X:      float64(minX) * s.cfg.TileWidth,
		Y:      float64(minY) * s.cfg.TileHeight,
		Width:  float64(maxX-minX+1) * s.cfg.TileWidth,
		Height: float64(maxY-minY+1) * s.cfg.TileHeight,
	}
}
