package client

import (
	"github.com/hekoh99/meta-library/domain"
)

// PeerHooks is the boundary to the rendering layer: it is told when a peer's
// visual handle should be created, moved, or torn down.
type PeerHooks struct {
	Created func(user domain.UserState)
	Moved   func(id string, x, y float64)
	Removed func(id string)
}

// PeerSet tracks every remote user by id. It never holds an entry for the
// local user. The set is owned by the client's single message loop and is
// not safe for concurrent use.
type PeerSet struct {
	selfID string
	peers  map[string]domain.UserState
	hooks  PeerHooks
}

func NewPeerSet(hooks PeerHooks) *PeerSet {
	return &PeerSet{peers: make(map[string]domain.UserState), hooks: hooks}
}

// SetSelf records the local user's id, from the welcome message.
func (s *PeerSet) SetSelf(id string) {
	s.selfID = id
	delete(s.peers, id)
}

// Sight records a user seen in a snapshot or join broadcast. The local user
// is skipped; a known peer is refreshed in place.
func (s *PeerSet) Sight(user domain.UserState) {
	if user.ID == "" || user.ID == s.selfID {
		return
	}
	_, known := s.peers[user.ID]
	s.peers[user.ID] = user
	if !known && s.hooks.Created != nil {
		s.hooks.Created(user)
	}
}

// UpdatePosition applies a state broadcast. Unknown ids are ignored; the
// peer will be introduced by a later snapshot or join.
func (s *PeerSet) UpdatePosition(id string, x, y float64) {
	peer, known := s.peers[id]
	if !known {
		return
	}
	peer.X = x
	peer.Y = y
	s.peers[id] = peer
	if s.hooks.Moved != nil {
		s.hooks.Moved(id, x, y)
	}
}

func (s *PeerSet) Remove(id string) {
	if _, known := s.peers[id]; !known {
		return
	}
	delete(s.peers, id)
	if s.hooks.Removed != nil {
		s.hooks.Removed(id)
	}
}

func (s *PeerSet) Get(id string) (domain.UserState, bool) {
	peer, known := s.peers[id]
	return peer, known
}

func (s *PeerSet) Len() int {
	return len(s.peers)
}

func (s *PeerSet) IDs() []string {
	ids := make([]string, 0, len(s.peers))
	for id := range s.peers {
		ids = append(ids, id)
	}
	return ids
}
