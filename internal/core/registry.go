package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/signalhub/internal/domain"
)

// Registry is the authoritative room -> peer -> connection mapping.
// A registered room always has at least one member; the room entry is removed
// in the same critical section that removes its last member.
//
// The registry never closes connections. All mutation goes through the
// orchestrator; the router and roster broadcaster only read.
type Registry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]map[domain.PeerID]PeerConn
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[domain.RoomID]map[domain.PeerID]PeerConn),
	}
}

// Join inserts conn under (room, peer), creating the room on demand.
// A duplicate (room, peer) is replaced last-writer-wins; the displaced handle
// is returned so the caller can close it, nil otherwise.
func (r *Registry) Join(room domain.RoomID, peer domain.PeerID, conn PeerConn) PeerConn {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		members = make(map[domain.PeerID]PeerConn)
		r.rooms[room] = members
		log.Info().Str("module", "core.registry").Str("room", string(room)).Msg("room created")
	}
	old := members[peer]
	members[peer] = conn
	log.Info().Str("module", "core.registry").Str("room", string(room)).Str("peer", string(peer)).Msg("peer joined")
	return old
}

// Leave removes (room, peer) if conn is still the registered handle, so the
// teardown of a connection displaced by a duplicate join cannot evict its
// replacement. It reports whether the entry was removed and whether the room
// was deleted with it.
func (r *Registry) Leave(room domain.RoomID, peer domain.PeerID, conn PeerConn) (removed, roomDeleted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		return false, false
	}
	current, ok := members[peer]
	if !ok || current != conn {
		return false, false
	}

	delete(members, peer)
	log.Info().Str("module", "core.registry").Str("room", string(room)).Str("peer", string(peer)).Msg("peer left")
	if len(members) == 0 {
		delete(r.rooms, room)
		log.Info().Str("module", "core.registry").Str("room", string(room)).Msg("room removed")
		return true, true
	}
	return true, false
}

// Members returns a point-in-time snapshot of the room's peer ids, empty when
// the room does not exist. No ordering is promised.
func (r *Registry) Members(room domain.RoomID) []domain.PeerID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[room]
	out := make([]domain.PeerID, 0, len(members))
	for peer := range members {
		out = append(out, peer)
	}
	return out
}

// Resolve returns the connection handle for a current member.
func (r *Registry) Resolve(room domain.RoomID, peer domain.PeerID) (PeerConn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.rooms[room][peer]
	return conn, ok
}

func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Snapshot returns the full membership view for operational monitoring.
func (r *Registry) Snapshot() []RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]RoomInfo, 0, len(r.rooms))
	for room, members := range r.rooms {
		peers := make([]domain.PeerID, 0, len(members))
		for peer := range members {
			peers = append(peers, peer)
		}
		out = append(out, RoomInfo{Room: room, Peers: peers, Count: len(peers)})
	}
	return out
}
