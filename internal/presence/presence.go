// Package presence mirrors room membership into an external store so operators
// can inspect it without hitting the relay. The mirror is strictly best-effort:
// it is never consulted for routing and its failures never affect membership.
package presence

import "github.com/dkeye/signalhub/internal/domain"

type Presence interface {
	Add(room domain.RoomID, peer domain.PeerID)
	Remove(room domain.RoomID, peer domain.PeerID)
}

// Noop is the default when no store is configured.
type Noop struct{}

func (Noop) Add(domain.RoomID, domain.PeerID)    {}
func (Noop) Remove(domain.RoomID, domain.PeerID) {}
