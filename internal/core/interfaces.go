package core

import "github.com/dkeye/signalhub/internal/domain"

// Frame is an encoded wire payload, opaque to the registry.
type Frame []byte

// PeerConn abstracts a peer's transport endpoint.
// Owned by the adapter; the registry holds a non-owning reference used only
// for membership lookup and send dispatch.
type PeerConn interface {
	// TrySend queues a frame without blocking. It errors when the connection
	// is closed or its buffer is full; callers treat both as skip.
	TrySend(Frame) error
	Close()
}

// RoomInfo is a read-only view of one room for the introspection API.
type RoomInfo struct {
	Room  domain.RoomID   `json:"room"`
	Peers []domain.PeerID `json:"peers"`
	Count int             `json:"count"`
}
