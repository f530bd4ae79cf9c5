package app

import "github.com/dkeye/signalhub/internal/domain"

// Events carries the host's lifecycle callbacks. Each callback fires
// synchronously with its triggering event, at most once per event, with no
// retry or buffering. Nil fields are skipped.
type Events struct {
	OnStart     func(addr string)
	OnError     func(err error)
	OnPeerJoin  func(peer domain.PeerID, room domain.RoomID)
	OnPeerLeave func(peer domain.PeerID, room domain.RoomID)
	OnRoomEmpty func(room domain.RoomID)
}

func (e Events) Start(addr string) {
	if e.OnStart != nil {
		e.OnStart(addr)
	}
}

func (e Events) Fail(err error) {
	if e.OnError != nil {
		e.OnError(err)
	}
}

func (e Events) PeerJoin(peer domain.PeerID, room domain.RoomID) {
	if e.OnPeerJoin != nil {
		e.OnPeerJoin(peer, room)
	}
}

func (e Events) PeerLeave(peer domain.PeerID, room domain.RoomID) {
	if e.OnPeerLeave != nil {
		e.OnPeerLeave(peer, room)
	}
}

func (e Events) RoomEmpty(room domain.RoomID) {
	if e.OnRoomEmpty != nil {
		e.OnRoomEmpty(room)
	}
}
