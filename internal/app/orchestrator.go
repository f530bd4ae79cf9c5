// Package app wires the registry, the router and the roster broadcaster into
// the connection lifecycle. The orchestrator is the only writer of the
// registry; adapters hand it transport events and nothing else mutates rooms.
package app

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/signalhub/internal/core"
	"github.com/dkeye/signalhub/internal/domain"
	"github.com/dkeye/signalhub/internal/presence"
	"github.com/dkeye/signalhub/internal/protocol"
)

type Orchestrator struct {
	Registry *core.Registry
	Presence presence.Presence
	Events   Events

	// Delay postpones every routed delivery by a fixed duration. Used to
	// exercise latency-sensitive client behavior; zero sends synchronously.
	Delay time.Duration
}

func NewOrchestrator(reg *core.Registry, pres presence.Presence, events Events, delay time.Duration) *Orchestrator {
	if pres == nil {
		pres = presence.Noop{}
	}
	return &Orchestrator{
		Registry: reg,
		Presence: pres,
		Events:   events,
		Delay:    delay,
	}
}

// Connect binds conn to (room, peer). A duplicate join displaces the previous
// handle, which is force-closed so it cannot receive further traffic.
func (o *Orchestrator) Connect(room domain.RoomID, peer domain.PeerID, conn core.PeerConn) {
	if old := o.Registry.Join(room, peer, conn); old != nil {
		old.Close()
		log.Warn().Str("module", "app").Str("room", string(room)).Str("peer", string(peer)).Msg("duplicate join, closed previous connection")
	}
	o.Presence.Add(room, peer)
	o.broadcastRoster(room)
	o.Events.PeerJoin(peer, room)
}

// Disconnect releases (room, peer) using the identifiers bound at connect
// time. Teardown of a handle that was already displaced by a duplicate join
// is a no-op.
func (o *Orchestrator) Disconnect(room domain.RoomID, peer domain.PeerID, conn core.PeerConn) {
	removed, roomDeleted := o.Registry.Leave(room, peer, conn)
	if !removed {
		return
	}
	o.Presence.Remove(room, peer)
	if roomDeleted {
		o.Events.RoomEmpty(room)
	} else {
		o.broadcastRoster(room)
	}
	o.Events.PeerLeave(peer, room)
}

// broadcastRoster pushes the full current member list to every member of the
// room, the one that just joined included. Full-state, no deltas.
func (o *Orchestrator) broadcastRoster(room domain.RoomID) {
	members := o.Registry.Members(room)
	if len(members) == 0 {
		return
	}

	msg, err := protocol.Roster(members)
	if err != nil {
		log.Error().Err(err).Str("module", "app").Str("room", string(room)).Msg("roster build failed")
		o.Events.Fail(err)
		return
	}
	frame, err := protocol.EncodeDownlink(msg)
	if err != nil {
		log.Error().Err(err).Str("module", "app").Str("room", string(room)).Msg("roster encode failed")
		o.Events.Fail(err)
		return
	}

	for _, member := range members {
		conn, ok := o.Registry.Resolve(room, member)
		if !ok {
			continue
		}
		if err := conn.TrySend(core.Frame(frame)); err != nil {
			log.Debug().Err(err).Str("module", "app").Str("room", string(room)).Str("peer", string(member)).Msg("roster send skipped")
		}
	}
}
