package app

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/signalhub/internal/core"
	"github.com/dkeye/signalhub/internal/domain"
	"github.com/dkeye/signalhub/internal/protocol"
)

// Dispatch routes one uplink frame from sender to its room. Best-effort fire:
// unknown targets are skipped, nothing is queued for later delivery, and a bad
// frame never terminates the session. The one exception is a sender whose room
// vanished under an in-flight frame; that connection is closed as desynced.
func (o *Orchestrator) Dispatch(room domain.RoomID, sender domain.PeerID, conn core.PeerConn, frame core.Frame) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Str("module", "app.router").Str("room", string(room)).Str("peer", string(sender)).Interface("panic", rec).Msg("dispatch recovered")
		}
	}()

	msg, err := protocol.DecodeUplink(frame)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.router").Str("room", string(room)).Str("peer", string(sender)).Msg("dropping malformed uplink")
		return
	}

	members := o.Registry.Members(room)
	if len(members) == 0 {
		log.Warn().Str("module", "app.router").Str("room", string(room)).Str("peer", string(sender)).Msg("room gone, closing sender")
		conn.Close()
		return
	}

	targets := resolveTargets(members, sender, msg.Targets)
	if len(targets) == 0 {
		return
	}

	// One shared downlink for all targets; the payload is never mutated per target.
	out, err := protocol.EncodeDownlink(msg.Stamp(sender))
	if err != nil {
		log.Error().Err(err).Str("module", "app.router").Str("room", string(room)).Str("peer", string(sender)).Msg("downlink encode failed")
		return
	}

	for _, target := range targets {
		dst, ok := o.Registry.Resolve(room, target)
		if !ok {
			continue
		}
		o.deliver(room, target, dst, core.Frame(out))
	}
}

// resolveTargets maps the uplink's targetPeers field onto the room's current
// members. nil means everyone but the sender; explicit ids are filtered to the
// present subset, deduplicated, with the sender silently excluded.
func resolveTargets(members []domain.PeerID, sender domain.PeerID, want *protocol.TargetPeers) []domain.PeerID {
	if want == nil {
		out := make([]domain.PeerID, 0, len(members))
		for _, id := range members {
			if id != sender {
				out = append(out, id)
			}
		}
		return out
	}

	present := make(map[domain.PeerID]struct{}, len(members))
	for _, id := range members {
		present[id] = struct{}{}
	}
	out := make([]domain.PeerID, 0, len(*want))
	seen := make(map[domain.PeerID]struct{}, len(*want))
	for _, id := range *want {
		if id == sender {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		if _, ok := present[id]; !ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// deliver sends now, or schedules an independent deferred send when a delay is
// configured. Scheduled sends are not cancelable; a target that left during
// the window fails TrySend and is skipped.
func (o *Orchestrator) deliver(room domain.RoomID, peer domain.PeerID, dst core.PeerConn, frame core.Frame) {
	if o.Delay <= 0 {
		o.send(room, peer, dst, frame)
		return
	}
	time.AfterFunc(o.Delay, func() {
		o.send(room, peer, dst, frame)
	})
}

func (o *Orchestrator) send(room domain.RoomID, peer domain.PeerID, dst core.PeerConn, frame core.Frame) {
	if err := dst.TrySend(frame); err != nil {
		log.Debug().Err(err).Str("module", "app.router").Str("room", string(room)).Str("peer", string(peer)).Msg("delivery skipped")
	}
}
