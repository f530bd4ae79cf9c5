package app

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/dkeye/signalhub/internal/core"
	"github.com/dkeye/signalhub/internal/domain"
	"github.com/dkeye/signalhub/internal/protocol"
)

// fakeConn records delivered frames; it fails TrySend when closed or marked full.
type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	closed bool
	full   bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("connection closed")
	}
	if c.full {
		return errors.New("backpressure")
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) downlinks(t *testing.T) []protocol.Downlink {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]protocol.Downlink, 0, len(c.frames))
	for _, f := range c.frames {
		var msg protocol.Downlink
		if err := json.Unmarshal(f, &msg); err != nil {
			t.Fatalf("recorded frame is not a downlink: %v", err)
		}
		out = append(out, msg)
	}
	return out
}

// rosters returns the peer-id sets of every UpdatePeers frame the conn received.
func (c *fakeConn) rosters(t *testing.T) []map[string]bool {
	t.Helper()
	var out []map[string]bool
	for _, msg := range c.downlinks(t) {
		if msg.Action != protocol.ActionUpdatePeers {
			continue
		}
		if msg.PeerID != protocol.SenderServer {
			t.Fatalf("roster peerId = %q, want %q", msg.PeerID, protocol.SenderServer)
		}
		var ids []string
		if err := json.Unmarshal(msg.Data, &ids); err != nil {
			t.Fatalf("roster data: %v", err)
		}
		set := make(map[string]bool, len(ids))
		for _, id := range ids {
			set[id] = true
		}
		out = append(out, set)
	}
	return out
}

// routed returns the non-roster downlinks the conn received.
func (c *fakeConn) routed(t *testing.T) []protocol.Downlink {
	t.Helper()
	var out []protocol.Downlink
	for _, msg := range c.downlinks(t) {
		if msg.Action != protocol.ActionUpdatePeers {
			out = append(out, msg)
		}
	}
	return out
}

func sameSet(got map[string]bool, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for _, id := range want {
		if !got[id] {
			return false
		}
	}
	return true
}

func newTestOrchestrator(events Events) *Orchestrator {
	return NewOrchestrator(core.NewRegistry(), nil, events, 0)
}

// join is a test shorthand for Connect with a fresh fake connection.
func join(o *Orchestrator, room domain.RoomID, peer domain.PeerID) *fakeConn {
	conn := &fakeConn{}
	o.Connect(room, peer, conn)
	return conn
}
