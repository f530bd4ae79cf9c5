// Package signal is the WebSocket boundary: it accepts connections addressed
// as /{roomId}/{peerId}, binds them to the orchestrator and runs the per
// connection read/write pumps.
package signal

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dkeye/signalhub/internal/core"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

const sendBuffer = 32

// wsPeerConn implements core.PeerConn over a gorilla websocket connection.
// TrySend never blocks; frames go through a buffered channel drained by the
// write pump, and a full buffer counts as not-ready.
type wsPeerConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newPeerConn(ws *websocket.Conn) *wsPeerConn {
	return &wsPeerConn{
		conn: ws,
		send: make(chan core.Frame, sendBuffer),
	}
}

func (c *wsPeerConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- f:
		return nil
	default:
		return ErrBackpressure
	}
}

func (c *wsPeerConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}
