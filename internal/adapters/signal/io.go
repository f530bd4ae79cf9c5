package signal

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/dkeye/signalhub/internal/core"
	"github.com/dkeye/signalhub/internal/domain"
)

func (ctl *Controller) writePump(c *wsPeerConn, l zerolog.Logger) {
	ticker := time.NewTicker(ctl.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.WriteTimeout)); err != nil {
				l.Error().Err(err).Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				l.Error().Err(err).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.WriteTimeout)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump feeds inbound frames to the router in arrival order. It owns the
// connection's lifecycle end: any read error deregisters the peer.
func (ctl *Controller) readPump(room domain.RoomID, peer domain.PeerID, c *wsPeerConn, l zerolog.Logger) {
	defer func() {
		c.Close()
		ctl.Orch.Disconnect(room, peer, c)
		l.Info().Msg("peer detached")
	}()

	c.conn.SetReadLimit(ctl.ReadLimit)
	readWait := ctl.PingPeriod + ctl.WriteTimeout
	_ = c.conn.SetReadDeadline(time.Now().Add(readWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				l.Error().Err(err).Msg("readPump unexpected close")
			}
			return
		}
		ctl.Orch.Dispatch(room, peer, c, core.Frame(data))
	}
}
