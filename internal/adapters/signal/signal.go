package signal

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/signalhub/internal/app"
	"github.com/dkeye/signalhub/internal/domain"
)

type Controller struct {
	Orch         *app.Orchestrator
	ReadLimit    int64
	PingPeriod   time.Duration
	WriteTimeout time.Duration
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Peers are identified by the room/peer address only; any origin may attach.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Attach upgrades the request and binds the connection to the (room, peer)
// address for its entire lifetime. Bad addresses are refused before the
// upgrade, so they never reach the registry.
func (ctl *Controller) Attach(c *gin.Context) {
	room, peer := c.Param("room"), c.Param("peer")
	if !domain.ValidSegment(room) || !domain.ValidSegment(peer) {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrBadAddress.Error()})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	l := log.With().
		Str("module", "signal").
		Str("conn_id", uuid.NewString()).
		Str("room", room).
		Str("peer", peer).
		Logger()

	conn := newPeerConn(ws)
	ctl.Orch.Connect(domain.RoomID(room), domain.PeerID(peer), conn)
	l.Info().Msg("peer attached")

	go ctl.writePump(conn, l)
	go ctl.readPump(domain.RoomID(room), domain.PeerID(peer), conn, l)
}
