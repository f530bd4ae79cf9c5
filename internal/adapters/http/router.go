// Package http assembles the gin router: the websocket attach route and the
// read-only introspection API over the registry.
package http

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/signalhub/internal/adapters/signal"
	"github.com/dkeye/signalhub/internal/app"
	"github.com/dkeye/signalhub/internal/config"
	"github.com/dkeye/signalhub/internal/core"
	"github.com/dkeye/signalhub/internal/domain"
)

func SetupRouter(cfg *config.Config, orch *app.Orchestrator, reg *core.Registry) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/rooms", listRooms(reg))
	api.GET("/rooms/:room", roomMembers(reg))
	api.GET("/registry", registrySnapshot(reg))

	ctl := &signal.Controller{
		Orch:         orch,
		ReadLimit:    cfg.ReadLimit,
		PingPeriod:   cfg.PingPeriod,
		WriteTimeout: cfg.WriteTimeout,
	}
	// Peers attach at /{roomId}/{peerId}; static routes above take precedence.
	r.GET("/:room/:peer", ctl.Attach)

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}

func listRooms(reg *core.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := reg.Snapshot()
		rooms := make([]string, 0, len(snap))
		for _, info := range snap {
			rooms = append(rooms, string(info.Room))
		}
		sort.Strings(rooms)
		c.JSON(http.StatusOK, gin.H{"count": len(rooms), "rooms": rooms})
	}
}

func roomMembers(reg *core.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		room := domain.RoomID(c.Param("room"))
		peers := reg.Members(room)
		// A registered room always has at least one member, so empty means absent.
		if len(peers) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusOK, core.RoomInfo{Room: room, Peers: peers, Count: len(peers)})
	}
}

func registrySnapshot(reg *core.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := reg.Snapshot()
		sort.Slice(snap, func(i, j int) bool { return snap[i].Room < snap[j].Room })
		c.JSON(http.StatusOK, gin.H{"room_count": len(snap), "rooms": snap})
	}
}
