package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/signalhub/internal/adapters/http"
	"github.com/dkeye/signalhub/internal/app"
	"github.com/dkeye/signalhub/internal/config"
	"github.com/dkeye/signalhub/internal/core"
	"github.com/dkeye/signalhub/internal/domain"
	"github.com/dkeye/signalhub/internal/presence"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Mode == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var pres presence.Presence = presence.Noop{}
	if cfg.RedisAddr != "" {
		mirror := presence.NewRedisMirror(cfg.RedisAddr)
		if err := mirror.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("presence mirror unavailable, continuing without it")
		} else {
			pres = mirror
			defer mirror.Close()
			log.Info().Str("addr", cfg.RedisAddr).Msg("presence mirror enabled")
		}
	}

	events := app.Events{
		OnStart: func(addr string) {
			log.Info().Str("addr", addr).Msg("signalhub started")
		},
		OnError: func(err error) {
			log.Error().Err(err).Msg("server error")
		},
		OnPeerJoin: func(peer domain.PeerID, room domain.RoomID) {
			log.Info().Str("room", string(room)).Str("peer", string(peer)).Msg("peer joined")
		},
		OnPeerLeave: func(peer domain.PeerID, room domain.RoomID) {
			log.Info().Str("room", string(room)).Str("peer", string(peer)).Msg("peer left")
		},
		OnRoomEmpty: func(room domain.RoomID) {
			log.Info().Str("room", string(room)).Msg("room empty")
		},
	}

	reg := core.NewRegistry()
	orch := app.NewOrchestrator(reg, pres, events, cfg.DeliveryDelay)
	r := router.SetupRouter(cfg, orch, reg)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		events.Start(cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			events.Fail(err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
