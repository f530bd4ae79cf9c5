package presence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/signalhub/internal/domain"
)

const (
	opTimeout = time.Second
	// Keys expire on their own so a crashed relay does not leave stale rosters behind.
	keyTTL = 24 * time.Hour
)

// RedisMirror keeps one set per room under room:<id>:peers.
type RedisMirror struct {
	client *redis.Client
}

func NewRedisMirror(addr string) *RedisMirror {
	return &RedisMirror{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (m *RedisMirror) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

func (m *RedisMirror) Close() error {
	return m.client.Close()
}

func roomKey(room domain.RoomID) string {
	return "room:" + string(room) + ":peers"
}

func (m *RedisMirror) Add(room domain.RoomID, peer domain.PeerID) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	key := roomKey(room)
	if err := m.client.SAdd(ctx, key, string(peer)).Err(); err != nil {
		log.Warn().Err(err).Str("module", "presence.redis").Str("room", string(room)).Str("peer", string(peer)).Msg("presence add failed")
		return
	}
	m.client.Expire(ctx, key, keyTTL)
}

func (m *RedisMirror) Remove(room domain.RoomID, peer domain.PeerID) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := m.client.SRem(ctx, roomKey(room), string(peer)).Err(); err != nil {
		log.Warn().Err(err).Str("module", "presence.redis").Str("room", string(room)).Str("peer", string(peer)).Msg("presence remove failed")
	}
}
