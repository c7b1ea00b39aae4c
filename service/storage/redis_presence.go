package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration // online validity window; renewed on register
}

// PresenceManager mirrors the in-memory registry into redis so other
// processes (the REST layer of a second node, ops tooling) can answer
// "is this user online". Memory remains the source of truth; the
// mirror is best-effort.
type PresenceManager struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPresenceManager(c Config) (*PresenceManager, error) {
	if c.TTL <= 0 {
		c.TTL = 2 * time.Minute
	}
	rdb := redis.NewClient(&redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, errors.WithMessage(err, "redis ping failed")
	}
	return &PresenceManager{rdb: rdb, ttl: c.TTL}, nil
}

// presence key: projease:presence:<user>
// Value: the connection id, TTL controls the online validity period.
func presenceKey(user string) string { return "projease:presence:" + user }

// Online marks the user online and renews the TTL.
func (m *PresenceManager) Online(ctx context.Context, user, connID string) error {
	return m.rdb.Set(ctx, presenceKey(user), connID, m.ttl).Err()
}

// Offline removes the user's presence key.
func (m *PresenceManager) Offline(ctx context.Context, user string) error {
	return m.rdb.Del(ctx, presenceKey(user)).Err()
}

// Lookup reports whether the user is online and on which connection.
func (m *PresenceManager) Lookup(ctx context.Context, user string) (connID string, online bool, err error) {
	val, err := m.rdb.Get(ctx, presenceKey(user)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (m *PresenceManager) Close() error { return m.rdb.Close() }
