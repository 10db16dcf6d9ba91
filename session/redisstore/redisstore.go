// Package redisstore keeps browser credentials in Redis, one key per browser
// session id, so the raw token never leaves the server.
package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jrsteele09/studentdesk/internal/errors"
	"github.com/jrsteele09/studentdesk/session"
	"github.com/redis/go-redis/v9"
)

// Store addresses credentials by browser session id.
type Store struct {
	client redis.UniversalClient
	prefix string
	maxAge time.Duration
	now    func() time.Time
}

// New creates a Redis credential store. Keys are prefix + session id and
// live for at most maxAge, or until the credential's exp when that is sooner.
func New(client redis.UniversalClient, prefix string, maxAge time.Duration) *Store {
	return &Store{
		client: client,
		prefix: prefix,
		maxAge: maxAge,
		now:    time.Now,
	}
}

// For returns the single-key store of one browser session.
func (s *Store) For(sessionID string) session.Store {
	return &credential{store: s, key: s.prefix + sessionID}
}

// Ping checks that Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (s *Store) ttl(token string) time.Duration {
	ttl := s.maxAge
	claims, err := session.Decode(token)
	if err != nil || claims.ExpiresAt == nil {
		return ttl
	}
	if remaining := claims.ExpiresAt.Sub(s.now()); remaining > 0 && remaining < ttl {
		ttl = remaining
	}
	return ttl
}

type credential struct {
	store *Store
	key   string
}

var _ session.Store = (*credential)(nil)

func (c *credential) Load(ctx context.Context) (string, error) {
	token, err := c.store.client.Get(ctx, c.key).Result()
	if err == redis.Nil {
		return "", errors.ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", c.key, err)
	}
	if token == "" {
		return "", errors.ErrNoCredential
	}
	return token, nil
}

func (c *credential) Save(ctx context.Context, token string) error {
	if err := c.store.client.Set(ctx, c.key, token, c.store.ttl(token)).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", c.key, err)
	}
	return nil
}

func (c *credential) Clear(ctx context.Context) error {
	if err := c.store.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", c.key, err)
	}
	return nil
}
