package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	defaultTimeout        = 5 * time.Second
	keyPrefix             = "idem:"
)

// Config captures the settings of the idempotency key store.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
	// TTL is how long a key keeps answering with the original record.
	TTL time.Duration
}

// IdempotencyStore remembers which record an Idempotency-Key created.
// Key format: idem:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// Open connects to Redis, verifies connectivity with a ping and returns a
// store that owns the client.
func Open(ctx context.Context, cfg Config) (*IdempotencyStore, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewIdempotencyStore(client, cfg.TTL), nil
}

// NewIdempotencyStore wraps client; ttl <= 0 falls back to 24h.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Lookup returns the record id stored for key, if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	id, err := s.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, true, nil
}

// Remember records id under key. An existing entry is kept (first writer wins).
func (s *IdempotencyStore) Remember(ctx context.Context, key, id string) error {
	if err := s.client.SetNX(ctx, keyPrefix+key, id, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

// Client exposes the connection for health checks.
func (s *IdempotencyStore) Client() *redis.Client {
	return s.client
}

func (s *IdempotencyStore) Close() error {
	return s.client.Close()
}
