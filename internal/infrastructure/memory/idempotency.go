package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// IdempotencyCache is the in-process ports.IdempotencyStore used when no
// Redis address is configured. Entries expire after the configured TTL.
type IdempotencyCache struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, string]
}

// NewIdempotencyCache keeps at most size keys for ttl each.
func NewIdempotencyCache(size int, ttl time.Duration) *IdempotencyCache {
	if size <= 0 {
		size = 10_000
	}
	return &IdempotencyCache{cache: expirable.NewLRU[string, string](size, nil, ttl)}
}

func (c *IdempotencyCache) Lookup(_ context.Context, key string) (string, bool, error) {
	id, ok := c.cache.Get(key)
	return id, ok, nil
}

// Remember records id under key. An existing entry is kept (first writer wins).
func (c *IdempotencyCache) Remember(_ context.Context, key, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.cache.Peek(key); ok {
		return nil
	}
	c.cache.Add(key, id)
	return nil
}
