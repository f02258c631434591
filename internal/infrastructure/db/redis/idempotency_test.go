package redis

import (
	"context"
	"testing"
	"time"
)

func TestNewIdempotencyStore_DefaultTTL(t *testing.T) {
	s := NewIdempotencyStore(nil, 0)
	if s.ttl != defaultIdempotencyTTL {
		t.Fatalf("expected %s, got %s", defaultIdempotencyTTL, s.ttl)
	}
	s = NewIdempotencyStore(nil, time.Minute)
	if s.ttl != time.Minute {
		t.Fatalf("expected 1m, got %s", s.ttl)
	}
}

func TestOpen_Unreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("dials the network")
	}
	_, err := Open(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	if err == nil {
		t.Fatalf("expected an error for an unreachable server")
	}
}
