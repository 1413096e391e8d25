// Package db defines the key-value store contract behind the embedding
// cache, with Redis and in-process implementations.
package db

import (
	"context"
	"time"
)

// Store is the key-value facade consumed by cache decorators.
type Store interface {
	KVStore
	Ping(ctx context.Context) error
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
