// Package memory implements the db key-value contract in process memory.
// Used when no Redis cache backend is configured and in tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gzeric2k/library-news-extract/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

type item struct {
	value     []byte
	expiresAt time.Time // zero = no expiry
}

// Store is a concurrency-safe in-process key-value store.
type Store struct {
	mu    sync.RWMutex
	items map[string]item
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{items: make(map[string]item)}
}

// Get retrieves a value by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()

	if !ok {
		return nil, db.ErrKeyNotFound
	}
	if !it.expiresAt.IsZero() && time.Now().After(it.expiresAt) {
		s.mu.Lock()
		delete(s.items, key)
		s.mu.Unlock()
		return nil, db.ErrKeyNotFound
	}
	out := make([]byte, len(it.value))
	copy(out, it.value)
	return out, nil
}

// Set stores a value at the given key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	owned := make([]byte, len(value))
	copy(owned, value)

	s.mu.Lock()
	s.items[key] = item{value: owned}
	s.mu.Unlock()
	return nil
}

// SetWithTTL stores a value with an expiration.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	owned := make([]byte, len(value))
	copy(owned, value)

	s.mu.Lock()
	s.items[key] = item{value: owned, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady is immediate for an in-process store.
func (s *Store) WaitForReady(context.Context, time.Duration) error { return nil }
