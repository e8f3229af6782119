package snapshot

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps snapshots in process memory; nothing survives a restart.
type MemoryStore struct {
	cache *cache.Cache
}

// NewMemory returns an empty in-memory snapshot store.
func NewMemory() *MemoryStore {
	return &MemoryStore{cache: cache.New(cache.NoExpiration, 0)}
}

// Load returns a copy of the payload stored under key.
func (s *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	x, found := s.cache.Get(key)
	if !found {
		return nil, ErrNotFound
	}
	return append([]byte(nil), x.([]byte)...), nil
}

// Save stores a copy of data under key.
func (s *MemoryStore) Save(_ context.Context, key string, data []byte) error {
	s.cache.Set(key, append([]byte(nil), data...), cache.NoExpiration)
	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
