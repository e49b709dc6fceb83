package blobstore

import (
	"context"

	"github.com/hupe1980/usersearch/internal/cache"
	"github.com/hupe1980/usersearch/resource"
)

// CachingStore wraps a Store and keeps recently read blobs in memory.
// Writes and deletes through the CachingStore invalidate the cached copy.
// Writes that bypass it are not observed.
type CachingStore struct {
	inner Store
	lru   *cache.LRU[string, []byte]
}

// NewCachingStore creates a new CachingStore holding up to capacity bytes.
// rc may be nil.
func NewCachingStore(inner Store, capacity int64, rc *resource.Controller) *CachingStore {
	return &CachingStore{
		inner: inner,
		lru:   cache.NewLRU[string, []byte](capacity, rc),
	}
}

// Get returns the cached blob or reads it from the inner store.
func (s *CachingStore) Get(ctx context.Context, name string) ([]byte, error) {
	if data, ok := s.lru.Get(name); ok {
		return clone(data), nil
	}

	data, err := s.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	s.lru.Set(name, clone(data), int64(len(data)))
	return data, nil
}

func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.lru.Remove(name)
	return s.inner.Put(ctx, name, data)
}

func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.lru.Remove(name)
	return s.inner.Delete(ctx, name)
}

func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns cache hits and misses.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.lru.Stats()
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
