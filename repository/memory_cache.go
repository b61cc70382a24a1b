package repository

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemoryCacheEntries bounds a MemoryCache built with a non-positive
// size.
const DefaultMemoryCacheEntries = 10000

// MemoryCache is an in-process LRU cache. Entries expire after ttl; a
// non-positive ttl keeps them until they are evicted for space.
type MemoryCache struct {
	lru *expirable.LRU[string, string]
}

func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = DefaultMemoryCacheEntries
	}
	return &MemoryCache{
		lru: expirable.NewLRU[string, string](size, nil, ttl),
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	return m.lru.Get(key)
}

func (m *MemoryCache) Set(_ context.Context, key string, value string) error {
	m.lru.Add(key, value)
	return nil
}

func (m *MemoryCache) Len() int {
	return m.lru.Len()
}
