package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-rendezvous"
)

// ShardedCache spreads keys over several caches with rendezvous hashing, so
// adding or removing a node only moves that node's keys.
type ShardedCache struct {
	ring  *rendezvous.Rendezvous
	nodes map[string]CacheRepository
}

func NewShardedCache(nodes map[string]CacheRepository) *ShardedCache {
	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return &ShardedCache{
		ring:  rendezvous.New(names, xxhash.Sum64String),
		nodes: nodes,
	}
}

// NewShardedRedisCache shards over one Redis client per address.
func NewShardedRedisCache(addrs []string, ttl time.Duration) *ShardedCache {
	nodes := make(map[string]CacheRepository, len(addrs))
	for _, addr := range addrs {
		nodes[addr] = NewRedisCache(addr, ttl)
	}
	return NewShardedCache(nodes)
}

// Node returns the name of the node owning key.
func (s *ShardedCache) Node(key string) string {
	return s.ring.Lookup(key)
}

func (s *ShardedCache) Get(ctx context.Context, key string) (string, bool) {
	node, ok := s.nodes[s.Node(key)]
	if !ok {
		return "", false
	}
	return node.Get(ctx, key)
}

func (s *ShardedCache) Set(ctx context.Context, key string, value string) error {
	node, ok := s.nodes[s.Node(key)]
	if !ok {
		return errors.New("sharded cache has no nodes")
	}
	return node.Set(ctx, key, value)
}

// Close closes every node that can be closed.
func (s *ShardedCache) Close() error {
	var errs []error
	for _, node := range s.nodes {
		if c, ok := node.(interface{ Close() error }); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}

// Ping checks every node that can be pinged and reports the unreachable ones.
func (s *ShardedCache) Ping(ctx context.Context) error {
	var errs []error
	for name, node := range s.nodes {
		p, ok := node.(interface{ Ping(context.Context) error })
		if !ok {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
