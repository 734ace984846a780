package cache

import (
	"context"
	"hash/fnv"
	"sync"
)

const defaultShardCount = 32

type prefixShard struct {
	mu      sync.RWMutex
	entries map[string]string
}

// MemoryPrefixCache is a process-local PrefixCache. Entries are spread over shards, each with
// its own lock, so lookups for different guilds rarely contend.
type MemoryPrefixCache struct {
	shards []*prefixShard
}

func NewMemoryPrefixCache() *MemoryPrefixCache {
	return NewMemoryPrefixCacheWithShards(defaultShardCount)
}

func NewMemoryPrefixCacheWithShards(shardCount int) *MemoryPrefixCache {
	if shardCount < 1 {
		shardCount = 1
	}

	shards := make([]*prefixShard, shardCount)
	for i := range shards {
		shards[i] = &prefixShard{entries: make(map[string]string)}
	}
	return &MemoryPrefixCache{shards: shards}
}

func (c *MemoryPrefixCache) shardFor(guildID string) *prefixShard {
	return c.shards[shardIndex(guildID, len(c.shards))]
}

func shardIndex(key string, shardCount int) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % uint32(shardCount)
}

func (c *MemoryPrefixCache) Get(_ context.Context, guildID string) (string, bool, error) {
	shard := c.shardFor(guildID)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	prefix, ok := shard.entries[guildID]
	return prefix, ok, nil
}

func (c *MemoryPrefixCache) Set(_ context.Context, guildID, prefix string) error {
	shard := c.shardFor(guildID)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	shard.entries[guildID] = prefix
	return nil
}

func (c *MemoryPrefixCache) Add(_ context.Context, guildID, prefix string) error {
	shard := c.shardFor(guildID)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if _, exists := shard.entries[guildID]; !exists {
		shard.entries[guildID] = prefix
	}
	return nil
}

// Len returns the number of cached guilds
func (c *MemoryPrefixCache) Len() int {
	total := 0
	for _, shard := range c.shards {
		shard.mu.RLock()
		total += len(shard.entries)
		shard.mu.RUnlock()
	}
	return total
}
