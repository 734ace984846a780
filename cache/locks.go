package cache

import (
	"sync"
)

// KeyedMutex serializes work per key. Keys hash onto a fixed set of mutexes, so unrelated
// keys only contend when they share a shard.
type KeyedMutex struct {
	shards []sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{shards: make([]sync.Mutex, defaultShardCount)}
}

// Lock acquires the mutex for key and returns the function releasing it
func (m *KeyedMutex) Lock(key string) func() {
	mu := &m.shards[shardIndex(key, len(m.shards))]
	mu.Lock()
	return mu.Unlock
}
