package sync

import "sync"

// shardCount is a power of two so the shard index reduces to a mask.
const shardCount = 64

// KeyedMutex provides fine-grained locking sharded by resource key.
// Instead of a single global lock, operations are distributed across N
// shards based on a hash of the key, reducing contention under concurrent
// load. Two distinct keys may share a shard; that only costs throughput,
// never correctness.
type KeyedMutex struct {
	shards [shardCount]sync.Mutex
}

// NewKeyedMutex creates a KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{}
}

// Lock acquires the lock for the given key's shard.
func (m *KeyedMutex) Lock(key string) {
	m.shards[m.shardFor(key)].Lock()
}

// Unlock releases the lock for the given key's shard.
func (m *KeyedMutex) Unlock(key string) {
	m.shards[m.shardFor(key)].Unlock()
}

// Do runs fn while holding the lock for key. Callers use this to make a
// check-then-mutate sequence atomic per key.
func (m *KeyedMutex) Do(key string, fn func()) {
	m.Lock(key)
	defer m.Unlock(key)
	fn()
}

func (m *KeyedMutex) shardFor(key string) int {
	return int(fnv32(key) & (shardCount - 1))
}

// fnv32 is FNV-1a, inlined to keep the hot path allocation-free.
func fnv32(s string) uint32 {
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}
