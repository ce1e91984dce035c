package market

import (
	"hash/fnv"
	"sync"

	"github.com/hxuan190/relay-router/internal/domain"
)

const numShards = 16

// poolEntry carries the insertion sequence so snapshots keep a stable order.
type poolEntry struct {
	pool domain.Pool
	seq  uint64
}

// ShardedPoolMap is a sharded map for pools to reduce lock contention
type ShardedPoolMap struct {
	shards [numShards]poolShard
}

type poolShard struct {
	mu    sync.RWMutex
	pools map[domain.PoolKey]poolEntry
}

func NewShardedPoolMap() *ShardedPoolMap {
	m := &ShardedPoolMap{}
	for i := 0; i < numShards; i++ {
		m.shards[i].pools = make(map[domain.PoolKey]poolEntry)
	}
	return m
}

func (m *ShardedPoolMap) getShard(key domain.PoolKey) *poolShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key.Contract))
	_, _ = h.Write([]byte{':'})
	_, _ = h.Write([]byte(key.SmartSymbol))
	return &m.shards[h.Sum32()%numShards]
}

func (m *ShardedPoolMap) Get(key domain.PoolKey) (poolEntry, bool) {
	shard := m.getShard(key)
	shard.mu.RLock()
	e, ok := shard.pools[key]
	shard.mu.RUnlock()
	return e, ok
}

// Set stores a pool. An existing entry keeps its sequence number.
func (m *ShardedPoolMap) Set(key domain.PoolKey, pool domain.Pool, seq uint64) (inserted bool) {
	shard := m.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	if e, ok := shard.pools[key]; ok {
		shard.pools[key] = poolEntry{pool: pool, seq: e.seq}
		return false
	}
	shard.pools[key] = poolEntry{pool: pool, seq: seq}
	return true
}

func (m *ShardedPoolMap) Delete(key domain.PoolKey) bool {
	shard := m.getShard(key)
	shard.mu.Lock()
	_, ok := shard.pools[key]
	delete(shard.pools, key)
	shard.mu.Unlock()
	return ok
}

// Len returns total count across all shards
func (m *ShardedPoolMap) Len() int {
	total := 0
	for i := 0; i < numShards; i++ {
		m.shards[i].mu.RLock()
		total += len(m.shards[i].pools)
		m.shards[i].mu.RUnlock()
	}
	return total
}

// Range iterates over all pools (acquires locks per shard)
func (m *ShardedPoolMap) Range(f func(key domain.PoolKey, e poolEntry) bool) {
	for i := 0; i < numShards; i++ {
		m.shards[i].mu.RLock()
		for k, v := range m.shards[i].pools {
			if !f(k, v) {
				m.shards[i].mu.RUnlock()
				return
			}
		}
		m.shards[i].mu.RUnlock()
	}
}

func (m *ShardedPoolMap) entries() []poolEntry {
	result := make([]poolEntry, 0, m.Len())
	m.Range(func(_ domain.PoolKey, e poolEntry) bool {
		result = append(result, e)
		return true
	})
	return result
}
