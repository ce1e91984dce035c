package market

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/hxuan190/relay-router/internal/domain"
)

var ErrPoolNotFound = errors.New("pool not found")

// PoolRegistry holds the live pool set. Readers take immutable snapshots;
// writers bump the version so cached quotes and snapshots can be discarded.
// Writers hold snapMu for the whole batch, so a snapshot never sees part of
// one. Lock order is snapMu, then dirtyMu.
type PoolRegistry struct {
	pools      *ShardedPoolMap
	validators []PoolValidator

	seq     atomic.Uint64
	version atomic.Uint64

	snapMu   sync.Mutex
	snapshot atomic.Pointer[Snapshot]

	dirtyMu sync.Mutex
	dirty   map[domain.PoolKey]struct{}
	removed map[domain.PoolKey]struct{}
}

// Snapshot is an ordered, immutable view of the registry at Version.
type Snapshot struct {
	Version uint64
	Pools   []domain.Pool
}

func NewPoolRegistry() *PoolRegistry {
	return &PoolRegistry{
		pools:   NewShardedPoolMap(),
		dirty:   make(map[domain.PoolKey]struct{}),
		removed: make(map[domain.PoolKey]struct{}),
	}
}

func NewDefaultPoolRegistry() *PoolRegistry {
	r := NewPoolRegistry()
	r.RegisterValidator(NewRelayValidator())
	return r
}

func (r *PoolRegistry) RegisterValidator(validator PoolValidator) {
	r.validators = append(r.validators, validator)
}

func (r *PoolRegistry) validate(pool domain.Pool) error {
	for _, v := range r.validators {
		if v.SupportsPoolType(pool.Type) {
			return v.Validate(pool)
		}
	}
	if len(r.validators) == 0 {
		return pool.Validate()
	}
	return fmt.Errorf("%w: no validator for pool type %s", domain.ErrInvalidPool, pool.Type)
}

// Upsert validates and stores pools. Either all pools are stored or none are.
func (r *PoolRegistry) Upsert(pools ...domain.Pool) error {
	for _, p := range pools {
		if err := r.validate(p); err != nil {
			return err
		}
	}
	if len(pools) == 0 {
		return nil
	}

	r.snapMu.Lock()
	defer r.snapMu.Unlock()
	r.dirtyMu.Lock()
	defer r.dirtyMu.Unlock()

	for _, p := range pools {
		key := p.Key()
		r.pools.Set(key, p, r.seq.Add(1))
		r.dirty[key] = struct{}{}
		delete(r.removed, key)
	}
	r.version.Add(1)
	return nil
}

// Load stores pools restored from disk without marking them dirty.
// Invalid pools are skipped and returned.
func (r *PoolRegistry) Load(pools []domain.Pool) (rejected []error) {
	r.snapMu.Lock()
	defer r.snapMu.Unlock()

	for _, p := range pools {
		if err := r.validate(p); err != nil {
			rejected = append(rejected, err)
			continue
		}
		r.pools.Set(p.Key(), p, r.seq.Add(1))
	}
	r.version.Add(1)
	return rejected
}

func (r *PoolRegistry) Remove(key domain.PoolKey) error {
	r.snapMu.Lock()
	defer r.snapMu.Unlock()
	r.dirtyMu.Lock()
	defer r.dirtyMu.Unlock()

	if !r.pools.Delete(key) {
		return fmt.Errorf("%w: %s", ErrPoolNotFound, key)
	}
	delete(r.dirty, key)
	r.removed[key] = struct{}{}
	r.version.Add(1)
	return nil
}

func (r *PoolRegistry) Get(key domain.PoolKey) (domain.Pool, bool) {
	e, ok := r.pools.Get(key)
	return e.pool, ok
}

func (r *PoolRegistry) Count() int {
	return r.pools.Len()
}

func (r *PoolRegistry) Version() uint64 {
	return r.version.Load()
}

// Snapshot returns the pools in insertion order. The result is shared and
// must not be modified.
func (r *PoolRegistry) Snapshot() *Snapshot {
	v := r.version.Load()
	if s := r.snapshot.Load(); s != nil && s.Version == v {
		return s
	}

	r.snapMu.Lock()
	defer r.snapMu.Unlock()
	if s := r.snapshot.Load(); s != nil && s.Version == r.version.Load() {
		return s
	}

	v = r.version.Load()
	entries := r.pools.entries()
	sortBySeq(entries)
	pools := make([]domain.Pool, len(entries))
	for i, e := range entries {
		pools[i] = e.pool
	}

	s := &Snapshot{Version: v, Pools: pools}
	r.snapshot.Store(s)
	return s
}

// DrainDirty returns the pools changed and the keys removed since the last
// drain, and resets both sets.
func (r *PoolRegistry) DrainDirty() (changed []domain.Pool, removed []domain.PoolKey) {
	r.dirtyMu.Lock()
	defer r.dirtyMu.Unlock()

	entries := make([]poolEntry, 0, len(r.dirty))
	for key := range r.dirty {
		if e, ok := r.pools.Get(key); ok {
			entries = append(entries, e)
		}
	}
	sortBySeq(entries)
	for _, e := range entries {
		changed = append(changed, e.pool)
	}
	for key := range r.removed {
		removed = append(removed, key)
	}
	r.dirty = make(map[domain.PoolKey]struct{})
	r.removed = make(map[domain.PoolKey]struct{})
	return changed, removed
}

// MarkDirty puts changes back after a failed save.
func (r *PoolRegistry) MarkDirty(changed []domain.Pool, removed []domain.PoolKey) {
	r.dirtyMu.Lock()
	defer r.dirtyMu.Unlock()

	for _, p := range changed {
		if _, ok := r.pools.Get(p.Key()); ok {
			r.dirty[p.Key()] = struct{}{}
		}
	}
	for _, key := range removed {
		if _, ok := r.pools.Get(key); !ok {
			r.removed[key] = struct{}{}
		}
	}
}

func sortBySeq(entries []poolEntry) {
	slices.SortFunc(entries, func(a, b poolEntry) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
}
