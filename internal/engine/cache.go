package engine

import (
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/hailam/fastfeud/internal/board"
)

// Cached is a stored search result.
type Cached struct {
	Index int
	Value float64
	Depth int // deepest completed pass
}

// Cache remembers suggestions by position and requested depth.
type Cache interface {
	Lookup(h board.Hash, depth int) (Cached, bool)
	Store(h board.Hash, depth int, c Cached)
}

// Number of shards for cache locking (power of 2 for fast modulo)
const cacheShardCount = 64
const cacheShardMask = cacheShardCount - 1

type cacheEntry struct {
	key   board.Hash
	depth int
	used  bool
	value Cached
}

// MemoryCache is a fixed-size, always-replace suggestion table. It is safe
// for concurrent use.
type MemoryCache struct {
	entries []cacheEntry
	shards  [cacheShardCount]sync.RWMutex
	mask    uint64

	hits   atomic.Uint64
	probes atomic.Uint64
}

// NewMemoryCache creates a cache with room for at least size entries.
func NewMemoryCache(size int) *MemoryCache {
	n := uint64(1)
	for n < uint64(max(size, 1)) {
		n <<= 1
	}
	return &MemoryCache{
		entries: make([]cacheEntry, n),
		mask:    n - 1,
	}
}

func (c *MemoryCache) index(h board.Hash, depth int) uint64 {
	return (xxhash.Sum64(h[:]) + uint64(depth)*0x9E3779B97F4A7C15) & c.mask
}

// Lookup returns the entry stored for h at depth.
func (c *MemoryCache) Lookup(h board.Hash, depth int) (Cached, bool) {
	c.probes.Add(1)
	idx := c.index(h, depth)
	shard := &c.shards[idx&cacheShardMask]

	shard.RLock()
	e := c.entries[idx]
	shard.RUnlock()

	if e.used && e.key == h && e.depth == depth {
		c.hits.Add(1)
		return e.value, true
	}
	return Cached{}, false
}

// Store saves v for h at depth, replacing whatever shared its slot.
func (c *MemoryCache) Store(h board.Hash, depth int, v Cached) {
	idx := c.index(h, depth)
	shard := &c.shards[idx&cacheShardMask]

	shard.Lock()
	c.entries[idx] = cacheEntry{key: h, depth: depth, used: true, value: v}
	shard.Unlock()
}

// HitRate returns the cache hit rate as a percentage.
func (c *MemoryCache) HitRate() float64 {
	probes := c.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(c.hits.Load()) / float64(probes) * 100
}
