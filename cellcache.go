package ansify

import (
	"sync"
	"sync/atomic"
)

// cellCache memoizes encoder results keyed on the exact sampled sub-cell
// colors. Flat and repeated regions (backgrounds, letterboxing, static
// parts of a camera frame) hit it often.
//
// When the cache reaches maxEntries it is cleared rather than evicted
// piecemeal; a hit only ever returns the result bestCell would compute.
type cellCache struct {
	mu         sync.RWMutex
	entries    map[string]Cell
	maxEntries int

	hits   atomic.Int64
	misses atomic.Int64
}

func newCellCache(maxEntries int) *cellCache {
	return &cellCache{
		entries:    make(map[string]Cell),
		maxEntries: maxEntries,
	}
}

// cacheKey packs sub-cell colors into a map key.
func cacheKey(subs []RGB) string {
	b := make([]byte, len(subs)*3)
	for i, c := range subs {
		b[i*3], b[i*3+1], b[i*3+2] = c.R, c.G, c.B
	}
	return string(b)
}

// getEntry retrieves a cached cell and records the hit or miss.
func (c *cellCache) getEntry(key string) (Cell, bool) {
	c.mu.RLock()
	cell, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return cell, ok
}

// addEntry stores a cell, clearing the cache first if it is full.
func (c *cellCache) addEntry(key string, cell Cell) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.maxEntries {
		c.entries = make(map[string]Cell, c.maxEntries)
	}
	c.entries[key] = cell
}

// CacheStats returns cache hit/miss statistics. All values are zero when
// the encoder has no cache.
func (e *CellEncoder) CacheStats() (hits, misses int64, hitRate float64) {
	if e.cache == nil {
		return 0, 0, 0
	}
	hits, misses = e.cache.hits.Load(), e.cache.misses.Load()
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return hits, misses, hitRate
}
