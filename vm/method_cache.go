package vm

import "sync/atomic"

// Method cache for the locator
//
// Most operator sites see a handful of receiver classes over and over, so the
// result of walking the MRO for (class, selector) is worth remembering. The
// cache is shared by every goroutine using the VM:
//
//   - the table is an immutable map published through an atomic pointer, so
//     readers never lock
//   - inserts copy the map and compare-and-swap it in; if another goroutine
//     inserted the same key first, its entry wins and is returned
//   - every entry is stamped with the epoch of its class's hierarchy; any
//     vtable mutation in that hierarchy bumps the epoch and stale entries are
//     recomputed
//
// Absent methods are cached too (attr == nil).

type cacheKey struct {
	class    *Class
	selector int
}

type cacheEntry struct {
	attr  Method
	epoch uint64
}

type cacheTable map[cacheKey]cacheEntry

// MethodCache is a read-through cache of MRO lookups.
type MethodCache struct {
	table atomic.Pointer[cacheTable]

	// Statistics for profiling
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewMethodCache creates an empty method cache.
func NewMethodCache() *MethodCache {
	mc := &MethodCache{}
	empty := make(cacheTable)
	mc.table.Store(&empty)
	return mc
}

// Lookup returns the cached attribute for (class, selector) if the entry is
// current. ok is false on a miss; attr may be nil on a hit (cached absence).
func (mc *MethodCache) Lookup(class *Class, selector int) (attr Method, ok bool) {
	e, found := (*mc.table.Load())[cacheKey{class, selector}]
	if found && e.epoch == class.Epoch() {
		mc.hits.Add(1)
		return e.attr, true
	}
	mc.misses.Add(1)
	return nil, false
}

// Insert records attr for (class, selector), computed under epoch.
// If a current entry for the key already exists it is kept and returned, so
// concurrent first lookups converge on one cached attribute.
func (mc *MethodCache) Insert(class *Class, selector int, attr Method, epoch uint64) Method {
	key := cacheKey{class, selector}
	for {
		cur := mc.table.Load()
		if e, found := (*cur)[key]; found && e.epoch == epoch {
			return e.attr
		}
		if epoch != class.Epoch() {
			// Computed against a table that has since changed; don't publish.
			return attr
		}

		next := make(cacheTable, len(*cur)+1)
		for k, e := range *cur {
			if e.epoch == k.class.Epoch() {
				next[k] = e
			}
		}
		next[key] = cacheEntry{attr: attr, epoch: epoch}
		if mc.table.CompareAndSwap(cur, &next) {
			return attr
		}
	}
}

// Reset clears the cache and its statistics.
func (mc *MethodCache) Reset() {
	empty := make(cacheTable)
	mc.table.Store(&empty)
	mc.hits.Store(0)
	mc.misses.Store(0)
}

// CacheStats holds aggregate method cache statistics.
type CacheStats struct {
	Entries int     // Entries in the current table, stale ones included
	Hits    uint64  // Lookups answered from the cache
	Misses  uint64  // Lookups that walked the MRO
	HitRate float64 // Hit percentage (0-100)
}

// Stats returns a snapshot of the cache statistics.
func (mc *MethodCache) Stats() CacheStats {
	stats := CacheStats{
		Entries: len(*mc.table.Load()),
		Hits:    mc.hits.Load(),
		Misses:  mc.misses.Load(),
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) * 100 / float64(total)
	}
	return stats
}
