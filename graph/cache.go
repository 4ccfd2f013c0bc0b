package graph

import (
	"sync"

	"github.com/rubenv/osmgraph/entity"
)

const (
	PropExtent         = "extent"
	PropIsArea         = "isArea"
	PropChildPoints    = "childPoints"
	PropIsIntersection = "isIntersection"
	PropGeometry       = "geometry"
)

type cacheKey struct {
	id   string
	prop string
}

type cacheEntry struct {
	version    int64
	generation int64
	value      any
}

// transientCache memoizes derived properties for all graphs of a lineage.
// An entry is valid while the entity version it was computed from is the
// visible one. Entries that also depend on neighbours store the touched
// generation of the graph they were computed in.
type transientCache struct {
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
}

func newTransientCache() *transientCache {
	return &transientCache{
		entries: make(map[cacheKey]cacheEntry),
	}
}

func (c *transientCache) get(key cacheKey, version, generation int64) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[key]
	if !ok || v.version != version || v.generation != generation {
		cacheMisses.Inc()
		return nil, false
	}
	cacheHits.Inc()
	return v.value, true
}

func (c *transientCache) put(key cacheKey, version, generation int64, value any) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{version: version, generation: generation, value: value}
	c.mu.Unlock()
}

func (c *transientCache) drop(ids []string) {
	if len(ids) == 0 {
		return
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if set[k.id] {
			delete(c.entries, k)
		}
	}
}

func (c *transientCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Memo caches a property that depends on e alone.
func Memo[T any](g *Graph, e entity.Entity, prop string, fn func() T) T {
	return memo(g, e, prop, 0, fn)
}

// MemoTopology caches a property that also depends on the direct
// neighbours of e.
func MemoTopology[T any](g *Graph, e entity.Entity, prop string, fn func() T) T {
	generation, _ := g.touched.get(e.ID())
	return memo(g, e, prop, generation, fn)
}

func memo[T any](g *Graph, e entity.Entity, prop string, generation int64, fn func() T) T {
	key := cacheKey{id: e.ID(), prop: prop}
	if v, ok := g.cache.get(key, e.Version(), generation); ok {
		return v.(T)
	}
	v := fn()
	g.cache.put(key, e.Version(), generation, v)
	return v
}
