package viewmodel

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/nox-hq/riskboard/core/entity"
	"github.com/nox-hq/riskboard/core/nav"
)

// Cache memoizes assembled pages per snapshot generation. Entries are keyed
// on generation, view and selection; observing a newer generation drops
// every entry. Concurrent requests for the same page share one build.
//
// Cached pages are shared between callers and must not be modified.
type Cache struct {
	asm   *Assembler
	group singleflight.Group

	mu         sync.Mutex
	generation uint64
	pages      map[string]*Page
	hits       uint64
	misses     uint64
}

// NewCache wraps asm with a memo cache.
func NewCache(asm *Assembler) *Cache {
	return &Cache{asm: asm, pages: make(map[string]*Page)}
}

// Assembler returns the wrapped assembler.
func (c *Cache) Assembler() *Assembler {
	return c.asm
}

func cacheKey(generation uint64, state nav.State) string {
	return strconv.FormatUint(generation, 10) + "/" + state.View.Slug() + "/" + state.Selection
}

// Page returns the page for state over snap, which must be the snapshot
// loaded as generation. Errors are not cached.
func (c *Cache) Page(snap *entity.Snapshot, generation uint64, state nav.State) (*Page, error) {
	key := cacheKey(generation, state)

	c.mu.Lock()
	switch {
	case generation > c.generation:
		clear(c.pages)
		c.generation = generation
	case generation < c.generation:
		// A reader still holding an older snapshot; serve it uncached.
		c.mu.Unlock()
		p, err := c.asm.Assemble(snap, state)
		if err == nil {
			p.Generation = generation
		}
		return p, err
	}
	if p, ok := c.pages[key]; ok {
		c.hits++
		c.mu.Unlock()
		return p, nil
	}
	c.misses++
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		p, err := c.asm.Assemble(snap, state)
		if err != nil {
			return nil, err
		}
		p.Generation = generation

		c.mu.Lock()
		if c.generation == generation {
			c.pages[key] = p
		}
		c.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Page), nil
}

// Invalidate drops every cached page.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	clear(c.pages)
	c.mu.Unlock()
}

// Stats returns the number of cache hits and misses so far.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len returns the number of cached pages.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pages)
}
