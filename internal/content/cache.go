package content

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"pkt.systems/matrixterm/schema"
)

// Cache memoizes successful fetches for the lifetime of the process.
// Failures are never cached. Concurrent requests for the same page share
// one upstream fetch.
type Cache struct {
	next Fetcher

	mu    sync.RWMutex
	pages map[schema.PageName][]schema.Block
	group singleflight.Group
}

// NewCache wraps next with a process-lifetime cache.
func NewCache(next Fetcher) *Cache {
	return &Cache{
		next:  next,
		pages: make(map[schema.PageName][]schema.Block),
	}
}

// Fetch implements Fetcher.
func (c *Cache) Fetch(ctx context.Context, page schema.PageName) ([]schema.Block, error) {
	if blocks, ok := c.lookup(page); ok {
		return blocks, nil
	}
	value, err, _ := c.group.Do(string(page), func() (any, error) {
		if blocks, ok := c.lookup(page); ok {
			return blocks, nil
		}
		blocks, err := c.next.Fetch(ctx, page)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.pages[page] = cloneBlocks(blocks)
		c.mu.Unlock()
		return blocks, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneBlocks(value.([]schema.Block)), nil
}

// Len reports how many pages are cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}

func (c *Cache) lookup(page schema.PageName) ([]schema.Block, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	blocks, ok := c.pages[page]
	if !ok {
		return nil, false
	}
	return cloneBlocks(blocks), true
}

func cloneBlocks(blocks []schema.Block) []schema.Block {
	return schema.Result{Content: blocks}.Clone().Content
}
