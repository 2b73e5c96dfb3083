package dataset

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache keeps built results keyed by data root until a TTL expires, so views
// over the same snapshot re-slice it instead of re-running the pipeline.
type Cache struct {
	c *gocache.Cache
}

// NewCache returns a cache whose entries live for ttl. A ttl of zero keeps
// entries until they are invalidated.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &Cache{c: gocache.New(ttl, 2*time.Minute)}
}

// Get returns the cached result for root, calling build on a miss. A failed
// build is not cached.
func (c *Cache) Get(root string, build func() (Result, error)) (Result, error) {
	if v, ok := c.c.Get(root); ok {
		return v.(Result), nil
	}
	res, err := build()
	if err != nil {
		return Result{}, err
	}
	c.c.SetDefault(root, res)
	return res, nil
}

// Invalidate drops the cached result for root.
func (c *Cache) Invalidate(root string) {
	c.c.Delete(root)
}
