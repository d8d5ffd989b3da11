package envmap

import "sync"

// CacheStats is a snapshot of a Cache's lifecycle counters.
type CacheStats struct {
	// Epoch counts invalidations; a build is valid only within the epoch it was made in.
	Epoch uint64
	// Builds counts successful builds across all epochs.
	Builds uint64
	// Releases counts handles released by Invalidate or Close.
	Releases uint64
}

// Cache holds at most one environment handle built by a single render context.
// It is owned by that context's viewport and never shared: a handle prefiltered on one
// device is meaningless on another.
//
// Invariant: Built() == true implies Resource() is a live handle created in the current epoch.
type Cache struct {
	mu       sync.Mutex
	built    bool
	resource Handle
	stats    CacheStats
}

// NewCache returns an empty cache in epoch 0.
func NewCache() *Cache {
	return &Cache{}
}

// Built reports whether the cache holds a handle for the current epoch.
func (c *Cache) Built() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.built
}

// Resource returns the cached handle, or nil when nothing is built.
func (c *Cache) Resource() Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resource
}

// Epoch returns the current cache epoch.
func (c *Cache) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats.Epoch
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Resolve returns the cached handle, calling build at most once per epoch to create it.
// A failed build leaves the cache empty so the next call retries.
//
// Parameters:
//   - build: creates the handle on the owning context
//
// Returns:
//   - Handle: the cached or newly built handle
//   - bool: true if build was called and succeeded during this call
//   - error: the build error, or ErrNilHandle
func (c *Cache) Resolve(build func() (Handle, error)) (Handle, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.built {
		return c.resource, false, nil
	}

	h, err := build()
	if err != nil {
		return nil, false, err
	}
	if h == nil {
		return nil, false, ErrNilHandle
	}
	c.resource = h
	c.built = true
	c.stats.Builds++
	return h, true, nil
}

// Invalidate ends the current epoch. The cache is reset to empty first and the stale
// handle, if any, is released afterwards, so no caller can observe a released handle.
//
// Returns:
//   - bool: true if a handle was released
func (c *Cache) Invalidate() bool {
	c.mu.Lock()
	stale, wasBuilt := c.resource, c.built
	c.resource = nil
	c.built = false
	c.stats.Epoch++
	if wasBuilt && stale != nil {
		c.stats.Releases++
	}
	c.mu.Unlock()

	if !wasBuilt || stale == nil {
		return false
	}
	stale.Release()
	return true
}

// Close releases the cached handle at teardown without advancing the epoch.
func (c *Cache) Close() {
	c.mu.Lock()
	stale, wasBuilt := c.resource, c.built
	c.resource = nil
	c.built = false
	if wasBuilt && stale != nil {
		c.stats.Releases++
	}
	c.mu.Unlock()

	if wasBuilt && stale != nil {
		stale.Release()
	}
}
