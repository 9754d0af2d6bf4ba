// Package ttl provides a single-valued cache whose content expires after a
// fixed duration.
package ttl

import (
	"sync"
	"time"
)

// Cache holds at most one value of type T. The zero value is an empty cache
// ready for use.
type Cache[T any] struct {
	mu     sync.Mutex
	now    func() time.Time
	expire time.Time
	value  T
	valid  bool
}

// New returns an empty cache. A nil now uses time.Now.
func New[T any](now func() time.Time) *Cache[T] {
	return &Cache[T]{now: now}
}

func (c *Cache[T]) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// GetOrRefresh returns the cached value while it has not expired. Otherwise
// it calls refresh and keeps the result for d. When refresh fails its error
// is returned and the cache stays expired, so the next call tries again.
func (c *Cache[T]) GetOrRefresh(d time.Duration, refresh func() (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.clock().Before(c.expire) {
		return c.value, nil
	}

	v, err := refresh()
	if err != nil {
		var zero T
		return zero, err
	}
	c.value = v
	c.valid = true
	c.expire = c.clock().Add(d)
	return v, nil
}

// Invalidate expires the cached value immediately.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}
