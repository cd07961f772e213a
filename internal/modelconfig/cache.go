package modelconfig

import (
	"sync"
	"time"
)

// ExpiringCache holds a single value with a TTL.
type ExpiringCache[T any] struct {
	mu        sync.Mutex
	value     T
	populated bool
	expiresAt time.Time
	ttl       time.Duration
}

// NewExpiringCache creates a cache whose entries expire after ttl.
func NewExpiringCache[T any](ttl time.Duration) *ExpiringCache[T] {
	return &ExpiringCache[T]{ttl: ttl}
}

// Get returns the cached value and whether it is still valid.
func (c *ExpiringCache[T]) Get() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.populated || time.Now().After(c.expiresAt) {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Set stores a value and resets the expiry clock.
func (c *ExpiringCache[T]) Set(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	c.populated = true
	c.expiresAt = time.Now().Add(c.ttl)
}

// Clear drops the cached value.
func (c *ExpiringCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.populated = false
}
