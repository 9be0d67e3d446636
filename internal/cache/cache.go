package cache

import (
	"strings"
	"sync"
	"time"

	"noticias.lat/hub/internal/globaltime"
)

// Clock returns the current time; injected so expiry is testable.
type Clock func() time.Time

// TTLCache is a fixed-TTL response cache keyed by full request URL. Entries
// expire only by TTL or an explicit invalidation call; callers of mutating
// operations must tolerate stale reads for up to one TTL window.
type TTLCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	clock   Clock
	entries map[string]entry
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

type Option func(*TTLCache)

// WithClock overrides the time source.
func WithClock(clock Clock) Option {
	return func(c *TTLCache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func New(ttl time.Duration, opts ...Option) *TTLCache {
	c := &TTLCache{
		ttl:     ttl,
		clock:   globaltime.Now,
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value and whether it is still fresh. Expired
// entries are dropped on access.
func (c *TTLCache) Get(key string) ([]byte, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.clock().After(e.expiresAt) {
		c.mu.Lock()
		if current, still := c.entries[key]; still && c.clock().After(current.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

func (c *TTLCache) Set(key string, value []byte) {
	if c == nil || c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.entries[key] = entry{
		value:     value,
		expiresAt: c.clock().Add(c.ttl),
	}
	c.mu.Unlock()
}

// Invalidate removes one key.
func (c *TTLCache) Invalidate(key string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidatePrefix removes every key beginning with prefix; used to clear a
// route family after an admin sync.
func (c *TTLCache) InvalidatePrefix(prefix string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// Reset drops everything.
func (c *TTLCache) Reset() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len reports live entries, counting expired-but-unswept ones.
func (c *TTLCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
