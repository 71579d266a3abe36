package cache

import (
	"context"
	"sync"
	"time"
)

type entry[T any] struct {
	value   T
	expires time.Time
}

// Memory is a mutex-guarded map used when Redis is not configured and in
// tests.
type Memory[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	ttl     time.Duration
	now     func() time.Time
}

func NewMemory[T any](ttl time.Duration) *Memory[T] {
	return &Memory[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *Memory[T]) Get(_ context.Context, key string) (T, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero T

	if !ok {
		return zero, false, nil
	}

	if now := c.now(); c.expired(e, now) {
		c.mu.Lock()
		// A concurrent Set may have replaced the entry.
		if cur, ok := c.entries[key]; ok && c.expired(cur, now) {
			delete(c.entries, key)
		}
		c.mu.Unlock()

		return zero, false, nil
	}

	return e.value, true, nil
}

func (c *Memory[T]) expired(e entry[T], now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

func (c *Memory[T]) Set(_ context.Context, key string, v T) error {
	e := entry[T]{value: v}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	if c.ttl > 0 {
		now := c.now()
		for k, old := range c.entries {
			if c.expired(old, now) {
				delete(c.entries, k)
			}
		}
	}
	c.entries[key] = e
	c.mu.Unlock()

	return nil
}

func (c *Memory[T]) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	return nil
}
