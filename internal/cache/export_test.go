package cache

import "time"

func (c *Memory[T]) SetClock(now func() time.Time) {
	c.now = now
}

func (c *Memory[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
