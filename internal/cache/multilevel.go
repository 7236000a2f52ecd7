package cache

import (
	"encoding/json"
	"fmt"
	"time"
)

type Cache interface {
	Set(key string, value interface{}, ttl time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	DeletePattern(pattern string) error
	Exists(key string) (bool, error)
	Stats() map[string]interface{}
	Health() error
	Close() error
}

// MultiLevelCache fronts redis with an in-process map. A nil L2 is a
// valid configuration: the stack then runs memory-only, which is also
// what an open circuit breaker degrades to.
type MultiLevelCache struct {
	l1 *MemoryCache
	l2 *RedisCache
}

func NewMultiLevelCache(redisCache *RedisCache) *MultiLevelCache {
	return &MultiLevelCache{
		l1: NewMemoryCache(),
		l2: redisCache,
	}
}

func (c *MultiLevelCache) Set(key string, value interface{}, ttl time.Duration) error {
	c.l1.Set(key, value, ttl)

	if c.l2 != nil {
		return c.l2.Set(key, value, ttl)
	}
	return nil
}

func (c *MultiLevelCache) Get(key string, dest interface{}) error {
	if value, found := c.l1.Get(key); found {
		return copyValue(value, dest)
	}

	if c.l2 != nil {
		err := c.l2.Get(key, dest)
		if err == nil {
			c.l1.Set(key, dest, 5*time.Minute)
		}
		return err
	}

	return ErrCacheMiss
}

func (c *MultiLevelCache) Delete(key string) error {
	c.l1.Delete(key)

	if c.l2 != nil {
		return c.l2.Delete(key)
	}
	return nil
}

func (c *MultiLevelCache) DeletePattern(pattern string) error {
	c.l1.DeletePattern(pattern)

	if c.l2 != nil {
		return c.l2.DeletePattern(pattern)
	}
	return nil
}

func (c *MultiLevelCache) Exists(key string) (bool, error) {
	if _, found := c.l1.Get(key); found {
		return true, nil
	}

	if c.l2 != nil {
		return c.l2.Exists(key)
	}
	return false, nil
}

func (c *MultiLevelCache) Stats() map[string]interface{} {
	stats := map[string]interface{}{
		"l1": c.l1.Stats(),
	}
	if c.l2 != nil {
		stats["l2"] = c.l2.Stats()
	}
	return stats
}

func (c *MultiLevelCache) Health() error {
	if c.l2 != nil {
		return c.l2.Health()
	}
	return nil
}

func (c *MultiLevelCache) Close() error {
	if c.l2 != nil {
		return c.l2.Close()
	}
	return nil
}

// copyValue round-trips through JSON so L1 hits hand out copies, not
// aliases into the cached value.
func copyValue(src, dest interface{}) error {
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("failed to marshal cached value: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal to destination: %w", err)
	}
	return nil
}
