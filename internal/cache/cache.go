package cache

import (
	"strings"
	"sync"
)

// Key namespaces of the transformer.
const (
	ClassType                        = "ClassType-"
	DestFieldName                    = "DestFieldName-"
	CanBeInjectedByConstructorParams = "CanBeInjectedByConstructorParams-"
	TransformerFunction              = "TransformerFunction-"
	Converter                        = "Converter-"
)

// Cache is a concurrent key-value store. The zero value is not usable, use New.
type Cache struct {
	entries sync.Map // string -> any
	metrics *Metrics
}

// New returns an empty cache. metrics may be nil.
func New(metrics *Metrics) *Cache {
	return &Cache{metrics: metrics}
}

// Key joins the namespace and the parts with "-".
func Key(namespace string, parts ...string) string {
	return namespace + strings.Join(parts, "-")
}

// Get returns the value stored under key. A value of another type than T is
// reported as a miss.
func Get[T any](c *Cache, key string) (T, bool) {
	var zero T

	v, ok := c.entries.Load(key)
	if !ok {
		c.metrics.miss(key)
		return zero, false
	}

	res, ok := v.(T)
	if !ok {
		c.metrics.miss(key)
		return zero, false
	}

	c.metrics.hit(key)

	return res, true
}

// Put stores value under key, replacing the previous value.
func (c *Cache) Put(key string, value any) {
	c.entries.Store(key, value)
}

// PutOrDefault stores value under key, or def when value is nil.
func (c *Cache) PutOrDefault(key string, value, def any) {
	if value == nil {
		value = def
	}

	c.Put(key, value)
}

// Remove deletes the value stored under key.
func (c *Cache) Remove(key string) {
	if _, loaded := c.entries.LoadAndDelete(key); loaded {
		c.metrics.invalidate(key, 1)
	}
}

// RemoveMatchingKeyPrefix deletes every key starting with prefix and returns
// the number of removed entries.
func (c *Cache) RemoveMatchingKeyPrefix(prefix string) int {
	removed := 0

	c.entries.Range(func(k, _ any) bool {
		key := k.(string)
		if strings.HasPrefix(key, prefix) {
			if _, loaded := c.entries.LoadAndDelete(key); loaded {
				removed++
			}
		}

		return true
	})

	c.metrics.invalidate(prefix, removed)

	return removed
}

// Clear deletes every entry.
func (c *Cache) Clear() int {
	return c.RemoveMatchingKeyPrefix("")
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	n := 0

	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})

	return n
}

// namespace returns the key up to and including the first "-", or "other".
func namespace(key string) string {
	i := strings.IndexByte(key, '-')
	if i <= 0 {
		return "other"
	}

	return key[:i]
}
