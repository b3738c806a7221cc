package event

// Cache holds one lazily fetched value for the lifetime of a variant.
// A failed fetch is not cached. Cache is not safe for concurrent use; a
// variant belongs to the single task handling its event.
type Cache[T any] struct {
	value  T
	loaded bool
}

// Get returns the cached value, calling fetch until it succeeds once
func (c *Cache[T]) Get(fetch func() (T, error)) (T, error) {
	if c.loaded {
		return c.value, nil
	}
	v, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}
	c.value, c.loaded = v, true
	return v, nil
}

// Loaded reports whether a value has been cached
func (c *Cache[T]) Loaded() bool {
	return c.loaded
}

// Peek returns the cached value without fetching
func (c *Cache[T]) Peek() (T, bool) {
	return c.value, c.loaded
}
