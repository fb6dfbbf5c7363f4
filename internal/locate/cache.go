package locate

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const cleanupInterval = 30 * time.Minute

// readThrough memoizes successful lookups in a go-cache. A nil cache means
// every get calls through.
type readThrough[V any] struct {
	cache *gocache.Cache
	ttl   time.Duration
	fn    func(key string) (V, error)
}

func newReadThrough[V any](ttl time.Duration, fn func(key string) (V, error)) *readThrough[V] {
	r := &readThrough[V]{ttl: ttl, fn: fn}
	if ttl > 0 {
		r.cache = gocache.New(ttl, cleanupInterval)
	}
	return r
}

func (r *readThrough[V]) get(key string) (V, error) {
	if r.cache == nil {
		return r.fn(key)
	}

	if cached, ok := r.cache.Get(key); ok {
		if v, ok := cached.(V); ok {
			return v, nil
		}
		r.cache.Delete(key)
	}

	v, err := r.fn(key)
	if err != nil {
		return v, err
	}
	r.cache.Set(key, v, r.ttl)
	return v, nil
}

func (r *readThrough[V]) forget(keys ...string) {
	if r.cache == nil {
		return
	}
	if len(keys) == 0 {
		r.cache.Flush()
		return
	}
	for _, k := range keys {
		r.cache.Delete(k)
	}
}
