package cache

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// LoadFunc computes a value on a cache miss.
type LoadFunc func(ctx context.Context) ([]byte, error)

// Loader reads through a Cache. Concurrent misses for the same key share
// one LoadFunc call.
type Loader struct {
	cache  Cache
	keyer  Keyer
	policy Policy
	group  singleflight.Group
}

// NewLoader creates a Loader. A nil keyer means HashKeyer.
func NewLoader(c Cache, keyer Keyer, policy Policy) *Loader {
	if keyer == nil {
		keyer = HashKeyer{}
	}
	return &Loader{cache: c, keyer: keyer, policy: policy}
}

// Load returns the cached value for (op, input), calling load on a miss.
// hit reports whether the value came from the cache. Errors from load are
// returned and not cached. If no key can be derived, load runs uncached.
func (l *Loader) Load(ctx context.Context, op string, input any, load LoadFunc) (value []byte, hit bool, err error) {
	if !l.policy.Enabled() {
		value, err = load(ctx)
		return value, false, err
	}

	key, err := l.keyer.Key(op, input)
	if err != nil {
		value, err = load(ctx)
		return value, false, err
	}

	if cached, ok := l.cache.Get(ctx, key); ok {
		return cached, true, nil
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		b, err := load(ctx)
		if err != nil {
			return nil, err
		}
		_ = l.cache.Set(ctx, key, b, l.policy.TTL(0))
		return b, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]byte), false, nil
}

// Invalidate drops the cached value for (op, input).
func (l *Loader) Invalidate(ctx context.Context, op string, input any) error {
	key, err := l.keyer.Key(op, input)
	if err != nil {
		return err
	}
	return l.cache.Delete(ctx, key)
}
