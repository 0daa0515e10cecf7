package bill

import (
	"context"
	"time"

	"github.com/Iron-Ham/solarsizer/internal/cache"
)

// CachingResolver remembers successful lookups for a fixed TTL. Failures,
// including records that fail Validate, are never cached.
type CachingResolver struct {
	next  Resolver
	cache cache.Cache[string, Record]
	ttl   time.Duration
}

// NewCachingResolver wraps next. A ttl of zero or less disables caching.
func NewCachingResolver(next Resolver, ttl time.Duration) *CachingResolver {
	var c cache.Cache[string, Record] = cache.NoopCache[string, Record]{}
	if ttl > 0 {
		c = cache.NewTTLCache[string, Record]()
	}
	return NewCachingResolverWithCache(next, c, ttl)
}

// NewCachingResolverWithCache wraps next using the given cache.
func NewCachingResolverWithCache(next Resolver, c cache.Cache[string, Record], ttl time.Duration) *CachingResolver {
	return &CachingResolver{next: next, cache: c, ttl: ttl}
}

// Resolve implements Resolver.
func (r *CachingResolver) Resolve(ctx context.Context, reference string) (Record, error) {
	if rec, ok := r.cache.Get(reference); ok {
		return rec, nil
	}
	rec, err := r.next.Resolve(ctx, reference)
	if err != nil {
		return Record{}, err
	}
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	r.cache.Set(reference, rec, r.ttl)
	return rec, nil
}

// Forget drops a cached reference so the next lookup goes upstream.
func (r *CachingResolver) Forget(reference string) {
	r.cache.Delete(reference)
}
