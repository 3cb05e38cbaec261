package assets

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/zjrosen/oddear/internal/log"
)

// CachedSource keeps fetched clip bytes in memory for a TTL so replays and
// regenerated challenges do not refetch the same clip.
type CachedSource struct {
	next  Source
	cache *cache.Cache
}

var _ Source = (*CachedSource)(nil)

// NewCachedSource wraps next with a TTL cache. A ttl <= 0 keeps entries
// until invalidated.
func NewCachedSource(next Source, ttl time.Duration) *CachedSource {
	expiration := ttl
	cleanup := ttl * 2
	if ttl <= 0 {
		expiration = cache.NoExpiration
		cleanup = 0
	}
	return &CachedSource{
		next:  next,
		cache: cache.New(expiration, cleanup),
	}
}

// Fetch implements Source. Failures are never cached.
func (s *CachedSource) Fetch(ctx context.Context, clip string) ([]byte, error) {
	key := clipKey(clip)
	if v, ok := s.cache.Get(key); ok {
		return v.([]byte), nil
	}

	data, err := s.next.Fetch(ctx, clip)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, data)
	log.Debug(log.CatAssets, "Cached clip", "clip", key, "bytes", len(data))
	return data, nil
}

// Invalidate drops a single clip from the cache.
func (s *CachedSource) Invalidate(clip string) {
	s.cache.Delete(clipKey(clip))
}

// Flush drops every cached clip.
func (s *CachedSource) Flush() {
	s.cache.Flush()
}

// Len returns the number of cached clips.
func (s *CachedSource) Len() int {
	return s.cache.ItemCount()
}
