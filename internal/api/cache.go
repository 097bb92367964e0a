package api

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/yourusername/jra-analyzer/internal/metrics"
)

// responseCache holds encoded analysis responses keyed by race and reference date
type responseCache struct {
	store *cache.Cache
}

// newResponseCache returns nil when ttl is zero, which disables caching
func newResponseCache(ttl time.Duration) *responseCache {
	if ttl <= 0 {
		return nil
	}
	return &responseCache{store: cache.New(ttl, 2*ttl)}
}

func cacheKey(raceID string, asOf time.Time) string {
	return raceID + "|" + asOf.Format(dateLayout)
}

func (c *responseCache) get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.store.Get(key)
	metrics.RecordCacheLookup(ok)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

func (c *responseCache) set(key string, body []byte) {
	if c == nil {
		return
	}
	c.store.SetDefault(key, body)
}
