// Package expcache caches term-expansion results in a bounded LRU.
// Values are deterministic per key, so last-writer-wins on concurrent
// inserts is harmless.
package expcache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gzeric2k/library-news-extract/internal/domain/expand"
	"github.com/gzeric2k/library-news-extract/internal/domain/knowledge"
	"github.com/gzeric2k/library-news-extract/internal/usecase/expansion"
)

// DefaultCacheSize bounds the cache when no capacity is configured.
const DefaultCacheSize = 512

// CachedExpander is a caching decorator around an expander.
type CachedExpander struct {
	inner      expansion.Expander
	cache      *lru.Cache[string, []expand.Candidate]
	cacheTotal *prometheus.CounterVec
}

// New creates a caching decorator with the given capacity.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"); nil disables metrics.
func New(inner expansion.Expander, size int, cacheTotal *prometheus.CounterVec) *CachedExpander {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, _ := lru.New[string, []expand.Candidate](size)
	return &CachedExpander{inner: inner, cache: cache, cacheTotal: cacheTotal}
}

// Expand returns the cached candidate list or delegates to the inner
// expander. Repeated calls with identical arguments return identical
// results without recomputation.
func (c *CachedExpander) Expand(ctx context.Context, seed string, mode expand.Mode, topK int) ([]expand.Candidate, error) {
	key := cacheKey(seed, mode, topK)

	if cached, ok := c.cache.Get(key); ok {
		c.incCache("hit")
		return cached, nil
	}
	c.incCache("miss")

	result, err := c.inner.Expand(ctx, seed, mode, topK)
	if err != nil {
		return nil, fmt.Errorf("expand %q: %w", seed, err)
	}

	c.cache.Add(key, result)
	return result, nil
}

// Len returns the number of cached expansions.
func (c *CachedExpander) Len() int { return c.cache.Len() }

func (c *CachedExpander) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func cacheKey(seed string, mode expand.Mode, topK int) string {
	return fmt.Sprintf("%s\x00%s\x00%d", knowledge.Normalize(seed), mode, topK)
}
