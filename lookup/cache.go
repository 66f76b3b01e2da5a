package lookup

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"auto_blog_article_writer/model"
)

// SnippetCache stores successful lookups keyed by source kind and query.
type SnippetCache interface {
	Get(ctx context.Context, key string) ([]model.Snippet, bool)
	Set(ctx context.Context, key string, snippets []model.Snippet)
}

// CachedSource serves repeated queries from a SnippetCache. Only non-empty,
// successful results are cached so a transient outage is not remembered.
type CachedSource struct {
	Source
	cache SnippetCache
}

func NewCachedSource(src Source, c SnippetCache) *CachedSource {
	return &CachedSource{Source: src, cache: c}
}

func (s *CachedSource) Lookup(ctx context.Context, query string) ([]model.Snippet, error) {
	key := cacheKey(s.Kind(), query)
	if snippets, ok := s.cache.Get(ctx, key); ok {
		return snippets, nil
	}
	snippets, err := s.Source.Lookup(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(snippets) > 0 {
		s.cache.Set(ctx, key, snippets)
	}
	return snippets, nil
}

func cacheKey(kind model.SnippetKind, query string) string {
	return string(kind) + ":" + strings.ToLower(strings.TrimSpace(query))
}

// MemoryCache is an in-process SnippetCache with expiry.
type MemoryCache struct {
	c *cache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{c: cache.New(ttl, 2*ttl)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]model.Snippet, bool) {
	if x, found := m.c.Get(key); found {
		return x.([]model.Snippet), true
	}
	return nil, false
}

func (m *MemoryCache) Set(_ context.Context, key string, snippets []model.Snippet) {
	m.c.Set(key, snippets, cache.DefaultExpiration)
}

// RedisCache shares lookups between processes. Redis errors are treated as
// cache misses.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisCache(redisURL string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisCache{rdb: redis.NewClient(opt), ttl: ttl, prefix: "snippets:"}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]model.Snippet, bool) {
	data, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	var snippets []model.Snippet
	if err := json.Unmarshal(data, &snippets); err != nil {
		return nil, false
	}
	return snippets, true
}

func (r *RedisCache) Set(ctx context.Context, key string, snippets []model.Snippet) {
	data, err := json.Marshal(snippets)
	if err != nil {
		return
	}
	_ = r.rdb.Set(ctx, r.prefix+key, data, r.ttl).Err()
}

func (r *RedisCache) Close() error {
	return r.rdb.Close()
}
