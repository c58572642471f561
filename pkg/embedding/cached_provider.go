package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// VectorCache stores query embeddings keyed by a digest of the input.
type VectorCache interface {
	Get(ctx context.Context, key string) ([]float32, bool)
	Set(ctx context.Context, key string, vec []float32)
}

// CachedProvider memoizes an EmbeddingProvider. Cache failures fall through to
// the wrapped provider.
type CachedProvider struct {
	next      EmbeddingProvider
	cache     VectorCache
	namespace string
}

func NewCachedProvider(next EmbeddingProvider, c VectorCache, namespace string) *CachedProvider {
	return &CachedProvider{
		next:      next,
		cache:     c,
		namespace: namespace,
	}
}

func (p *CachedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	key := p.key(text)
	if vec, ok := p.cache.Get(ctx, key); ok {
		return vec, nil
	}

	vec, err := p.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	p.cache.Set(ctx, key, vec)
	return vec, nil
}

func (p *CachedProvider) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "embedding:" + p.namespace + ":" + hex.EncodeToString(sum[:])
}

// MemoryCache is an in-process VectorCache.
type MemoryCache struct {
	c *cache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{c: cache.New(ttl, 2*ttl)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]float32, bool) {
	if x, found := m.c.Get(key); found {
		return x.([]float32), true
	}
	return nil, false
}

func (m *MemoryCache) Set(_ context.Context, key string, vec []float32) {
	m.c.SetDefault(key, vec)
}

// RedisCache shares embeddings between instances.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]float32, bool) {
	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[WARN] Embedding cache read failed: %v", err)
		}
		return nil, false
	}

	var vec []float32
	if err := json.Unmarshal(raw, &vec); err != nil {
		return nil, false
	}
	return vec, true
}

func (r *RedisCache) Set(ctx context.Context, key string, vec []float32) {
	raw, err := json.Marshal(vec)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		log.Printf("[WARN] Embedding cache write failed: %v", err)
	}
}
