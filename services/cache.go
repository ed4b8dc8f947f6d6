package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/restaurant-dashboard/utils"
)

// Cache stores raw backend payloads with a time to live.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
}

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process Cache. Expiry is checked on read against Now,
// which tests may replace.
type MemoryCache struct {
	Now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		Now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (mc *MemoryCache) Get(key string) ([]byte, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	e, ok := mc.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && !mc.Now().Before(e.expiresAt) {
		delete(mc.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value. A ttl <= 0 keeps the entry until it is deleted.
func (mc *MemoryCache) Set(key string, value []byte, ttl time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	e := cacheEntry{value: value}
	if ttl > 0 {
		e.expiresAt = mc.Now().Add(ttl)
	}
	mc.entries[key] = e
}

func (mc *MemoryCache) Delete(key string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	delete(mc.entries, key)
}

// RedisCache shares cached payloads between dashboard instances.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects using a redis:// URL and pings the server once.
func NewRedisCache(url, prefix string) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisCache{client: client, prefix: prefix}, nil
}

func (rc *RedisCache) Get(key string) ([]byte, bool) {
	val, err := rc.client.Get(context.Background(), rc.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		utils.ErrorLogger.Errorf("[redis] get %s: %v", key, err)
		return nil, false
	}
	return val, true
}

func (rc *RedisCache) Set(key string, value []byte, ttl time.Duration) {
	if ttl < 0 {
		ttl = 0
	}
	if err := rc.client.Set(context.Background(), rc.prefix+key, value, ttl).Err(); err != nil {
		utils.ErrorLogger.Errorf("[redis] set %s: %v", key, err)
	}
}

func (rc *RedisCache) Delete(key string) {
	if err := rc.client.Del(context.Background(), rc.prefix+key).Err(); err != nil {
		utils.ErrorLogger.Errorf("[redis] del %s: %v", key, err)
	}
}

func (rc *RedisCache) Close() error {
	return rc.client.Close()
}
