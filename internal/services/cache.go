package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pawhaven/pawhaven-backend/internal/database"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached data
	CacheKeyPrefix = "cache:"
	// FeedCacheKey holds the assembled available-pets feed
	FeedCacheKey = "adoption:feed"
	// FeedCacheTTL is short: the feed changes on every like/comment/listing write
	FeedCacheTTL = 2 * time.Minute
)

// CacheService provides JSON caching for read-heavy endpoints
type CacheService struct{}

// Get retrieves a value from cache. A miss is not an error.
func (c *CacheService) Get(key string, dest interface{}) (bool, error) {
	ctx := context.Background()

	val, err := database.RedisClient.Get(ctx, CacheKeyPrefix+key).Result()
	if err != nil {
		return false, nil // cache miss
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}

	return true, nil
}

// Set stores a value in cache with the given TTL
func (c *CacheService) Set(key string, value interface{}, ttl time.Duration) error {
	ctx := context.Background()

	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return database.RedisClient.Set(ctx, CacheKeyPrefix+key, jsonData, ttl).Err()
}

// Delete removes a value from cache
func (c *CacheService) Delete(key string) error {
	ctx := context.Background()
	return database.RedisClient.Del(ctx, CacheKeyPrefix+key).Err()
}

// InvalidateFeed drops the cached adoption feed after any listing write.
func (c *CacheService) InvalidateFeed() {
	_ = c.Delete(FeedCacheKey)
}

// Global cache service instance
var Cache = &CacheService{}
