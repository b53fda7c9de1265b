package storage

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "prompt_cache:"

// GetFromCache returns nil data on a cache miss.
func (s *StorageService) GetFromCache(ctx context.Context, cacheKey string) ([]byte, error) {
	if s.redisClient == nil {
		return nil, ErrCacheDisabled
	}

	data, err := s.redisClient.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get error: %w", err)
	}
	return data, nil
}

func (s *StorageService) SetCache(ctx context.Context, cacheKey string, data []byte) error {
	if s.redisClient == nil {
		return ErrCacheDisabled
	}
	return s.redisClient.Set(ctx, cacheKey, data, s.cacheTTL).Err()
}

// GenerateCacheKey derives a key from everything that affects an enhancement.
func GenerateCacheKey(input, model, template string) string {
	hash := sha256.New()

	hash.Write([]byte(input))
	hash.Write([]byte{0})
	hash.Write([]byte(model))
	hash.Write([]byte{0})
	hash.Write([]byte(template))

	return fmt.Sprintf("%s%x", cacheKeyPrefix, hash.Sum(nil))
}

func (s *StorageService) GetCacheStats(ctx context.Context) (map[string]interface{}, error) {
	if s.redisClient == nil {
		return nil, ErrCacheDisabled
	}

	dbSize, err := s.redisClient.DBSize(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read cache size: %w", err)
	}

	var cached int64
	iter := s.redisClient.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		cached++
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan cache keys: %w", err)
	}

	stats := map[string]interface{}{
		"db_keys":     dbSize,
		"cached_keys": cached,
		"ttl":         s.cacheTTL.String(),
	}

	return stats, nil
}
