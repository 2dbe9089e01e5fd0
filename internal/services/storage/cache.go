package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/phambaophuc/id-photo-studio/internal/services/generator"
	"github.com/redis/go-redis/v9"
)

func (s *StorageService) GetFromCache(ctx context.Context, cacheKey string) ([]byte, error) {
	data, err := s.redisClient.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("cache get error: %w", err)
	}
	return data, nil
}

func (s *StorageService) SetCache(ctx context.Context, cacheKey string, data []byte) error {
	return s.redisClient.Set(ctx, cacheKey, data, s.cacheDuration).Err()
}

// ClearCache drops every cached generation result.
func (s *StorageService) ClearCache(ctx context.Context) (int, error) {
	var removed int
	iter := s.redisClient.Scan(ctx, 0, generator.CacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.redisClient.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, fmt.Errorf("failed to delete %s: %w", iter.Val(), err)
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("failed to scan cache: %w", err)
	}
	return removed, nil
}

func (s *StorageService) GetCacheStats(ctx context.Context) (map[string]interface{}, error) {
	var cached int
	iter := s.redisClient.Scan(ctx, 0, generator.CacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		cached++
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	dbSize, err := s.redisClient.DBSize(ctx).Result()
	if err != nil {
		return nil, err
	}

	stats := map[string]interface{}{
		"db_keys":        dbSize,
		"cached_results": cached,
		"ttl_seconds":    int(s.cacheDuration.Seconds()),
	}

	return stats, nil
}
