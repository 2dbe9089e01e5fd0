package generator

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/phambaophuc/id-photo-studio/internal/models"
	"go.uber.org/zap"
)

const CacheKeyPrefix = "idphoto:result:"

// Cache stores generated images. GetFromCache returns nil, nil on a miss.
type Cache interface {
	GetFromCache(ctx context.Context, key string) ([]byte, error)
	SetCache(ctx context.Context, key string, data []byte) error
}

// CachedGenerator serves repeated (image, settings) pairs from the cache.
// Cache failures are logged and never fail a generation.
type CachedGenerator struct {
	next   Generator
	cache  Cache
	logger *zap.Logger
}

func WithCache(next Generator, cache Cache, logger *zap.Logger) *CachedGenerator {
	return &CachedGenerator{next: next, cache: cache, logger: logger}
}

func (g *CachedGenerator) Generate(ctx context.Context, image []byte, settings models.PhotoSettings, credential string) ([]byte, error) {
	key, err := CacheKey(image, settings)
	if err != nil {
		return g.next.Generate(ctx, image, settings, credential)
	}

	cached, err := g.cache.GetFromCache(ctx, key)
	if err != nil {
		g.logger.Warn("Cache lookup failed", zap.String("cache_key", key), zap.Error(err))
	} else if cached != nil {
		g.logger.Info("Cache hit", zap.String("cache_key", key))
		return cached, nil
	}

	result, err := g.next.Generate(ctx, image, settings, credential)
	if err != nil {
		return nil, err
	}

	if err := g.cache.SetCache(ctx, key, result); err != nil {
		g.logger.Warn("Failed to cache result", zap.String("cache_key", key), zap.Error(err))
	}
	return result, nil
}

// CacheKey hashes the source image together with the settings that shape
// the prompt.
func CacheKey(image []byte, settings models.PhotoSettings) (string, error) {
	encoded, err := json.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("failed to encode settings: %w", err)
	}

	hash := sha256.New()
	hash.Write(image)
	hash.Write([]byte{0})
	hash.Write(encoded)
	return fmt.Sprintf("%s%x", CacheKeyPrefix, hash.Sum(nil)), nil
}
