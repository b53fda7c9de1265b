package storage

import (
	"context"
	"encoding/json"

	"github.com/blackarched/Prompt-Kraft/internal/services/processor"
	"go.uber.org/zap"
)

type Enhancer interface {
	Enhance(ctx context.Context, cfg *processor.Config, input, model, template string) (string, string, error)
}

// Cache is the subset of StorageService used by CachingEnhancer.
type Cache interface {
	GetFromCache(ctx context.Context, cacheKey string) ([]byte, error)
	SetCache(ctx context.Context, cacheKey string, data []byte) error
}

type cachedEnhancement struct {
	EnhancedPrompt string `json:"enhanced_prompt"`
	TemplateUsed   string `json:"template_used"`
}

// CachingEnhancer serves repeated enhancements from the cache. Cache errors
// are logged and never fail the enhancement.
type CachingEnhancer struct {
	next   Enhancer
	cache  Cache
	logger *zap.Logger
}

func NewCachingEnhancer(next Enhancer, cache Cache, logger *zap.Logger) *CachingEnhancer {
	return &CachingEnhancer{next: next, cache: cache, logger: logger}
}

func (e *CachingEnhancer) Enhance(ctx context.Context, cfg *processor.Config, input, model, template string) (string, string, error) {
	key := GenerateCacheKey(input, model, template)

	data, err := e.cache.GetFromCache(ctx, key)
	if err != nil {
		e.logger.Warn("Cache lookup failed", zap.Error(err))
	} else if data != nil {
		var hit cachedEnhancement
		if err := json.Unmarshal(data, &hit); err == nil && hit.EnhancedPrompt != "" {
			return hit.EnhancedPrompt, hit.TemplateUsed, nil
		}
		e.logger.Warn("Discarding malformed cache entry", zap.String("key", key))
	}

	enhanced, templateUsed, err := e.next.Enhance(ctx, cfg, input, model, template)
	if err != nil {
		return "", "", err
	}

	payload, err := json.Marshal(cachedEnhancement{EnhancedPrompt: enhanced, TemplateUsed: templateUsed})
	if err == nil {
		if err := e.cache.SetCache(ctx, key, payload); err != nil {
			e.logger.Warn("Failed to store enhancement in cache", zap.Error(err))
		}
	}

	return enhanced, templateUsed, nil
}
