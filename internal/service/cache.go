package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/calai/backend/internal/types"
)

// AnalysisCacheKey derives the cache key for a prompt sent to provider
func AnalysisCacheKey(provider, prompt string) string {
	sum := sha256.Sum256([]byte(provider + "|" + prompt))
	return fmt.Sprintf("analysis:%s", hex.EncodeToString(sum[:]))
}

// RedisAnalysisCache keeps parsed model results in Redis
type RedisAnalysisCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisAnalysisCache(client *redis.Client, ttl time.Duration) *RedisAnalysisCache {
	return &RedisAnalysisCache{redis: client, ttl: ttl}
}

// Get returns the cached result for key. A miss is (nil, false, nil).
func (c *RedisAnalysisCache) Get(ctx context.Context, key string) (*types.NutritionResult, bool, error) {
	data, err := c.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get analysis from Redis: %w", err)
	}

	var result types.NutritionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached analysis: %w", err)
	}
	result.Source = types.SourceCache

	return &result, true, nil
}

func (c *RedisAnalysisCache) Set(ctx context.Context, key string, result *types.NutritionResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save analysis to Redis: %w", err)
	}
	return nil
}
