package service

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/calai/backend/internal/testhelpers"
	"github.com/pageza/calai/backend/internal/types"
)

func TestAnalysisCacheKey(t *testing.T) {
	key := AnalysisCacheKey("anthropic", "prompt")
	assert.Equal(t, key, AnalysisCacheKey("anthropic", "prompt"))
	assert.Regexp(t, `^analysis:[0-9a-f]{64}$`, key)

	assert.NotEqual(t, key, AnalysisCacheKey("openai", "prompt"))
	assert.NotEqual(t, key, AnalysisCacheKey("anthropic", "prompt "))
}

func TestRedisAnalysisCache(t *testing.T) {
	addr := testhelpers.StartRedis(t)
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	cache := NewRedisAnalysisCache(client, time.Minute)
	key := AnalysisCacheKey("fake", "一碗牛肉面")

	_, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	result := beefNoodleResult()
	require.NoError(t, cache.Set(ctx, key, result))

	cached, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.SourceCache, cached.Source)
	assert.Equal(t, result.Nutrition, cached.Nutrition)
	assert.Equal(t, result.AIResponse, cached.AIResponse)

	ttl, err := client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Minute)

	require.NoError(t, client.Set(ctx, key, "not json", 0).Err())
	_, _, err = cache.Get(ctx, key)
	assert.Error(t, err)
}
