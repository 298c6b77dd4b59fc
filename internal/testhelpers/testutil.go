package testhelpers

import (
	"context"
	"sync"

	"github.com/pageza/calai/backend/internal/types"
)

// FakeGenerator returns a canned reply or error and records the prompts it received
type FakeGenerator struct {
	Provider string
	Reply    string
	Err      error

	mu      sync.Mutex
	prompts []string
}

func (g *FakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prompts = append(g.prompts, prompt)
	if g.Err != nil {
		return "", g.Err
	}
	return g.Reply, nil
}

func (g *FakeGenerator) Name() string {
	if g.Provider == "" {
		return "fake"
	}
	return g.Provider
}

// Calls returns how many times Generate ran
func (g *FakeGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

// LastPrompt returns the most recent prompt, or "" when Generate never ran
func (g *FakeGenerator) LastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.prompts) == 0 {
		return ""
	}
	return g.prompts[len(g.prompts)-1]
}

// MemoryCache is an in-process analysis cache for tests
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]types.NutritionResult
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]types.NutritionResult)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (*types.NutritionResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	result.Source = types.SourceCache
	return &result, true, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, result *types.NutritionResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = *result
	return nil
}

// Len returns the number of cached entries
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// MealReply is a well-formed model reply describing a single 500 kcal bowl of beef noodles
const MealReply = `好的，这是分析结果：
{
  "food_items": [
    {
      "name": "Beef noodle soup",
      "name_cn": "牛肉面",
      "amount": "1",
      "unit": "碗",
      "calories": 500,
      "protein": 20,
      "carbs": 60,
      "fat": 15,
      "fiber": 2,
      "sugar": 3,
      "sodium": 900
    }
  ],
  "analysis_notes": "碳水化合物含量较高，钠含量偏高。",
  "ai_response": "一碗牛肉面大约500卡路里，记得多喝水哦 🍜"
}
希望对你有帮助！`
