package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/calai/backend/internal/testhelpers"
	"github.com/pageza/calai/backend/internal/types"
)

const cleanReply = `{"food_items":[{"name":"Rice","name_cn":"米饭","amount":"1","unit":"碗","calories":200,"protein":4,"carbs":45,"fat":0.5,"fiber":1,"sugar":0,"sodium":5},{"name":"Egg","name_cn":"鸡蛋","amount":"2","unit":"个","calories":140,"protein":12,"carbs":1,"fat":10,"fiber":0,"sugar":1,"sodium":120}],"analysis_notes":"均衡","ai_response":"不错的一餐"}`

func TestParseNutrition(t *testing.T) {
	t.Run("clean JSON", func(t *testing.T) {
		result, err := ParseNutrition(cleanReply)
		require.NoError(t, err)

		require.Len(t, result.FoodItems, 2)
		assert.Equal(t, "米饭", result.FoodItems[0].NameCN)
		assert.InDelta(t, 340, result.TotalCalories, 1e-9)
		assert.InDelta(t, 16, result.TotalProtein, 1e-9)
		assert.InDelta(t, 125, result.TotalSodium, 1e-9)
		assert.Equal(t, "均衡", result.AnalysisNotes)
		assert.Equal(t, "不错的一餐", result.AIResponse)
		assert.Equal(t, types.SourceModel, result.Source)
	})

	t.Run("tolerates surrounding prose", func(t *testing.T) {
		clean, err := ParseNutrition(cleanReply)
		require.NoError(t, err)
		wrapped, err := ParseNutrition("blah blah " + cleanReply + " thanks")
		require.NoError(t, err)
		assert.Equal(t, clean, wrapped)
	})

	t.Run("idempotent on serialized result", func(t *testing.T) {
		first, err := ParseNutrition(testhelpers.MealReply)
		require.NoError(t, err)

		data, err := json.Marshal(first)
		require.NoError(t, err)

		second, err := ParseNutrition(string(data))
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("no braces", func(t *testing.T) {
		_, err := ParseNutrition("I could not analyze that meal, sorry.")
		assert.ErrorIs(t, err, ErrParse)

		_, err = ParseNutrition("} backwards {")
		assert.ErrorIs(t, err, ErrParse)

		_, err = ParseNutrition("")
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseNutrition(`{"food_items": [ {"name": "x", } ]}`)
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("food_items missing or not a list", func(t *testing.T) {
		_, err := ParseNutrition(`{"ai_response": "hi"}`)
		assert.ErrorIs(t, err, ErrParse)

		_, err = ParseNutrition(`{"food_items": {"name": "rice"}}`)
		assert.ErrorIs(t, err, ErrParse)

		_, err = ParseNutrition(`{"food_items": null}`)
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("empty list", func(t *testing.T) {
		result, err := ParseNutrition(`{"food_items": [], "ai_response": "你好！"}`)
		require.NoError(t, err)
		assert.Empty(t, result.FoodItems)
		assert.Equal(t, types.Totals{}, result.Totals)
	})

	t.Run("model totals are discarded", func(t *testing.T) {
		result, err := ParseNutrition(`{"total_calories": 9999, "food_items": [{"name": "apple", "calories": 95}]}`)
		require.NoError(t, err)
		assert.InDelta(t, 95, result.TotalCalories, 1e-9)
	})

	t.Run("defaults", func(t *testing.T) {
		result, err := ParseNutrition(`{"food_items": [{}]}`)
		require.NoError(t, err)
		assert.Equal(t, defaultAIResponse, result.AIResponse)
		assert.Equal(t, "", result.AnalysisNotes)
		require.Len(t, result.FoodItems, 1)
		assert.Equal(t, types.FoodItem{Name: "Unknown", Amount: "1", Unit: "serving"}, result.FoodItems[0])
	})

	t.Run("coerces numeric fields", func(t *testing.T) {
		result, err := ParseNutrition(`{"food_items": [
			{"name": "tea", "amount": 2, "calories": "35.5", "protein": -3, "carbs": "lots", "fat": null, "fiber": true, "sodium": " 12 "},
			"not an object",
			42
		]}`)
		require.NoError(t, err)
		require.Len(t, result.FoodItems, 3)

		tea := result.FoodItems[0]
		assert.Equal(t, "2", tea.Amount)
		assert.InDelta(t, 35.5, tea.Calories, 1e-9)
		assert.Zero(t, tea.Protein)
		assert.Zero(t, tea.Carbs)
		assert.Zero(t, tea.Fat)
		assert.Zero(t, tea.Fiber)
		assert.InDelta(t, 12, tea.Sodium, 1e-9)

		assert.Equal(t, "Unknown", result.FoodItems[1].Name)
		assert.Zero(t, result.FoodItems[1].Calories)
		assert.Zero(t, result.FoodItems[2].Calories)
		assert.InDelta(t, 35.5, result.TotalCalories, 1e-9)
	})

	t.Run("greedy brace span", func(t *testing.T) {
		// Braces in trailing prose extend the span and make the object undecodable
		_, err := ParseNutrition(cleanReply + " {note}")
		assert.ErrorIs(t, err, ErrParse)
	})
}

func TestFallback(t *testing.T) {
	result := Fallback()

	require.Len(t, result.FoodItems, 1)
	item := result.FoodItems[0]
	assert.Equal(t, "Estimated meal", item.Name)
	assert.Equal(t, "估算餐食", item.NameCN)
	assert.Equal(t, "1", item.Amount)
	assert.Equal(t, "serving", item.Unit)

	assert.InDelta(t, 500, result.TotalCalories, 1e-9)
	assert.InDelta(t, 20, result.TotalProtein, 1e-9)
	assert.InDelta(t, 50, result.TotalCarbs, 1e-9)
	assert.InDelta(t, 25, result.TotalFat, 1e-9)
	assert.InDelta(t, 5, result.TotalFiber, 1e-9)
	assert.InDelta(t, 10, result.TotalSugar, 1e-9)
	assert.InDelta(t, 800, result.TotalSodium, 1e-9)
	assert.NotEmpty(t, result.AIResponse)
	assert.Equal(t, types.SourceFallback, result.Source)

	// Same shape as a parsed result
	data, err := json.Marshal(result)
	require.NoError(t, err)
	parsed, err := ParseNutrition(string(data))
	require.NoError(t, err)
	assert.Equal(t, result.Nutrition, parsed.Nutrition)
}
