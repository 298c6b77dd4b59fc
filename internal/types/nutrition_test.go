package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		assert.Equal(t, Totals{}, ComputeTotals(nil))
		assert.Equal(t, Totals{}, ComputeTotals([]FoodItem{}))
	})

	t.Run("sums every field", func(t *testing.T) {
		items := []FoodItem{
			{Name: "rice", Calories: 200, Protein: 4, Carbs: 45, Fat: 0.5, Fiber: 1, Sugar: 0.1, Sodium: 2},
			{Name: "egg", Calories: 70, Protein: 6, Carbs: 0.5, Fat: 5, Fiber: 0, Sugar: 0.2, Sodium: 60},
		}
		totals := ComputeTotals(items)
		assert.InDelta(t, 270, totals.TotalCalories, 1e-9)
		assert.InDelta(t, 10, totals.TotalProtein, 1e-9)
		assert.InDelta(t, 45.5, totals.TotalCarbs, 1e-9)
		assert.InDelta(t, 5.5, totals.TotalFat, 1e-9)
		assert.InDelta(t, 1, totals.TotalFiber, 1e-9)
		assert.InDelta(t, 0.3, totals.TotalSugar, 1e-9)
		assert.InDelta(t, 62, totals.TotalSodium, 1e-9)
	})
}

func TestNewNutritionResult(t *testing.T) {
	result := NewNutritionResult(nil, "", "ok", SourceModel)
	assert.NotNil(t, result.FoodItems)
	assert.Empty(t, result.FoodItems)
	assert.Equal(t, Totals{}, result.Totals)
	assert.Equal(t, SourceModel, result.Source)
}

func TestParseLanguage(t *testing.T) {
	cases := map[string]Language{"": LanguageAuto, "auto": LanguageAuto, "zh": LanguageChinese, "en": LanguageEnglish}
	for raw, want := range cases {
		got, ok := ParseLanguage(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got)
	}

	_, ok := ParseLanguage("fr")
	assert.False(t, ok)
}
