package service

import "github.com/pageza/calai/backend/internal/types"

// Fallback returns the fixed placeholder estimate used when the provider is unavailable or
// its reply cannot be parsed.
func Fallback() *types.NutritionResult {
	return types.NewNutritionResult(
		[]types.FoodItem{{
			Name:     "Estimated meal",
			NameCN:   "估算餐食",
			Amount:   "1",
			Unit:     "serving",
			Calories: 500,
			Protein:  20,
			Carbs:    50,
			Fat:      25,
			Fiber:    5,
			Sugar:    10,
			Sodium:   800,
		}},
		"This is an estimated nutritional breakdown. For more accurate results, please provide specific food items and quantities.",
		"I've provided an estimated nutritional breakdown for your meal. To get more accurate results, please describe specific food items and their quantities.",
		types.SourceFallback,
	)
}
