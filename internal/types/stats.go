package types

import "time"

// DailyTotals are the four headline nutrients summed over one calendar day
type DailyTotals struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Records  int     `json:"records"`
}

// WeeklySummary covers the seven days ending on EndDate
type WeeklySummary struct {
	StartDate       string        `json:"start_date"`
	EndDate         string        `json:"end_date"`
	Days            []DailyTotals `json:"days"`
	DaysWithRecords int           `json:"days_with_records"`
	TotalCalories   float64       `json:"total_calories"`
	AverageCalories float64       `json:"average_calories"`
}

// SessionTotals are the session-wide totals shown in a session summary
type SessionTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// SessionSummary is returned by GET /api/session-summary/:session_id
type SessionSummary struct {
	SessionID    string        `json:"session_id"`
	CreatedAt    time.Time     `json:"created_at"`
	LastActivity time.Time     `json:"last_activity"`
	MessageCount int64         `json:"message_count"`
	DailyTotals  SessionTotals `json:"daily_totals"`
	FoodItems    []FoodItem    `json:"food_items"`

	TotalMealsAnalyzed   int     `json:"total_meals_analyzed"`
	TotalCaloriesTracked float64 `json:"total_calories_tracked"`
}

// NutritionEntry is one stored nutrition record with its timestamp, the input to aggregation
type NutritionEntry struct {
	At     time.Time
	Totals Totals
}
