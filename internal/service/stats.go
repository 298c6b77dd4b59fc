package service

import (
	"context"
	"time"

	"github.com/pageza/calai/backend/internal/models"
	"github.com/pageza/calai/backend/internal/types"
)

const dayLayout = "2006-01-02"

type StatsService struct {
	store ISessionStore
	loc   *time.Location
}

// NewStatsService creates an aggregation service. Calendar days are cut in loc.
func NewStatsService(store ISessionStore, loc *time.Location) IStatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &StatsService{store: store, loc: loc}
}

func (s *StatsService) Location() *time.Location {
	return s.loc
}

// DayKey formats t as a calendar day in loc
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayLayout)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// SumDay totals the entries that fall on day (a DayKey) in loc
func SumDay(entries []types.NutritionEntry, day string, loc *time.Location) types.DailyTotals {
	totals := types.DailyTotals{Date: day}
	for _, entry := range entries {
		if DayKey(entry.At, loc) != day {
			continue
		}
		totals.Calories += entry.Totals.TotalCalories
		totals.Protein += entry.Totals.TotalProtein
		totals.Carbs += entry.Totals.TotalCarbs
		totals.Fat += entry.Totals.TotalFat
		totals.Records++
	}
	return totals
}

// SummarizeWeek reduces entries into the seven days ending on end. The average is taken over
// days that have at least one record and is 0 when there are none.
func SummarizeWeek(entries []types.NutritionEntry, end time.Time, loc *time.Location) types.WeeklySummary {
	last := startOfDay(end, loc)
	first := last.AddDate(0, 0, -6)

	summary := types.WeeklySummary{
		StartDate: first.Format(dayLayout),
		EndDate:   last.Format(dayLayout),
		Days:      make([]types.DailyTotals, 0, 7),
	}
	for d := 0; d < 7; d++ {
		day := SumDay(entries, first.AddDate(0, 0, d).Format(dayLayout), loc)
		if day.Records > 0 {
			summary.DaysWithRecords++
		}
		summary.TotalCalories += day.Calories
		summary.Days = append(summary.Days, day)
	}
	if summary.DaysWithRecords > 0 {
		summary.AverageCalories = summary.TotalCalories / float64(summary.DaysWithRecords)
	}
	return summary
}

func toEntries(messages []models.Message) []types.NutritionEntry {
	entries := make([]types.NutritionEntry, 0, len(messages))
	for _, m := range messages {
		if m.NutritionData == nil {
			continue
		}
		n := m.NutritionData
		entries = append(entries, types.NutritionEntry{
			At: m.CreatedAt,
			Totals: types.Totals{
				TotalCalories: n.TotalCalories,
				TotalProtein:  n.TotalProtein,
				TotalCarbs:    n.TotalCarbs,
				TotalFat:      n.TotalFat,
				TotalFiber:    n.TotalFiber,
				TotalSugar:    n.TotalSugar,
				TotalSodium:   n.TotalSodium,
			},
		})
	}
	return entries
}

func (s *StatsService) DailyTotals(ctx context.Context, sessionID string, day time.Time) (*types.DailyTotals, error) {
	start := startOfDay(day, s.loc)
	messages, err := s.store.NutritionMessages(ctx, sessionID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	totals := SumDay(toEntries(messages), start.Format(dayLayout), s.loc)
	return &totals, nil
}

func (s *StatsService) WeeklySummary(ctx context.Context, sessionID string, end time.Time) (*types.WeeklySummary, error) {
	last := startOfDay(end, s.loc)
	messages, err := s.store.NutritionMessages(ctx, sessionID, last.AddDate(0, 0, -6), last.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	summary := SummarizeWeek(toEntries(messages), last, s.loc)
	return &summary, nil
}

// SessionSummary totals every nutrition record of a session and flattens its food items
func (s *StatsService) SessionSummary(ctx context.Context, sessionID string) (*types.SessionSummary, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	count, err := s.store.CountMessages(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	messages, err := s.store.NutritionMessages(ctx, sessionID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	summary := &types.SessionSummary{
		SessionID:          session.ID,
		CreatedAt:          session.CreatedAt,
		LastActivity:       session.LastActivity,
		MessageCount:       count,
		FoodItems:          []types.FoodItem{},
		TotalMealsAnalyzed: len(messages),
	}
	for _, m := range messages {
		n := m.NutritionData
		summary.DailyTotals.Calories += n.TotalCalories
		summary.DailyTotals.Protein += n.TotalProtein
		summary.DailyTotals.Carbs += n.TotalCarbs
		summary.DailyTotals.Fat += n.TotalFat
		summary.FoodItems = append(summary.FoodItems, FoodItemsFromModel(n.FoodItems)...)
	}
	summary.TotalCaloriesTracked = summary.DailyTotals.Calories

	return summary, nil
}

// FoodItemsFromModel converts stored food items to their API shape
func FoodItemsFromModel(items []models.FoodItem) []types.FoodItem {
	out := make([]types.FoodItem, 0, len(items))
	for _, item := range items {
		out = append(out, types.FoodItem{
			Name:     item.Name,
			NameCN:   item.NameCN,
			Amount:   item.Amount,
			Unit:     item.Unit,
			Calories: item.Calories,
			Protein:  item.Protein,
			Carbs:    item.Carbs,
			Fat:      item.Fat,
			Fiber:    item.Fiber,
			Sugar:    item.Sugar,
			Sodium:   item.Sodium,
		})
	}
	return out
}

// NutritionFromModel converts a stored record to the nutrition payload
func NutritionFromModel(info *models.NutritionInfo) *types.Nutrition {
	if info == nil {
		return nil
	}
	return &types.Nutrition{
		Totals: types.Totals{
			TotalCalories: info.TotalCalories,
			TotalProtein:  info.TotalProtein,
			TotalCarbs:    info.TotalCarbs,
			TotalFat:      info.TotalFat,
			TotalFiber:    info.TotalFiber,
			TotalSugar:    info.TotalSugar,
			TotalSodium:   info.TotalSodium,
		},
		FoodItems:     FoodItemsFromModel(info.FoodItems),
		AnalysisNotes: info.AnalysisNotes,
	}
}
