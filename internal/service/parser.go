package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pageza/calai/backend/internal/types"
)

const (
	defaultAIResponse = "已为您分析营养信息"
	defaultItemName   = "Unknown"
	defaultItemAmount = "1"
	defaultItemUnit   = "serving"
)

// flexFloat accepts JSON numbers and numeric strings. Anything else, and negative or
// non-finite values, decode to 0.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	*f = 0

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat(sanitize(num))
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if num, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			*f = flexFloat(sanitize(num))
		}
	}
	return nil
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// flexString accepts JSON strings and numbers ("amount": 1 becomes "1")
type flexString struct {
	Value string
	Set   bool
}

func (s *flexString) UnmarshalJSON(data []byte) error {
	*s = flexString{}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString{Value: str, Set: true}
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*s = flexString{Value: strconv.FormatFloat(num, 'f', -1, 64), Set: true}
	}
	return nil
}

func (s flexString) or(fallback string) string {
	if !s.Set || strings.TrimSpace(s.Value) == "" {
		return fallback
	}
	return s.Value
}

type rawFoodItem struct {
	Name     flexString `json:"name"`
	NameCN   flexString `json:"name_cn"`
	Amount   flexString `json:"amount"`
	Unit     flexString `json:"unit"`
	Calories flexFloat  `json:"calories"`
	Protein  flexFloat  `json:"protein"`
	Carbs    flexFloat  `json:"carbs"`
	Fat      flexFloat  `json:"fat"`
	Fiber    flexFloat  `json:"fiber"`
	Sugar    flexFloat  `json:"sugar"`
	Sodium   flexFloat  `json:"sodium"`
}

func (r rawFoodItem) toFoodItem() types.FoodItem {
	return types.FoodItem{
		Name:     r.Name.or(defaultItemName),
		NameCN:   r.NameCN.Value,
		Amount:   r.Amount.or(defaultItemAmount),
		Unit:     r.Unit.or(defaultItemUnit),
		Calories: float64(r.Calories),
		Protein:  float64(r.Protein),
		Carbs:    float64(r.Carbs),
		Fat:      float64(r.Fat),
		Fiber:    float64(r.Fiber),
		Sugar:    float64(r.Sugar),
		Sodium:   float64(r.Sodium),
	}
}

// ExtractJSONObject returns the text between the first '{' and the last '}' inclusive
func ExtractJSONObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}

// ParseNutrition extracts a nutrition estimate from a model reply. Prose around the JSON
// object is ignored and totals are always recomputed from the items.
func ParseNutrition(raw string) (*types.NutritionResult, error) {
	object, ok := ExtractJSONObject(raw)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in reply", ErrParse)
	}

	var payload struct {
		FoodItems     json.RawMessage `json:"food_items"`
		AnalysisNotes flexString      `json:"analysis_notes"`
		AIResponse    flexString      `json:"ai_response"`
	}
	if err := json.Unmarshal([]byte(object), &payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode reply: %v", ErrParse, err)
	}

	var rawItems []json.RawMessage
	if len(payload.FoodItems) == 0 {
		return nil, fmt.Errorf("%w: food_items is missing", ErrParse)
	}
	if err := json.Unmarshal(payload.FoodItems, &rawItems); err != nil || rawItems == nil {
		return nil, fmt.Errorf("%w: food_items is not a list", ErrParse)
	}

	items := make([]types.FoodItem, 0, len(rawItems))
	for _, rawItem := range rawItems {
		var item rawFoodItem
		// Non-object elements keep their zero values
		_ = json.Unmarshal(rawItem, &item)
		items = append(items, item.toFoodItem())
	}

	return types.NewNutritionResult(
		items,
		payload.AnalysisNotes.Value,
		payload.AIResponse.or(defaultAIResponse),
		types.SourceModel,
	), nil
}
