package types

// Language is the reply-language directive a client may request
type Language string

const (
	LanguageAuto    Language = "auto"
	LanguageChinese Language = "zh"
	LanguageEnglish Language = "en"
)

// ParseLanguage maps a request value to a Language. Empty means auto.
func ParseLanguage(raw string) (Language, bool) {
	switch Language(raw) {
	case "", LanguageAuto:
		return LanguageAuto, true
	case LanguageChinese:
		return LanguageChinese, true
	case LanguageEnglish:
		return LanguageEnglish, true
	}
	return "", false
}

// Source records where a nutrition result came from
type Source string

const (
	SourceModel    Source = "model"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

// FoodItem is one food line of a nutrition estimate
type FoodItem struct {
	Name     string  `json:"name"`
	NameCN   string  `json:"name_cn"`
	Amount   string  `json:"amount"`
	Unit     string  `json:"unit"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
}

// Totals holds the seven summed nutrient fields
type Totals struct {
	TotalCalories float64 `json:"total_calories"`
	TotalProtein  float64 `json:"total_protein"`
	TotalCarbs    float64 `json:"total_carbs"`
	TotalFat      float64 `json:"total_fat"`
	TotalFiber    float64 `json:"total_fiber"`
	TotalSugar    float64 `json:"total_sugar"`
	TotalSodium   float64 `json:"total_sodium"`
}

// ComputeTotals sums every nutrient field across items. An empty list yields zero totals.
func ComputeTotals(items []FoodItem) Totals {
	var t Totals
	for _, item := range items {
		t.TotalCalories += item.Calories
		t.TotalProtein += item.Protein
		t.TotalCarbs += item.Carbs
		t.TotalFat += item.Fat
		t.TotalFiber += item.Fiber
		t.TotalSugar += item.Sugar
		t.TotalSodium += item.Sodium
	}
	return t
}

// Nutrition is the nutrition payload returned to clients
type Nutrition struct {
	Totals
	FoodItems     []FoodItem `json:"food_items"`
	AnalysisNotes string     `json:"analysis_notes"`
}

// NutritionResult is a parsed or fallback analysis. Totals always equal ComputeTotals(FoodItems).
type NutritionResult struct {
	Nutrition
	AIResponse string `json:"ai_response"`
	Source     Source `json:"-"`
}

// NewNutritionResult builds a result with totals recomputed from items
func NewNutritionResult(items []FoodItem, notes, aiResponse string, source Source) *NutritionResult {
	if items == nil {
		items = []FoodItem{}
	}
	return &NutritionResult{
		Nutrition: Nutrition{
			Totals:        ComputeTotals(items),
			FoodItems:     items,
			AnalysisNotes: notes,
		},
		AIResponse: aiResponse,
		Source:     source,
	}
}
