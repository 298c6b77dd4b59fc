package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NutritionInfo is the stored nutrition record attached to an assistant message
type NutritionInfo struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TotalCalories float64    `gorm:"not null;default:0" json:"total_calories"`
	TotalProtein  float64    `gorm:"not null;default:0" json:"total_protein"`
	TotalCarbs    float64    `gorm:"not null;default:0" json:"total_carbs"`
	TotalFat      float64    `gorm:"not null;default:0" json:"total_fat"`
	TotalFiber    float64    `gorm:"not null;default:0" json:"total_fiber"`
	TotalSugar    float64    `gorm:"not null;default:0" json:"total_sugar"`
	TotalSodium   float64    `gorm:"not null;default:0" json:"total_sodium"`
	AnalysisNotes string     `gorm:"type:text" json:"analysis_notes"`
	FoodItems     []FoodItem `gorm:"foreignKey:NutritionInfoID;constraint:OnDelete:CASCADE" json:"food_items"`
	CreatedAt     time.Time  `json:"created_at"`
}

// TableName returns the table name for the NutritionInfo model
func (NutritionInfo) TableName() string {
	return "nutrition_info"
}

// BeforeCreate assigns a UUID when the caller did not
func (n *NutritionInfo) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// FoodItem is one line of a nutrition record. Position keeps the order the model returned.
type FoodItem struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	NutritionInfoID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position        int       `gorm:"not null;default:0" json:"-"`
	Name            string    `gorm:"size:255;not null;index:ix_food_items_name" json:"name"`
	NameCN          string    `gorm:"size:255" json:"name_cn"`
	Amount          string    `gorm:"size:64;not null" json:"amount"`
	Unit            string    `gorm:"size:64" json:"unit"`
	Calories        float64   `gorm:"not null;default:0" json:"calories"`
	Protein         float64   `gorm:"not null;default:0" json:"protein"`
	Carbs           float64   `gorm:"not null;default:0" json:"carbs"`
	Fat             float64   `gorm:"not null;default:0" json:"fat"`
	Fiber           float64   `gorm:"not null;default:0" json:"fiber"`
	Sugar           float64   `gorm:"not null;default:0" json:"sugar"`
	Sodium          float64   `gorm:"not null;default:0" json:"sodium"`
}

// TableName returns the table name for the FoodItem model
func (FoodItem) TableName() string {
	return "food_items"
}

// BeforeCreate assigns a UUID when the caller did not
func (f *FoodItem) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// AllModels lists every table managed by AutoMigrate, parents first
func AllModels() []interface{} {
	return []interface{}{
		&Session{},
		&NutritionInfo{},
		&FoodItem{},
		&Message{},
	}
}
