// Package gorm provides GORM model definitions for the application
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeModel represents the GORM model for catalog recipes
type RecipeModel struct {
	ID    string `gorm:"type:varchar(64);primaryKey"`
	Title string `gorm:"type:varchar(255);not null;index"`

	// Categorization
	MealTypes   []RecipeMealTypeModel `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Difficulty  string                `gorm:"type:varchar(20);index"`
	DietaryTags StringSlice           `gorm:"type:json"`

	// Timing (stored in minutes)
	PrepTimeMinutes  int `gorm:"column:prep_time_minutes;default:0"`
	CookTimeMinutes  int `gorm:"column:cook_time_minutes;default:0"`
	TotalTimeMinutes int `gorm:"column:total_time_minutes;default:0;index"`

	Nutrition   NutritionModel `gorm:"embedded;embeddedPrefix:nutrition_"`
	Ingredients IngredientList `gorm:"type:json"`

	AntiInflammatoryScore float64 `gorm:"default:0"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// RecipeMealTypeModel tags a recipe with one meal slot. Candidate queries
// filter on this table.
type RecipeMealTypeModel struct {
	RecipeID string `gorm:"type:varchar(64);primaryKey"`
	MealType string `gorm:"type:varchar(20);primaryKey;index"`
}

// NutritionModel is embedded into RecipeModel
type NutritionModel struct {
	Calories      float64
	Protein       float64
	Carbohydrates float64
	Fat           float64
	Fiber         float64
	Sugar         float64
	Sodium        float64
}

// IngredientRecord is the JSON shape of one ingredient line
type IngredientRecord struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity,omitempty"`
	Unit     string  `json:"unit,omitempty"`
}

// ProfileModel represents the GORM model for user health profiles
type ProfileModel struct {
	UserID             string      `gorm:"type:varchar(64);primaryKey"`
	DietaryPreferences StringSlice `gorm:"type:json"`
	SkillLevel         string      `gorm:"type:varchar(20)"`
	TimeTolerance      string      `gorm:"type:varchar(20)"`
	DailyCalorieTarget float64

	Biomarkers BiomarkersModel `gorm:"embedded;embeddedPrefix:biomarker_"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BiomarkersModel holds nullable lab readings
type BiomarkersModel struct {
	CRP              *float64
	TotalCholesterol *float64
	FastingGlucose   *float64
	VitaminD         *float64
	SerumIron        *float64
}

// LearningProfileModel represents the GORM model for accumulated learning state
type LearningProfileModel struct {
	UserID                 string   `gorm:"type:varchar(64);primaryKey"`
	MealPreferences        FloatMap `gorm:"type:json"`
	NoveltyTolerance       float64
	DietaryComplianceScore float64
	PreferenceConfidence   float64
	InteractionCount       int `gorm:"default:0"`
	UpdatedAt              time.Time
}

// ServedMealModel records one recipe served in a menu
type ServedMealModel struct {
	ID       uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID   string    `gorm:"type:varchar(64);not null;index:idx_served_user_time,priority:1"`
	ServedAt time.Time `gorm:"not null;index:idx_served_user_time,priority:2"`
	MenuID   string    `gorm:"type:char(36);not null;index"`
	RecipeID string    `gorm:"type:varchar(64);not null"`
	MealType string    `gorm:"type:varchar(20)"`
	Position int       `gorm:"default:0"`
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	return string(b), err
}

// IngredientList stores ingredient lines as a JSON array
type IngredientList []IngredientRecord

// Scan implements the sql.Scanner interface
func (l *IngredientList) Scan(value interface{}) error {
	if value == nil {
		*l = IngredientList{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into IngredientList", value)
	}
}

// Value implements the driver.Valuer interface
func (l IngredientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

// FloatMap stores ingredient affinities as a JSON object
type FloatMap map[string]float64

// Scan implements the sql.Scanner interface
func (m *FloatMap) Scan(value interface{}) error {
	if value == nil {
		*m = FloatMap{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into FloatMap", value)
	}
}

// Value implements the driver.Valuer interface
func (m FloatMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	return string(b), err
}

// BeforeCreate hook for ServedMealModel
func (s *ServedMealModel) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps the denormalized total in step with its parts
func (r *RecipeModel) BeforeSave(tx *gorm.DB) error {
	r.TotalTimeMinutes = r.PrepTimeMinutes + r.CookTimeMinutes
	return nil
}

// TableName methods for custom table names
func (RecipeModel) TableName() string {
	return "recipes"
}

func (RecipeMealTypeModel) TableName() string {
	return "recipe_meal_types"
}

func (ProfileModel) TableName() string {
	return "user_profiles"
}

func (LearningProfileModel) TableName() string {
	return "learning_profiles"
}

func (ServedMealModel) TableName() string {
	return "served_meals"
}

// AllModels lists every model for AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&RecipeModel{},
		&RecipeMealTypeModel{},
		&ProfileModel{},
		&LearningProfileModel{},
		&ServedMealModel{},
	}
}
