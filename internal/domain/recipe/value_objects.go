package recipe

import (
	"errors"
	"strings"
)

// Value Objects - Immutable objects that describe aspects of a recipe

// Ingredient represents an ingredient line in a recipe
type Ingredient struct {
	Name     string
	Quantity float64
	Unit     MeasurementUnit
}

// Validate validates the ingredient
func (i Ingredient) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return errors.New("ingredient name is required")
	}
	if i.Quantity < 0 {
		return errors.New("ingredient quantity cannot be negative")
	}
	return nil
}

// NutritionInfo contains per-serving nutritional information
type NutritionInfo struct {
	Calories      float64
	Protein       float64 // in grams
	Carbohydrates float64 // in grams
	Fat           float64 // in grams
	Fiber         float64 // in grams
	Sugar         float64 // in grams
	Sodium        float64 // in milligrams
}

// Anti-inflammatory score bounds
const (
	MinAntiInflammatoryScore = -10.0
	MaxAntiInflammatoryScore = 10.0
)

// MeasurementUnit represents units of measurement
type MeasurementUnit string

const (
	// Volume units
	MeasurementUnitTeaspoon   MeasurementUnit = "tsp"
	MeasurementUnitTablespoon MeasurementUnit = "tbsp"
	MeasurementUnitCup        MeasurementUnit = "cup"
	MeasurementUnitMilliliter MeasurementUnit = "ml"

	// Weight units
	MeasurementUnitGram     MeasurementUnit = "g"
	MeasurementUnitKilogram MeasurementUnit = "kg"
	MeasurementUnitOunce    MeasurementUnit = "oz"

	// Count units
	MeasurementUnitPiece MeasurementUnit = "piece"
	MeasurementUnitPinch MeasurementUnit = "pinch"
)

// MealType names a meal slot
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// NormalizeMealType lowercases and trims a slot name.
func NormalizeMealType(raw string) MealType {
	return MealType(NormalizeName(raw))
}

// IsKnown reports whether the slot is one of the four catalog slots.
func (m MealType) IsKnown() bool {
	switch m {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack:
		return true
	}
	return false
}

// DifficultyLevel represents recipe difficulty
type DifficultyLevel string

const (
	DifficultyLevelEasy   DifficultyLevel = "easy"
	DifficultyLevelMedium DifficultyLevel = "medium"
	DifficultyLevelHard   DifficultyLevel = "hard"
)

// Rank returns the ordinal of the difficulty: easy=1, medium=2, hard=3.
// Unknown or empty difficulty ranks as easy.
func (d DifficultyLevel) Rank() int {
	switch DifficultyLevel(NormalizeName(string(d))) {
	case DifficultyLevelMedium:
		return 2
	case DifficultyLevelHard:
		return 3
	default:
		return 1
	}
}
