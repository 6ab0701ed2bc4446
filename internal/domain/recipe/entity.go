// Package recipe contains the catalog records the menu engine scores.
// Recipes are immutable once loaded from the catalog; the engine never mutates them.
package recipe

import (
	"strings"
)

// Recipe is an immutable catalog record.
type Recipe struct {
	ID    string
	Title string

	// Categorization
	MealTypes   []MealType
	Difficulty  DifficultyLevel
	DietaryTags []string

	// Timing in minutes
	PrepTimeMinutes int
	CookTimeMinutes int

	// Per-serving values
	Nutrition NutritionInfo

	Ingredients []Ingredient

	// AntiInflammatoryScore is assigned at catalog time, range [-10, 10].
	AntiInflammatoryScore float64
}

// TotalTimeMinutes returns prep plus cook time.
func (r Recipe) TotalTimeMinutes() int {
	return r.PrepTimeMinutes + r.CookTimeMinutes
}

// HasMealType reports whether the recipe is tagged for the given slot.
func (r Recipe) HasMealType(slot MealType) bool {
	for _, mt := range r.MealTypes {
		if NormalizeMealType(string(mt)) == slot {
			return true
		}
	}
	return false
}

// IngredientNames returns the normalized ingredient names in catalog order.
// Blank names are skipped.
func (r Recipe) IngredientNames() []string {
	names := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if n := NormalizeName(ing.Name); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// HasDietaryTag reports whether the recipe carries the tag (case-insensitive).
func (r Recipe) HasDietaryTag(tag string) bool {
	tag = NormalizeName(tag)
	if tag == "" {
		return false
	}
	for _, t := range r.DietaryTags {
		if NormalizeName(t) == tag {
			return true
		}
	}
	return false
}

// Validate checks catalog invariants. The engine tolerates invalid records;
// validation runs when records enter the store.
func (r Recipe) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrMissingID
	}
	if len(r.Title) < 3 {
		return ErrTitleTooShort
	}
	if len(r.Title) > 200 {
		return ErrTitleTooLong
	}
	if r.PrepTimeMinutes < 0 || r.CookTimeMinutes < 0 {
		return ErrNegativeTime
	}
	if r.AntiInflammatoryScore < MinAntiInflammatoryScore || r.AntiInflammatoryScore > MaxAntiInflammatoryScore {
		return ErrAntiInflammatoryOutOfRange
	}
	for _, mt := range r.MealTypes {
		if !NormalizeMealType(string(mt)).IsKnown() {
			return ErrUnknownMealType
		}
	}
	for _, ing := range r.Ingredients {
		if err := ing.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// NormalizeName lowercases and trims an ingredient or tag name. It is the key
// used for affinities and ingredient overlap everywhere.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
