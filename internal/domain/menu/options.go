package menu

import (
	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
)

// Default selection weights
const (
	DefaultSeasonalWeight = 0.5
	DefaultNoveltyWeight  = 0.5
	DefaultMaxPerSlot     = 1
)

// SelectionOptions configures one menu generation.
type SelectionOptions struct {
	MealTypes             []recipe.MealType `json:"meal_types" validate:"required,min=1,dive,required"`
	OptimizeForBiomarkers bool              `json:"optimize_for_biomarkers"`
	SeasonalWeight        float64           `json:"seasonal_weight" validate:"gte=0,lte=1"`
	NoveltyWeight         float64           `json:"novelty_weight" validate:"gte=0,lte=1"`
	MaxPerSlot            int               `json:"max_per_slot" validate:"gte=1,lte=10"`
}

// NewSelectionOptions returns options with default weights for the given slots.
func NewSelectionOptions(mealTypes ...recipe.MealType) SelectionOptions {
	return SelectionOptions{
		MealTypes:      mealTypes,
		SeasonalWeight: DefaultSeasonalWeight,
		NoveltyWeight:  DefaultNoveltyWeight,
		MaxPerSlot:     DefaultMaxPerSlot,
	}
}

// NormalizedMealTypes returns the requested slots lowercased and de-duplicated,
// preserving request order.
func (o SelectionOptions) NormalizedMealTypes() []recipe.MealType {
	out := make([]recipe.MealType, 0, len(o.MealTypes))
	seen := make(map[recipe.MealType]bool, len(o.MealTypes))
	for _, mt := range o.MealTypes {
		n := recipe.NormalizeMealType(string(mt))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
