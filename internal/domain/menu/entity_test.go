package menu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
)

func enriched(id string, kcal, fiber float64) EnrichedRecipe {
	return EnrichedRecipe{Recipe: recipe.Recipe{
		ID:        id,
		Title:     "Recipe " + id,
		Nutrition: recipe.NutritionInfo{Calories: kcal, Fiber: fiber, Protein: 10},
	}}
}

func TestNewMenu(t *testing.T) {
	slots := map[recipe.MealType][]EnrichedRecipe{
		recipe.MealTypeDinner:    {enriched("d1", 600, 8)},
		recipe.MealTypeBreakfast: {enriched("b1", 350, 4)},
		recipe.MealTypeLunch:     nil,
	}
	requested := []recipe.MealType{
		recipe.MealTypeBreakfast, recipe.MealTypeLunch, recipe.MealTypeDinner, recipe.MealTypeBreakfast,
	}

	m := NewMenu("m-1", requested, slots)

	assert.Equal(t, []recipe.MealType{recipe.MealTypeBreakfast, recipe.MealTypeDinner}, m.SlotOrder)
	assert.NotContains(t, m.Slots, recipe.MealTypeLunch)
	assert.Equal(t, 950.0, m.Totals.Calories)
	assert.Equal(t, 12.0, m.Totals.Fiber)
	assert.Equal(t, 20.0, m.Totals.Protein)
	assert.Equal(t, 2, m.Totals.RecipeCount)

	recipes := m.Recipes()
	require.Len(t, recipes, 2)
	assert.Equal(t, "b1", recipes[0].ID)
	assert.Equal(t, "d1", recipes[1].ID)
	assert.False(t, m.IsEmpty())
	assert.True(t, NewMenu("m-2", requested, nil).IsEmpty())
}

func TestMeanBiomarkerBenefit(t *testing.T) {
	var e EnrichedRecipe
	assert.Equal(t, 0.0, e.MeanBiomarkerBenefit())

	e.BiomarkerBenefits = map[BiomarkerTag]float64{TagAntiInflammatory: 50, TagIronBoosting: 0}
	assert.Equal(t, 25.0, e.MeanBiomarkerBenefit())
}

func TestSelectionOptions(t *testing.T) {
	opts := NewSelectionOptions("Dinner", " lunch", "dinner", "")
	assert.Equal(t, DefaultSeasonalWeight, opts.SeasonalWeight)
	assert.Equal(t, DefaultNoveltyWeight, opts.NoveltyWeight)
	assert.Equal(t, 1, opts.MaxPerSlot)
	assert.False(t, opts.OptimizeForBiomarkers)
	assert.Equal(t, []recipe.MealType{recipe.MealTypeDinner, recipe.MealTypeLunch}, opts.NormalizedMealTypes())
}

func TestErrors(t *testing.T) {
	var err error = &NoCandidatesError{MissingSlots: []recipe.MealType{recipe.MealTypeDinner, recipe.MealTypeSnack}}
	assert.EqualError(t, err, "no candidates for meal slots: dinner, snack")

	var nc *NoCandidatesError
	require.True(t, errors.As(err, &nc))
	assert.Equal(t, []string{"dinner", "snack"}, nc.SlotNames())

	err = &InvalidOptionsError{Field: "SeasonalWeight", Value: 1.5, Reason: "must be within [0,1]"}
	assert.EqualError(t, err, "invalid selection option SeasonalWeight=1.5: must be within [0,1]")
	assert.Equal(t, []OptionViolation{{Field: "SeasonalWeight", Value: 1.5, Reason: "must be within [0,1]"}},
		err.(*InvalidOptionsError).All())

	multi := &InvalidOptionsError{
		Field: "SeasonalWeight", Value: 1.5, Reason: "must be <= 1",
		Violations: []OptionViolation{
			{Field: "SeasonalWeight", Value: 1.5, Reason: "must be <= 1"},
			{Field: "NoveltyWeight", Value: -0.1, Reason: "must be >= 0"},
		},
	}
	assert.EqualError(t, multi, "invalid selection option SeasonalWeight=1.5: must be <= 1 (and 1 more)")
	assert.Len(t, multi.All(), 2)
}
