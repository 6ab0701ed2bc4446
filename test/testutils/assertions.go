// Package testutils provides custom assertions and testing utilities
package testutils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alchemorsel/menuplanner/internal/domain/menu"
	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
)

// MenuAssertions provides menu-specific assertion methods
type MenuAssertions struct {
	t *testing.T
}

// NewMenuAssertions creates a new menu assertions helper
func NewMenuAssertions(t *testing.T) *MenuAssertions {
	return &MenuAssertions{t: t}
}

// WellFormed asserts the structural guarantees every generated menu carries:
// filled slots only, no slot over maxPerSlot, every pick tagged for its slot,
// no recipe repeated within a slot, and totals matching the picks.
func (ma *MenuAssertions) WellFormed(m menu.Menu, maxPerSlot int) {
	ma.t.Helper()

	assert.Len(ma.t, m.Slots, len(m.SlotOrder), "slot order must list exactly the filled slots")
	var calories float64
	count := 0
	for _, slot := range m.SlotOrder {
		picks := m.Slots[slot]
		assert.NotEmpty(ma.t, picks, "slot %s is listed but empty", slot)
		assert.LessOrEqual(ma.t, len(picks), maxPerSlot, "slot %s exceeds %d picks", slot, maxPerSlot)

		seen := make(map[string]bool, len(picks))
		for _, pick := range picks {
			assert.True(ma.t, pick.HasMealType(slot), "%s is not tagged for %s", pick.ID, slot)
			assert.False(ma.t, seen[pick.ID], "%s repeated in %s", pick.ID, slot)
			seen[pick.ID] = true
			calories += pick.Nutrition.Calories
			count++
		}
	}
	assert.Equal(ma.t, count, m.Totals.RecipeCount)
	assert.InDelta(ma.t, calories, m.Totals.Calories, 1e-6)
}

// SlotOrder asserts the filled slots in order
func (ma *MenuAssertions) SlotOrder(m menu.Menu, want ...recipe.MealType) {
	ma.t.Helper()
	assert.Equal(ma.t, want, m.SlotOrder)
}

// Picked asserts that the slot's first choice is the given recipe
func (ma *MenuAssertions) Picked(m menu.Menu, slot recipe.MealType, recipeID string) {
	ma.t.Helper()
	picks := m.Slots[slot]
	if assert.NotEmpty(ma.t, picks, "slot %s is empty", slot) {
		assert.Equal(ma.t, recipeID, picks[0].ID, "unexpected first choice for %s", slot)
	}
}

// ScoresInRange asserts the bounds of every enriched score in the menu
func (ma *MenuAssertions) ScoresInRange(m menu.Menu) {
	ma.t.Helper()
	for _, pick := range m.Recipes() {
		assert.GreaterOrEqual(ma.t, pick.PersonalizationScore, 0.0, pick.ID)
		assert.LessOrEqual(ma.t, pick.PersonalizationScore, 100.0, pick.ID)
		assert.GreaterOrEqual(ma.t, pick.PredictedSatisfaction, 1.0, pick.ID)
		assert.LessOrEqual(ma.t, pick.PredictedSatisfaction, 10.0, pick.ID)
		assert.GreaterOrEqual(ma.t, pick.SeasonalAppropriateness, 0.0, pick.ID)
		assert.LessOrEqual(ma.t, pick.SeasonalAppropriateness, 100.0, pick.ID)
		assert.GreaterOrEqual(ma.t, pick.NoveltyScore, 0.0, pick.ID)
		assert.LessOrEqual(ma.t, pick.NoveltyScore, 100.0, pick.ID)
		assert.GreaterOrEqual(ma.t, pick.ScientificEvidenceScore, 0.0, pick.ID)
		assert.LessOrEqual(ma.t, pick.ScientificEvidenceScore, 100.0, pick.ID)
		for tag, benefit := range pick.BiomarkerBenefits {
			assert.GreaterOrEqual(ma.t, benefit, 0.0, "%s %s", pick.ID, tag)
			assert.LessOrEqual(ma.t, benefit, 100.0, "%s %s", pick.ID, tag)
		}
	}
}

// PredictionsInRange asserts the documented range of each prediction
func (ma *MenuAssertions) PredictionsInRange(p menu.Prediction) {
	ma.t.Helper()
	assert.GreaterOrEqual(ma.t, p.PredictedEnergyLevel, 1.0)
	assert.LessOrEqual(ma.t, p.PredictedEnergyLevel, 10.0)
	assert.GreaterOrEqual(ma.t, p.InflammationImpactScore, -10.0)
	assert.LessOrEqual(ma.t, p.InflammationImpactScore, 10.0)
	assert.GreaterOrEqual(ma.t, p.BiomarkerImprovementProbability, 0.0)
	assert.LessOrEqual(ma.t, p.BiomarkerImprovementProbability, 1.0)
	assert.GreaterOrEqual(ma.t, p.MicronutrientAdequacyScore, 0.0)
	assert.LessOrEqual(ma.t, p.MicronutrientAdequacyScore, 100.0)
	assert.GreaterOrEqual(ma.t, p.MealSatisfactionPrediction, 1.0)
	assert.LessOrEqual(ma.t, p.MealSatisfactionPrediction, 10.0)
}
