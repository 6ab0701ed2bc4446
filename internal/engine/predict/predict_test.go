package predict

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alchemorsel/menuplanner/internal/domain/menu"
	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	"github.com/alchemorsel/menuplanner/internal/domain/user"
)

func selection(id string, kcal, fiber, antiInflammatory, satisfaction float64, ingredients ...string) menu.EnrichedRecipe {
	r := recipe.Recipe{
		ID:                    id,
		Nutrition:             recipe.NutritionInfo{Calories: kcal, Fiber: fiber},
		AntiInflammatoryScore: antiInflammatory,
	}
	for _, n := range ingredients {
		r.Ingredients = append(r.Ingredients, recipe.Ingredient{Name: n, Quantity: 1})
	}
	return menu.EnrichedRecipe{Recipe: r, PredictedSatisfaction: satisfaction}
}

func menuOf(recipes ...menu.EnrichedRecipe) menu.Menu {
	slots := map[recipe.MealType][]menu.EnrichedRecipe{}
	order := []recipe.MealType{}
	for i, r := range recipes {
		slot := recipe.MealType(fmt.Sprintf("slot-%d", i))
		slots[slot] = []menu.EnrichedRecipe{r}
		order = append(order, slot)
	}
	return menu.NewMenu("m", order, slots)
}

func TestPredict_EmptyMenu(t *testing.T) {
	p := Predict(menu.Menu{}, user.Profile{DailyCalorieTarget: 2000})
	assert.Equal(t, menu.Prediction{
		PredictedEnergyLevel:            5,
		InflammationImpactScore:         0,
		BiomarkerImprovementProbability: 0.5,
		MicronutrientAdequacyScore:      0,
		MealSatisfactionPrediction:      5,
	}, p)
}

func TestEnergyLevel(t *testing.T) {
	tests := []struct {
		name    string
		recipes []menu.EnrichedRecipe
		want    float64
	}{
		{"Base", []menu.EnrichedRecipe{selection("a", 500, 2, 0, 5)}, 5},
		{"CaloriesWithinBand", []menu.EnrichedRecipe{selection("a", 1000, 2, 0, 5), selection("b", 600, 2, 0, 5)}, 6},
		{"CaloriesOutsideBand", []menu.EnrichedRecipe{selection("a", 1000, 2, 0, 5), selection("b", 1500, 2, 0, 5)}, 5},
		{"AllBonuses", []menu.EnrichedRecipe{selection("a", 900, 6, 6, 5), selection("b", 1100, 8, 8, 5)}, 8},
		{"FiberAtThreshold", []menu.EnrichedRecipe{selection("a", 100, 5, 5, 5)}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EnergyLevel(tt.recipes, 2000))
		})
	}
}

func TestInflammationImpact(t *testing.T) {
	assert.Equal(t, 4.0, InflammationImpact([]menu.EnrichedRecipe{selection("a", 0, 0, 10, 5), selection("b", 0, 0, -2, 5)}))
	assert.Equal(t, 10.0, InflammationImpact([]menu.EnrichedRecipe{selection("a", 0, 0, 15, 5)}))
	assert.Equal(t, -10.0, InflammationImpact([]menu.EnrichedRecipe{selection("a", 0, 0, -25, 5)}))
}

func TestBiomarkerImprovementProbability(t *testing.T) {
	a := selection("a", 0, 0, 0, 5)
	a.BiomarkerBenefits = map[menu.BiomarkerTag]float64{menu.TagAntiInflammatory: 80, menu.TagIronBoosting: 60}
	b := selection("b", 0, 0, 0, 5)
	b.BiomarkerBenefits = map[menu.BiomarkerTag]float64{menu.TagAntiInflammatory: 100}

	withMarkers := user.Profile{Biomarkers: &user.HealthBiomarkers{CRP: user.Reading(4)}}

	assert.InDelta(t, 0.8, BiomarkerImprovementProbability([]menu.EnrichedRecipe{a, b}, withMarkers), 1e-9)
	assert.Equal(t, 0.5, BiomarkerImprovementProbability([]menu.EnrichedRecipe{a, b}, user.Profile{}))
	assert.Equal(t, 0.5, BiomarkerImprovementProbability([]menu.EnrichedRecipe{selection("c", 0, 0, 0, 5)}, withMarkers))
}

func TestMicronutrientAdequacy(t *testing.T) {
	// 4 distinct ingredients (20 pts) + 2 nutrient dense (4 pts)
	recipes := []menu.EnrichedRecipe{
		selection("a", 0, 0, 0, 5, "Spinach", "rice"),
		selection("b", 0, 0, 0, 5, "spinach", "salmon", "lemon"),
	}
	assert.InDelta(t, 24.0, MicronutrientAdequacy(recipes), 1e-9)

	many := make([]string, 30)
	for i := range many {
		many[i] = fmt.Sprintf("ingredient %d", i)
	}
	assert.Equal(t, 100.0, MicronutrientAdequacy([]menu.EnrichedRecipe{selection("c", 0, 0, 0, 5, many...)}))
}

func TestPredict_Satisfaction(t *testing.T) {
	m := menuOf(selection("a", 700, 3, 2, 6), selection("b", 700, 3, 2, 9))
	p := Predict(m, user.Profile{DailyCalorieTarget: 1500})
	assert.InDelta(t, 7.5, p.MealSatisfactionPrediction, 1e-9)
	assert.Equal(t, 6.0, p.PredictedEnergyLevel)
	assert.Equal(t, 2.0, p.InflammationImpactScore)
}
