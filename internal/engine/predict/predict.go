// Package predict aggregates a selected menu into outcome predictions.
package predict

import (
	"math"

	"github.com/alchemorsel/menuplanner/internal/domain/menu"
	"github.com/alchemorsel/menuplanner/internal/domain/user"
	"github.com/alchemorsel/menuplanner/internal/engine/knowledge"
)

const (
	energyBase               = 5.0
	calorieTolerance         = 0.20
	fiberThresholdGrams      = 5.0
	antiInflammatoryBonusMin = 5.0
	defaultBiomarkerProb     = 0.5
	neutralSatisfaction      = 5.0
	distinctIngredientTarget = 20.0
	nutrientDensePoints      = 2.0
)

// Predict derives the five outcome fields from the selected recipes. It is a
// deterministic function of its inputs.
func Predict(m menu.Menu, profile user.Profile) menu.Prediction {
	recipes := m.Recipes()
	if len(recipes) == 0 {
		return menu.Prediction{
			PredictedEnergyLevel:            energyBase,
			InflammationImpactScore:         0,
			BiomarkerImprovementProbability: defaultBiomarkerProb,
			MicronutrientAdequacyScore:      0,
			MealSatisfactionPrediction:      neutralSatisfaction,
		}
	}

	return menu.Prediction{
		PredictedEnergyLevel:            EnergyLevel(recipes, profile.DailyCalorieTarget),
		InflammationImpactScore:         InflammationImpact(recipes),
		BiomarkerImprovementProbability: BiomarkerImprovementProbability(recipes, profile),
		MicronutrientAdequacyScore:      MicronutrientAdequacy(recipes),
		MealSatisfactionPrediction:      Satisfaction(recipes),
	}
}

// EnergyLevel is base 5 with calorie, fiber and anti-inflammatory bonuses,
// clamped to [1,10].
func EnergyLevel(recipes []menu.EnrichedRecipe, calorieTarget float64) float64 {
	var calories, fiber, inflammation float64
	for _, r := range recipes {
		calories += r.Nutrition.Calories
		fiber += r.Nutrition.Fiber
		inflammation += r.AntiInflammatoryScore
	}
	n := float64(len(recipes))

	score := energyBase
	if calorieTarget > 0 && math.Abs(calories-calorieTarget) <= calorieTolerance*calorieTarget {
		score++
	}
	if n > 0 && fiber/n > fiberThresholdGrams {
		score++
	}
	if n > 0 && inflammation/n > antiInflammatoryBonusMin {
		score++
	}
	return clamp(score, 1, 10)
}

// InflammationImpact is the mean catalog anti-inflammatory score, clamped to [-10,10].
func InflammationImpact(recipes []menu.EnrichedRecipe) float64 {
	if len(recipes) == 0 {
		return 0
	}
	var sum float64
	for _, r := range recipes {
		sum += r.AntiInflammatoryScore
	}
	return clamp(sum/float64(len(recipes)), -10, 10)
}

// BiomarkerImprovementProbability is the mean of every benefit value across the
// menu divided by 100. It is 0.5 when the user supplied no biomarkers or no
// recipe carries a benefit value.
func BiomarkerImprovementProbability(recipes []menu.EnrichedRecipe, profile user.Profile) float64 {
	if !profile.HasBiomarkers() {
		return defaultBiomarkerProb
	}
	var sum float64
	var count int
	for _, r := range recipes {
		for _, v := range r.BiomarkerBenefits {
			sum += v
			count++
		}
	}
	if count == 0 {
		return defaultBiomarkerProb
	}
	return clamp(sum/float64(count)/100, 0, 1)
}

// MicronutrientAdequacy rewards ingredient diversity and nutrient-dense
// ingredients: min(100, 100*distinct/20 + 2*denseMatches).
func MicronutrientAdequacy(recipes []menu.EnrichedRecipe) float64 {
	distinct := map[string]bool{}
	for _, r := range recipes {
		for _, n := range r.IngredientNames() {
			distinct[n] = true
		}
	}
	dense := 0
	for n := range distinct {
		if knowledge.IsNutrientDense(n) {
			dense++
		}
	}
	score := 100*float64(len(distinct))/distinctIngredientTarget + nutrientDensePoints*float64(dense)
	return math.Min(100, score)
}

// Satisfaction is the mean predicted satisfaction of the selections.
func Satisfaction(recipes []menu.EnrichedRecipe) float64 {
	if len(recipes) == 0 {
		return neutralSatisfaction
	}
	var sum float64
	for _, r := range recipes {
		sum += r.PredictedSatisfaction
	}
	return sum / float64(len(recipes))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
