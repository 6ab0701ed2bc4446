// Package gorm provides mapping between domain entities and GORM models
package gorm

import (
	"sort"

	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	"github.com/alchemorsel/menuplanner/internal/domain/user"
)

// RecipeToModel converts a domain recipe to a GORM model
func RecipeToModel(r recipe.Recipe) *RecipeModel {
	model := &RecipeModel{
		ID:                    r.ID,
		Title:                 r.Title,
		Difficulty:            string(r.Difficulty),
		DietaryTags:           append(StringSlice{}, r.DietaryTags...),
		PrepTimeMinutes:       r.PrepTimeMinutes,
		CookTimeMinutes:       r.CookTimeMinutes,
		TotalTimeMinutes:      r.TotalTimeMinutes(),
		AntiInflammatoryScore: r.AntiInflammatoryScore,
		Nutrition: NutritionModel{
			Calories:      r.Nutrition.Calories,
			Protein:       r.Nutrition.Protein,
			Carbohydrates: r.Nutrition.Carbohydrates,
			Fat:           r.Nutrition.Fat,
			Fiber:         r.Nutrition.Fiber,
			Sugar:         r.Nutrition.Sugar,
			Sodium:        r.Nutrition.Sodium,
		},
	}

	seen := make(map[recipe.MealType]bool, len(r.MealTypes))
	for _, mt := range r.MealTypes {
		slot := recipe.NormalizeMealType(string(mt))
		if slot == "" || seen[slot] {
			continue
		}
		seen[slot] = true
		model.MealTypes = append(model.MealTypes, RecipeMealTypeModel{RecipeID: r.ID, MealType: string(slot)})
	}

	model.Ingredients = make(IngredientList, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		model.Ingredients = append(model.Ingredients, IngredientRecord{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     string(ing.Unit),
		})
	}
	return model
}

// ModelToRecipe converts a GORM model to a domain recipe
func ModelToRecipe(model *RecipeModel) recipe.Recipe {
	r := recipe.Recipe{
		ID:                    model.ID,
		Title:                 model.Title,
		Difficulty:            recipe.DifficultyLevel(model.Difficulty),
		DietaryTags:           append([]string(nil), model.DietaryTags...),
		PrepTimeMinutes:       model.PrepTimeMinutes,
		CookTimeMinutes:       model.CookTimeMinutes,
		AntiInflammatoryScore: model.AntiInflammatoryScore,
		Nutrition: recipe.NutritionInfo{
			Calories:      model.Nutrition.Calories,
			Protein:       model.Nutrition.Protein,
			Carbohydrates: model.Nutrition.Carbohydrates,
			Fat:           model.Nutrition.Fat,
			Fiber:         model.Nutrition.Fiber,
			Sugar:         model.Nutrition.Sugar,
			Sodium:        model.Nutrition.Sodium,
		},
	}

	for _, mt := range model.MealTypes {
		r.MealTypes = append(r.MealTypes, recipe.MealType(mt.MealType))
	}
	sortMealTypes(r.MealTypes)

	r.Ingredients = make([]recipe.Ingredient, 0, len(model.Ingredients))
	for _, ing := range model.Ingredients {
		r.Ingredients = append(r.Ingredients, recipe.Ingredient{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     recipe.MeasurementUnit(ing.Unit),
		})
	}
	return r
}

// slotRank orders meal types breakfast → snack
var slotRank = map[recipe.MealType]int{
	recipe.MealTypeBreakfast: 0,
	recipe.MealTypeLunch:     1,
	recipe.MealTypeDinner:    2,
	recipe.MealTypeSnack:     3,
}

func sortMealTypes(types []recipe.MealType) {
	rank := func(mt recipe.MealType) int {
		if r, ok := slotRank[mt]; ok {
			return r
		}
		return len(slotRank)
	}
	sort.SliceStable(types, func(i, j int) bool {
		if rank(types[i]) != rank(types[j]) {
			return rank(types[i]) < rank(types[j])
		}
		return types[i] < types[j]
	})
}

// ProfileToModel converts a domain health profile to a GORM model
func ProfileToModel(p user.Profile) *ProfileModel {
	model := &ProfileModel{
		UserID:             p.UserID,
		DietaryPreferences: append(StringSlice{}, p.DietaryPreferences...),
		SkillLevel:         string(p.SkillLevel),
		TimeTolerance:      string(p.TimeTolerance),
		DailyCalorieTarget: p.DailyCalorieTarget,
	}
	if b := p.Biomarkers; b != nil {
		model.Biomarkers = BiomarkersModel{
			CRP:              b.CRP,
			TotalCholesterol: b.TotalCholesterol,
			FastingGlucose:   b.FastingGlucose,
			VitaminD:         b.VitaminD,
			SerumIron:        b.SerumIron,
		}
	}
	return model
}

// ModelToProfile converts a GORM model to a domain health profile. A row with
// no readings yields a profile without biomarkers.
func ModelToProfile(model *ProfileModel) user.Profile {
	p := user.Profile{
		UserID:             model.UserID,
		DietaryPreferences: append([]string(nil), model.DietaryPreferences...),
		SkillLevel:         user.CookingLevel(model.SkillLevel),
		TimeTolerance:      user.PrepTimeTolerance(model.TimeTolerance),
		DailyCalorieTarget: model.DailyCalorieTarget,
	}
	b := model.Biomarkers
	if b.CRP != nil || b.TotalCholesterol != nil || b.FastingGlucose != nil || b.VitaminD != nil || b.SerumIron != nil {
		p.Biomarkers = &user.HealthBiomarkers{
			CRP:              b.CRP,
			TotalCholesterol: b.TotalCholesterol,
			FastingGlucose:   b.FastingGlucose,
			VitaminD:         b.VitaminD,
			SerumIron:        b.SerumIron,
		}
	}
	return p
}

// LearningToModel converts a learning profile to a GORM model
func LearningToModel(userID string, l user.LearningProfile) *LearningProfileModel {
	prefs := make(FloatMap, len(l.MealPreferencesLearned))
	for k, v := range l.MealPreferencesLearned {
		prefs[k] = v
	}
	return &LearningProfileModel{
		UserID:                 userID,
		MealPreferences:        prefs,
		NoveltyTolerance:       l.NoveltyTolerance,
		DietaryComplianceScore: l.DietaryComplianceScore,
		PreferenceConfidence:   l.PreferenceConfidence,
		InteractionCount:       l.InteractionCount,
	}
}

// ModelToLearning converts a GORM model to a learning profile
func ModelToLearning(model *LearningProfileModel) user.LearningProfile {
	prefs := make(map[string]float64, len(model.MealPreferences))
	for k, v := range model.MealPreferences {
		prefs[k] = v
	}
	return user.LearningProfile{
		MealPreferencesLearned: prefs,
		NoveltyTolerance:       model.NoveltyTolerance,
		DietaryComplianceScore: model.DietaryComplianceScore,
		PreferenceConfidence:   model.PreferenceConfidence,
		InteractionCount:       model.InteractionCount,
	}
}
