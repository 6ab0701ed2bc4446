package enrich

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchemorsel/menuplanner/internal/domain/menu"
	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	"github.com/alchemorsel/menuplanner/internal/domain/user"
	"github.com/alchemorsel/menuplanner/internal/engine/knowledge"
)

func newRecipe(id string, ingredients ...string) recipe.Recipe {
	r := recipe.Recipe{
		ID:              id,
		Title:           "Recipe " + id,
		MealTypes:       []recipe.MealType{recipe.MealTypeDinner},
		Difficulty:      recipe.DifficultyLevelEasy,
		PrepTimeMinutes: 10,
		CookTimeMinutes: 10,
		DietaryTags:     []string{"gluten_free"},
	}
	for _, name := range ingredients {
		r.Ingredients = append(r.Ingredients, recipe.Ingredient{Name: name, Quantity: 1, Unit: recipe.MeasurementUnitPiece})
	}
	return r
}

func baseProfile() user.Profile {
	return user.Profile{
		UserID:             "u-1",
		DietaryPreferences: []string{"Gluten_Free", "vegan"},
		SkillLevel:         user.CookingLevelBeginner,
		TimeTolerance:      user.PrepTimeQuick,
		DailyCalorieTarget: 2000,
	}
}

func TestPersonalization(t *testing.T) {
	r := newRecipe("r1", "salmon", "rice")
	learning := user.LearningProfile{MealPreferencesLearned: map[string]float64{"salmon": 0.2}}

	t.Run("AllBonuses", func(t *testing.T) {
		// 50 + 10 (gluten_free) + 30*0.1 + 10 (skill) + 10 (time)
		assert.InDelta(t, 83.0, Personalization(r, baseProfile(), learning), 1e-9)
	})

	t.Run("SkillAndTimeMisses", func(t *testing.T) {
		hard := r
		hard.Difficulty = recipe.DifficultyLevelHard
		hard.CookTimeMinutes = 45
		assert.InDelta(t, 63.0, Personalization(hard, baseProfile(), learning), 1e-9)
	})

	t.Run("Clamped", func(t *testing.T) {
		rich := r
		rich.DietaryTags = []string{"a", "b", "c", "d", "e", "f"}
		p := baseProfile()
		p.DietaryPreferences = []string{"a", "b", "c", "d", "e", "f"}
		assert.Equal(t, 100.0, Personalization(rich, p, learning))
	})

	t.Run("MonotonicInAffinity", func(t *testing.T) {
		low := user.LearningProfile{MealPreferencesLearned: map[string]float64{"salmon": 0.2}}
		high := user.LearningProfile{MealPreferencesLearned: map[string]float64{"salmon": 0.8}}
		assert.GreaterOrEqual(t, Personalization(r, baseProfile(), high), Personalization(r, baseProfile(), low))
	})
}

func TestNovelty(t *testing.T) {
	r := newRecipe("r1", "salmon", "rice", "kale", "lemon")

	t.Run("EatenRecentlyIsZero", func(t *testing.T) {
		other := newRecipe("r9", "bread")
		assert.Equal(t, 0.0, Novelty(r, []recipe.Recipe{other, r}))
	})

	t.Run("SharedIngredients", func(t *testing.T) {
		recent := []recipe.Recipe{newRecipe("r2", "Salmon"), newRecipe("r3", "rice ")}
		assert.InDelta(t, 50.0, Novelty(r, recent), 1e-9)
	})

	t.Run("NoHistory", func(t *testing.T) {
		assert.Equal(t, 100.0, Novelty(r, nil))
	})

	t.Run("NoIngredients", func(t *testing.T) {
		assert.Equal(t, 0.0, Novelty(newRecipe("empty"), nil))
	})
}

func TestPredictedSatisfaction(t *testing.T) {
	r := newRecipe("r1", "salmon", "rice")

	tests := []struct {
		name     string
		learning user.LearningProfile
		want     float64
	}{
		{"Base", user.LearningProfile{NoveltyTolerance: 0.5}, 5},
		{"NoveltyFit", user.LearningProfile{NoveltyTolerance: 0.8}, 6},
		{"Compliance", user.LearningProfile{NoveltyTolerance: 0.1, DietaryComplianceScore: 81}, 6},
		{"ComplianceAtThreshold", user.LearningProfile{DietaryComplianceScore: 80}, 5},
		{"Everything", user.LearningProfile{
			MealPreferencesLearned: map[string]float64{"salmon": 1, "rice": 1},
			NoveltyTolerance:       1,
			DietaryComplianceScore: 95,
		}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PredictedSatisfaction(r, tt.learning), 1e-9)
		})
	}

	t.Run("IgnoresRealHistory", func(t *testing.T) {
		// intrinsic novelty is 100 even if the user just ate this recipe
		uctx := user.Context{
			Profile:     baseProfile(),
			RecentMeals: []recipe.Recipe{r},
			Learning:    user.LearningProfile{NoveltyTolerance: 0.9},
		}
		e := Enrich(r, uctx, nil)
		assert.Equal(t, 0.0, e.NoveltyScore)
		assert.Equal(t, 6.0, e.PredictedSatisfaction)
	})
}

func TestBiomarkerBenefits(t *testing.T) {
	crp := knowledge.LookupBiomarkerIngredients(&user.HealthBiomarkers{CRP: user.Reading(4.2)})

	salmon := BiomarkerBenefits(newRecipe("a", "Turmeric", "salmon fillet").IngredientNames(), crp)
	bread := BiomarkerBenefits(newRecipe("b", "white bread").IngredientNames(), crp)

	require.Contains(t, salmon, menu.TagAntiInflammatory)
	require.Contains(t, bread, menu.TagAntiInflammatory)
	assert.Greater(t, salmon[menu.TagAntiInflammatory], 0.0)
	assert.Equal(t, 0.0, bread[menu.TagAntiInflammatory])
	assert.NotContains(t, salmon, menu.TagIronBoosting)

	assert.Empty(t, BiomarkerBenefits([]string{"salmon"}, nil))
}

func TestSeasonalAppropriateness(t *testing.T) {
	names := []string{"cherry tomato", "basil", "pasta", "parmesan"}
	assert.Equal(t, 50.0, SeasonalAppropriateness(names, knowledge.SeasonalIngredients(user.SeasonSummer)))
	assert.Equal(t, 0.0, SeasonalAppropriateness(names, nil))
	assert.Equal(t, 0.0, SeasonalAppropriateness(nil, []string{"tomato"}))

	uctx := user.Context{Seasonal: user.SeasonalContext{Season: user.SeasonWinter, LocalIngredients: []string{"pasta"}}}
	e := Enrich(recipe.Recipe{ID: "x", Ingredients: []recipe.Ingredient{{Name: "pasta"}, {Name: "basil"}}}, uctx, nil)
	assert.Equal(t, 50.0, e.SeasonalAppropriateness)
}

func TestEnrich_MissingFields(t *testing.T) {
	e := Enrich(recipe.Recipe{}, user.Context{}, nil)
	assert.Equal(t, 70.0, e.PersonalizationScore) // base + skill + time fit
	assert.Equal(t, 0.0, e.NoveltyScore)
	assert.Equal(t, knowledge.DefaultEvidenceScore, e.ScientificEvidenceScore)
	assert.Empty(t, e.BiomarkerBenefits)
	assert.Empty(t, e.BeneficialCompounds)
	assert.GreaterOrEqual(t, e.PredictedSatisfaction, 1.0)
}

func TestEnrichAll(t *testing.T) {
	pool := make([]recipe.Recipe, 600)
	for i := range pool {
		pool[i] = newRecipe(fmt.Sprintf("r%03d", i), "salmon", fmt.Sprintf("ingredient-%d", i%7), "kale")
	}
	uctx := user.Context{Profile: baseProfile(), Learning: user.DefaultLearningProfile()}
	crp := knowledge.LookupBiomarkerIngredients(&user.HealthBiomarkers{CRP: user.Reading(5)})

	serial, err := EnrichAll(context.Background(), pool, uctx, crp, PoolOptions{Workers: 1})
	require.NoError(t, err)
	parallel, err := EnrichAll(context.Background(), pool, uctx, crp, PoolOptions{Workers: 8, ParallelThreshold: 10})
	require.NoError(t, err)

	require.Len(t, parallel, len(pool))
	assert.Equal(t, serial, parallel)
	for i := range pool {
		assert.Equal(t, pool[i].ID, parallel[i].ID)
	}

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := EnrichAll(ctx, pool, uctx, crp, DefaultPoolOptions())
		assert.ErrorIs(t, err, context.Canceled)
	})
}
