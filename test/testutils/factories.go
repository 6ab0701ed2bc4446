// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	"github.com/alchemorsel/menuplanner/internal/domain/user"
)

var pantry = []string{
	"salmon", "turmeric", "ginger", "spinach", "kale", "quinoa", "lentils",
	"chickpeas", "oats", "blueberries", "walnuts", "almonds", "olive oil",
	"white bread", "butter", "cheddar", "bacon", "white rice", "pasta",
	"tomato", "zucchini", "pumpkin", "apple", "cabbage", "carrot", "eggs",
	"mushrooms", "beef", "tofu", "chia seeds", "greek yogurt", "garlic",
}

var dietaryTags = []string{"vegetarian", "vegan", "gluten_free", "dairy_free", "keto", "paleo"}

var mealTypes = []recipe.MealType{
	recipe.MealTypeBreakfast, recipe.MealTypeLunch, recipe.MealTypeDinner, recipe.MealTypeSnack,
}

// RecipeFactory provides methods to create test recipes
type RecipeFactory struct {
	faker *gofakeit.Faker
	seq   int
}

// NewRecipeFactory creates a new recipe factory with seeded faker
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{
		faker: gofakeit.New(seed),
	}
}

// Faker exposes the seeded faker for callers that need extra random values
func (rf *RecipeFactory) Faker() *gofakeit.Faker {
	return rf.faker
}

// CreateRandomRecipe creates a catalog-valid recipe with random attributes
func (rf *RecipeFactory) CreateRandomRecipe() recipe.Recipe {
	rf.seq++
	f := rf.faker

	slots := []recipe.MealType{mealTypes[f.IntRange(0, len(mealTypes)-1)]}
	if f.Bool() {
		slots = append(slots, mealTypes[f.IntRange(0, len(mealTypes)-1)])
	}

	ingredients := make([]recipe.Ingredient, f.IntRange(0, 12))
	for i := range ingredients {
		name := pantry[f.IntRange(0, len(pantry)-1)]
		if f.IntRange(0, 4) == 0 {
			name = f.Vegetable()
		}
		ingredients[i] = recipe.Ingredient{
			Name:     name,
			Quantity: f.Float64Range(0, 500),
			Unit:     recipe.MeasurementUnitGram,
		}
	}

	tags := make([]string, f.IntRange(0, 3))
	for i := range tags {
		tags[i] = dietaryTags[f.IntRange(0, len(dietaryTags)-1)]
	}

	return recipe.Recipe{
		ID:              fmt.Sprintf("recipe-%05d", rf.seq),
		Title:           "Test " + f.Sentence(3),
		MealTypes:       slots,
		Difficulty:      []recipe.DifficultyLevel{recipe.DifficultyLevelEasy, recipe.DifficultyLevelMedium, recipe.DifficultyLevelHard}[f.IntRange(0, 2)],
		DietaryTags:     tags,
		PrepTimeMinutes: f.IntRange(0, 90),
		CookTimeMinutes: f.IntRange(0, 180),
		Nutrition: recipe.NutritionInfo{
			Calories:      f.Float64Range(0, 1500),
			Protein:       f.Float64Range(0, 80),
			Carbohydrates: f.Float64Range(0, 150),
			Fat:           f.Float64Range(0, 70),
			Fiber:         f.Float64Range(0, 20),
			Sugar:         f.Float64Range(0, 60),
			Sodium:        f.Float64Range(0, 2500),
		},
		Ingredients:           ingredients,
		AntiInflammatoryScore: f.Float64Range(recipe.MinAntiInflammatoryScore, recipe.MaxAntiInflammatoryScore),
	}
}

// CreateRecipes creates n random recipes
func (rf *RecipeFactory) CreateRecipes(n int) []recipe.Recipe {
	out := make([]recipe.Recipe, n)
	for i := range out {
		out[i] = rf.CreateRandomRecipe()
	}
	return out
}

// CreateRandomContext creates a user context with random profile, biomarkers
// and learning state. Every optional field is sometimes left empty.
func (rf *RecipeFactory) CreateRandomContext() user.Context {
	f := rf.faker

	profile := NewProfileBuilder().
		WithUserID(f.UUID()).
		WithSkill([]user.CookingLevel{user.CookingLevelBeginner, user.CookingLevelIntermediate, user.CookingLevelAdvanced}[f.IntRange(0, 2)]).
		WithTimeTolerance([]user.PrepTimeTolerance{user.PrepTimeQuick, user.PrepTimeMedium, user.PrepTimeElaborate}[f.IntRange(0, 2)]).
		WithCalorieTarget(f.Float64Range(1200, 3500))
	for i := f.IntRange(0, 3); i > 0; i-- {
		profile.WithDietaryPreference(dietaryTags[f.IntRange(0, len(dietaryTags)-1)])
	}
	if f.Bool() {
		profile.WithBiomarkers(user.HealthBiomarkers{
			CRP:              maybe(f, 0, 10),
			TotalCholesterol: maybe(f, 120, 300),
			FastingGlucose:   maybe(f, 60, 160),
			VitaminD:         maybe(f, 5, 80),
			SerumIron:        maybe(f, 20, 180),
		})
	}

	learning := user.DefaultLearningProfile()
	learning.NoveltyTolerance = f.Float64Range(0, 1)
	learning.DietaryComplianceScore = f.Float64Range(0, 100)
	learning.PreferenceConfidence = f.Float64Range(0, 1)
	learning.InteractionCount = f.IntRange(0, 200)
	for i := f.IntRange(0, 10); i > 0; i-- {
		learning.MealPreferencesLearned[pantry[f.IntRange(0, len(pantry)-1)]] = f.Float64Range(0, 1)
	}

	seasons := []user.Season{user.SeasonSpring, user.SeasonSummer, user.SeasonAutumn, user.SeasonWinter}
	return user.Context{
		Profile:     profile.Build(),
		RecentMeals: rf.CreateRecipes(f.IntRange(0, 5)),
		Seasonal:    user.SeasonalContext{Season: seasons[f.IntRange(0, 3)]},
		Learning:    learning,
	}
}

func maybe(f *gofakeit.Faker, lo, hi float64) *float64 {
	if f.Bool() {
		return nil
	}
	return user.Reading(f.Float64Range(lo, hi))
}

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	r recipe.Recipe
}

// NewRecipeBuilder creates a new recipe builder with default values
func NewRecipeBuilder(id string) *RecipeBuilder {
	return &RecipeBuilder{r: recipe.Recipe{
		ID:              id,
		Title:           "Recipe " + id,
		MealTypes:       []recipe.MealType{recipe.MealTypeDinner},
		Difficulty:      recipe.DifficultyLevelEasy,
		PrepTimeMinutes: 10,
		CookTimeMinutes: 15,
		Nutrition:       recipe.NutritionInfo{Calories: 500, Protein: 25, Carbohydrates: 50, Fat: 15, Fiber: 6},
	}}
}

// WithTitle sets the recipe title
func (rb *RecipeBuilder) WithTitle(title string) *RecipeBuilder {
	rb.r.Title = title
	return rb
}

// WithMealTypes sets the meal slots
func (rb *RecipeBuilder) WithMealTypes(slots ...recipe.MealType) *RecipeBuilder {
	rb.r.MealTypes = slots
	return rb
}

// WithIngredients sets the ingredient names with a default quantity
func (rb *RecipeBuilder) WithIngredients(names ...string) *RecipeBuilder {
	rb.r.Ingredients = rb.r.Ingredients[:0]
	for _, n := range names {
		rb.r.Ingredients = append(rb.r.Ingredients, recipe.Ingredient{Name: n, Quantity: 100, Unit: recipe.MeasurementUnitGram})
	}
	return rb
}

// WithDifficulty sets the recipe difficulty
func (rb *RecipeBuilder) WithDifficulty(d recipe.DifficultyLevel) *RecipeBuilder {
	rb.r.Difficulty = d
	return rb
}

// WithTimings sets prep and cook minutes
func (rb *RecipeBuilder) WithTimings(prep, cook int) *RecipeBuilder {
	rb.r.PrepTimeMinutes = prep
	rb.r.CookTimeMinutes = cook
	return rb
}

// WithTags sets the dietary tags
func (rb *RecipeBuilder) WithTags(tags ...string) *RecipeBuilder {
	rb.r.DietaryTags = tags
	return rb
}

// WithNutrition sets per-serving nutrition
func (rb *RecipeBuilder) WithNutrition(n recipe.NutritionInfo) *RecipeBuilder {
	rb.r.Nutrition = n
	return rb
}

// WithAntiInflammatoryScore sets the catalog anti-inflammatory score
func (rb *RecipeBuilder) WithAntiInflammatoryScore(score float64) *RecipeBuilder {
	rb.r.AntiInflammatoryScore = score
	return rb
}

// Build returns the recipe
func (rb *RecipeBuilder) Build() recipe.Recipe {
	out := rb.r
	out.Ingredients = append([]recipe.Ingredient(nil), rb.r.Ingredients...)
	return out
}

// ProfileBuilder provides a fluent interface for building user profiles
type ProfileBuilder struct {
	p user.Profile
}

// NewProfileBuilder creates a builder for an intermediate cook with a
// 2000 kcal target and no biomarkers
func NewProfileBuilder() *ProfileBuilder {
	return &ProfileBuilder{p: user.Profile{
		UserID:             "user-1",
		SkillLevel:         user.CookingLevelIntermediate,
		TimeTolerance:      user.PrepTimeMedium,
		DailyCalorieTarget: 2000,
	}}
}

// WithUserID sets the user ID
func (pb *ProfileBuilder) WithUserID(id string) *ProfileBuilder {
	pb.p.UserID = id
	return pb
}

// WithSkill sets the cooking level
func (pb *ProfileBuilder) WithSkill(level user.CookingLevel) *ProfileBuilder {
	pb.p.SkillLevel = level
	return pb
}

// WithTimeTolerance sets the prep-time tolerance
func (pb *ProfileBuilder) WithTimeTolerance(t user.PrepTimeTolerance) *ProfileBuilder {
	pb.p.TimeTolerance = t
	return pb
}

// WithCalorieTarget sets the daily calorie target
func (pb *ProfileBuilder) WithCalorieTarget(kcal float64) *ProfileBuilder {
	pb.p.DailyCalorieTarget = kcal
	return pb
}

// WithDietaryPreference appends a dietary preference tag
func (pb *ProfileBuilder) WithDietaryPreference(tag string) *ProfileBuilder {
	pb.p.DietaryPreferences = append(pb.p.DietaryPreferences, tag)
	return pb
}

// WithBiomarkers sets the biomarker readings
func (pb *ProfileBuilder) WithBiomarkers(b user.HealthBiomarkers) *ProfileBuilder {
	pb.p.Biomarkers = &b
	return pb
}

// Build returns the profile
func (pb *ProfileBuilder) Build() user.Profile {
	out := pb.p
	out.DietaryPreferences = append([]string(nil), pb.p.DietaryPreferences...)
	return out
}
