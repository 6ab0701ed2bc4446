package gorm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alchemorsel/menuplanner/internal/domain/menu"
	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	"github.com/alchemorsel/menuplanner/internal/domain/user"
	"github.com/alchemorsel/menuplanner/internal/ports/outbound"
	"github.com/alchemorsel/menuplanner/test/testutils"
)

// RepositoryTestSuite runs the GORM repositories against in-memory SQLite
type RepositoryTestSuite struct {
	suite.Suite
	ctx      context.Context
	db       *gorm.DB
	recipes  *RecipeRepository
	profiles *UserProfileRepository
	history  *MealHistoryRepository
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(db.AutoMigrate(AllModels()...))

	s.db = db
	s.recipes = NewRecipeRepository(db)
	s.profiles = NewUserProfileRepository(db)
	s.history = NewMealHistoryRepository(db)
}

func (s *RepositoryTestSuite) TearDownTest() {
	if sqlDB, err := s.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func (s *RepositoryTestSuite) catalog() []recipe.Recipe {
	return []recipe.Recipe{
		testutils.NewRecipeBuilder("r-03").WithTitle("Salmon Bowl").
			WithMealTypes(recipe.MealTypeDinner, recipe.MealTypeLunch).
			WithIngredients("salmon", "rice").WithTimings(10, 20).Build(),
		testutils.NewRecipeBuilder("r-01").WithTitle("Oat Porridge").
			WithMealTypes(recipe.MealTypeBreakfast).
			WithIngredients("oats", "milk").WithTimings(5, 5).Build(),
		testutils.NewRecipeBuilder("r-02").WithTitle("Slow Roast").
			WithMealTypes(recipe.MealTypeDinner).
			WithIngredients("beef").WithTimings(30, 180).WithTags("gluten_free").Build(),
	}
}

func (s *RepositoryTestSuite) load(id string) recipe.Recipe {
	var model RecipeModel
	s.Require().NoError(s.db.Preload("MealTypes").First(&model, "id = ?", id).Error)
	return ModelToRecipe(&model)
}

func (s *RepositoryTestSuite) TestRecipeRoundTrip() {
	s.Require().NoError(s.recipes.BulkSave(s.ctx, s.catalog()))

	count, err := s.recipes.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(3), count)

	got := s.load("r-03")
	s.Equal("Salmon Bowl", got.Title)
	s.Equal([]recipe.MealType{recipe.MealTypeLunch, recipe.MealTypeDinner}, got.MealTypes)
	s.Equal([]string{"salmon", "rice"}, got.IngredientNames())
	s.Equal(30, got.TotalTimeMinutes())
	s.Equal([]string{"gluten_free"}, s.load("r-02").DietaryTags)
}

func (s *RepositoryTestSuite) TestSaveReplacesMealTypes() {
	s.Require().NoError(s.recipes.BulkSave(s.ctx, s.catalog()))

	updated := testutils.NewRecipeBuilder("r-03").WithTitle("Salmon Salad").
		WithMealTypes(recipe.MealTypeLunch).WithIngredients("salmon", "greens").Build()
	s.Require().NoError(s.recipes.Save(s.ctx, updated))

	got := s.load("r-03")
	s.Equal("Salmon Salad", got.Title)
	s.Equal([]recipe.MealType{recipe.MealTypeLunch}, got.MealTypes)

	count, err := s.recipes.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(3), count)
}

func (s *RepositoryTestSuite) TestBulkSaveRejectsInvalid() {
	bad := testutils.NewRecipeBuilder("r-bad").WithTitle("x").Build()
	err := s.recipes.BulkSave(s.ctx, append(s.catalog(), bad))
	s.ErrorIs(err, recipe.ErrTitleTooShort)

	count, err := s.recipes.Count(s.ctx)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *RepositoryTestSuite) TestFindCandidates() {
	s.Require().NoError(s.recipes.BulkSave(s.ctx, s.catalog()))

	tests := []struct {
		name     string
		criteria outbound.CandidateCriteria
		want     []string
	}{
		{"Dinner", outbound.CandidateCriteria{MealTypes: []recipe.MealType{recipe.MealTypeDinner}}, []string{"r-02", "r-03"}},
		{"AnySlot", outbound.CandidateCriteria{MealTypes: []recipe.MealType{"Breakfast", recipe.MealTypeLunch}}, []string{"r-01", "r-03"}},
		{"Limit", outbound.CandidateCriteria{MealTypes: []recipe.MealType{recipe.MealTypeDinner, recipe.MealTypeBreakfast}, Limit: 2}, []string{"r-01", "r-02"}},
		{"NoSlots", outbound.CandidateCriteria{}, []string{}},
		{"UnknownSlot", outbound.CandidateCriteria{MealTypes: []recipe.MealType{"brunch"}}, []string{}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			got, err := s.recipes.FindCandidates(s.ctx, tt.criteria)
			s.Require().NoError(err)
			ids := make([]string, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			s.Equal(tt.want, ids)
		})
	}
}

func (s *RepositoryTestSuite) TestProfiles() {
	_, err := s.profiles.FindProfile(s.ctx, "user-1")
	s.ErrorIs(err, user.ErrUserNotFound)

	p := testutils.NewProfileBuilder().
		WithDietaryPreference("vegan").
		WithBiomarkers(user.HealthBiomarkers{CRP: user.Reading(3.4)}).
		Build()
	s.Require().NoError(s.profiles.SaveProfile(s.ctx, p))

	got, err := s.profiles.FindProfile(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(p.DietaryPreferences, got.DietaryPreferences)
	s.Require().NotNil(got.Biomarkers)
	s.Require().NotNil(got.Biomarkers.CRP)
	s.Equal(3.4, *got.Biomarkers.CRP)
	s.Nil(got.Biomarkers.VitaminD)

	p.Biomarkers = nil
	p.DailyCalorieTarget = 1800
	s.Require().NoError(s.profiles.SaveProfile(s.ctx, p))
	got, err = s.profiles.FindProfile(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Nil(got.Biomarkers)
	s.Equal(1800.0, got.DailyCalorieTarget)

	p.DailyCalorieTarget = 0
	s.ErrorIs(s.profiles.SaveProfile(s.ctx, p), user.ErrInvalidCalorieTarget)
}

func (s *RepositoryTestSuite) TestLearningMerge() {
	_, err := s.profiles.MergeLearningDelta(s.ctx, user.LearningDelta{UserID: "ghost", InteractionCountIncrement: 1})
	s.ErrorIs(err, user.ErrUserNotFound)

	s.Require().NoError(s.profiles.SaveProfile(s.ctx, testutils.NewProfileBuilder().Build()))

	fresh, err := s.profiles.FindLearningProfile(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(user.DefaultLearningProfile(), fresh)

	delta := user.LearningDelta{
		UserID:                    "user-1",
		InteractionCountIncrement: 1,
		PreferenceConfidence:      0.05,
		IngredientAffinities:      map[string]float64{"salmon": 0.1, "kale": 0.1},
	}
	merged, err := s.profiles.MergeLearningDelta(s.ctx, delta)
	s.Require().NoError(err)
	s.Equal(1, merged.InteractionCount)

	merged, err = s.profiles.MergeLearningDelta(s.ctx, delta)
	s.Require().NoError(err)
	s.Equal(2, merged.InteractionCount)

	stored, err := s.profiles.FindLearningProfile(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(merged, stored)
	s.InDelta(0.1, stored.Affinity("Salmon"), 1e-9)
}

func (s *RepositoryTestSuite) TestMealHistory() {
	s.Require().NoError(s.recipes.BulkSave(s.ctx, s.catalog()))
	day := time.Date(2024, time.May, 10, 8, 0, 0, 0, time.UTC)

	pick := func(id string) menu.EnrichedRecipe {
		return menu.EnrichedRecipe{Recipe: s.load(id)}
	}

	old := menu.NewMenu("m-old", []recipe.MealType{recipe.MealTypeDinner}, map[recipe.MealType][]menu.EnrichedRecipe{
		recipe.MealTypeDinner: {pick("r-02")},
	})
	recent := menu.NewMenu("m-new", []recipe.MealType{recipe.MealTypeBreakfast, recipe.MealTypeDinner}, map[recipe.MealType][]menu.EnrichedRecipe{
		recipe.MealTypeBreakfast: {pick("r-01")},
		recipe.MealTypeDinner:    {pick("r-03")},
	})

	s.Require().NoError(s.history.RecordServedMenu(s.ctx, "user-1", old, day.AddDate(0, 0, -10)))
	s.Require().NoError(s.history.RecordServedMenu(s.ctx, "user-1", recent, day))
	s.Require().NoError(s.history.RecordServedMenu(s.ctx, "user-1", menu.NewMenu("m-empty", nil, nil), day))
	s.Require().NoError(s.history.RecordServedMenu(s.ctx, "user-2", old, day))

	until := day.Add(time.Hour)
	meals, err := s.history.RecentMeals(s.ctx, "user-1", day.AddDate(0, 0, -7), until)
	s.Require().NoError(err)
	s.Require().Len(meals, 2)
	s.Equal("r-01", meals[0].ID)
	s.Equal("r-03", meals[1].ID)

	all, err := s.history.RecentMeals(s.ctx, "user-1", day.AddDate(0, 0, -30), until)
	s.Require().NoError(err)
	s.Len(all, 3)

	none, err := s.history.RecentMeals(s.ctx, "user-3", day.AddDate(0, 0, -30), until)
	s.Require().NoError(err)
	s.Empty(none)

	// a menu for an earlier date must not see meals served on or after it
	before, err := s.history.RecentMeals(s.ctx, "user-1", day.AddDate(0, 0, -14), day)
	s.Require().NoError(err)
	s.Require().Len(before, 1)
	s.Equal("r-02", before[0].ID)
}

// TestRepositoryTestSuite runs the repository test suite
func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
