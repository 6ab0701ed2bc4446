package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/alchemorsel/menuplanner/internal/domain/menu"
	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	"github.com/alchemorsel/menuplanner/internal/domain/user"
	"github.com/alchemorsel/menuplanner/internal/infrastructure/config"
	gormModels "github.com/alchemorsel/menuplanner/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/menuplanner/internal/ports/outbound"
	"github.com/alchemorsel/menuplanner/test/testutils"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Database: testutils.StartPostgres(t)}

	db, err := Open(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	recipes := gormModels.NewRecipeRepository(db)
	r := testutils.NewRecipeBuilder("pg-1").WithIngredients("salmon", "dill").Build()
	require.NoError(t, recipes.Save(ctx, r))

	got, err := recipes.FindCandidates(ctx, outbound.CandidateCriteria{MealTypes: r.MealTypes})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, r.IngredientNames(), got[0].IngredientNames())

	profiles := gormModels.NewUserProfileRepository(db)
	require.NoError(t, profiles.SaveProfile(ctx, testutils.NewProfileBuilder().Build()))
	_, err = profiles.FindProfile(ctx, "user-1")
	require.NoError(t, err)
}

func TestOpen_SQLMigrations(t *testing.T) {
	ctx := context.Background()
	dbCfg := testutils.StartPostgres(t)
	dbCfg.AutoMigrate = false
	dbCfg.SQLMigrations = true
	cfg := &config.Config{Database: dbCfg}

	db, err := Open(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	// a second open finds nothing to apply
	again, err := Open(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	sqlAgain, err := again.DB()
	require.NoError(t, err)
	require.NoError(t, sqlAgain.Close())

	recipes := gormModels.NewRecipeRepository(db)
	catalog := []recipe.Recipe{
		testutils.NewRecipeBuilder("pg-oats").WithMealTypes(recipe.MealTypeBreakfast).
			WithIngredients("oats").WithTimings(5, 5).Build(),
		testutils.NewRecipeBuilder("pg-stew").WithMealTypes(recipe.MealTypeDinner).
			WithIngredients("lentils", "carrot").WithTimings(15, 45).Build(),
	}
	require.NoError(t, recipes.BulkSave(ctx, catalog))

	pool, err := recipes.FindCandidates(ctx, outbound.CandidateCriteria{
		MealTypes: []recipe.MealType{recipe.MealTypeDinner},
	})
	require.NoError(t, err)
	require.Len(t, pool, 1)
	assert.Equal(t, 60, pool[0].TotalTimeMinutes())

	profiles := gormModels.NewUserProfileRepository(db)
	require.NoError(t, profiles.SaveProfile(ctx, testutils.NewProfileBuilder().
		WithBiomarkers(user.HealthBiomarkers{VitaminD: user.Reading(18)}).Build()))
	merged, err := profiles.MergeLearningDelta(ctx, user.LearningDelta{
		UserID:                    "user-1",
		InteractionCountIncrement: 1,
		IngredientAffinities:      map[string]float64{"lentils": 0.1},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, merged.InteractionCount)

	history := gormModels.NewMealHistoryRepository(db)
	served := menu.NewMenu(uuid.NewString(), []recipe.MealType{recipe.MealTypeDinner},
		map[recipe.MealType][]menu.EnrichedRecipe{recipe.MealTypeDinner: {{Recipe: pool[0]}}})
	day := time.Date(2024, time.June, 1, 18, 0, 0, 0, time.UTC)
	require.NoError(t, history.RecordServedMenu(ctx, "user-1", served, day))
	recent, err := history.RecentMeals(ctx, "user-1", day.AddDate(0, 0, -7), day.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "pg-stew", recent[0].ID)
}
