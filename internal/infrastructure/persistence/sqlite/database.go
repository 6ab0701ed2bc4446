// Package sqlite provides SQLite database setup and demo seeding
package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	"github.com/alchemorsel/menuplanner/internal/domain/user"
	gormModels "github.com/alchemorsel/menuplanner/internal/infrastructure/persistence/gorm"
)

// DemoUserID owns the seeded health profile
const DemoUserID = "demo-user"

// seedNamespace keeps demo recipe IDs stable across runs
var seedNamespace = uuid.MustParse("3f0c8a4e-52d1-4c0f-9d6e-7b1f2c9a0e41")

// SetupDatabase opens the SQLite database and migrates the schema. An empty
// path opens a private in-memory database.
func SetupDatabase(dbPath string, logLevel logger.LogLevel) (*gorm.DB, error) {
	inMemory := dbPath == "" || dbPath == ":memory:" || strings.Contains(dbPath, "mode=memory")
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if inMemory {
		// Every pooled connection would otherwise see its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access database handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(gormModels.AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// SeedDatabase loads the demo catalog and the demo user's profile. It does
// nothing when the catalog already has recipes.
func SeedDatabase(ctx context.Context, db *gorm.DB) error {
	recipes := gormModels.NewRecipeRepository(db)

	count, err := recipes.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if err := recipes.BulkSave(ctx, DemoCatalog()); err != nil {
		return fmt.Errorf("failed to create demo recipes: %w", err)
	}

	profiles := gormModels.NewUserProfileRepository(db)
	if err := profiles.SaveProfile(ctx, DemoProfile()); err != nil {
		return fmt.Errorf("failed to create demo user: %w", err)
	}
	return nil
}

// DemoProfile is an intermediate cook with elevated CRP and low vitamin D
func DemoProfile() user.Profile {
	return user.Profile{
		UserID:             DemoUserID,
		DietaryPreferences: []string{string(user.DietaryRestrictionGlutenFree)},
		SkillLevel:         user.CookingLevelIntermediate,
		TimeTolerance:      user.PrepTimeMedium,
		DailyCalorieTarget: 2000,
		Biomarkers: &user.HealthBiomarkers{
			CRP:      user.Reading(4.1),
			VitaminD: user.Reading(22),
		},
	}
}

type demoRecipe struct {
	title       string
	slots       []recipe.MealType
	difficulty  recipe.DifficultyLevel
	prep, cook  int
	tags        []string
	ingredients []string
	nutrition   recipe.NutritionInfo
	antiInflam  float64
}

var demoRecipes = []demoRecipe{
	{
		title:       "Turmeric Ginger Oatmeal",
		slots:       []recipe.MealType{recipe.MealTypeBreakfast},
		difficulty:  recipe.DifficultyLevelEasy,
		prep:        5,
		cook:        10,
		tags:        []string{"vegetarian"},
		ingredients: []string{"rolled oats", "turmeric", "ginger", "blueberries", "walnuts"},
		nutrition:   recipe.NutritionInfo{Calories: 380, Protein: 11, Carbohydrates: 55, Fat: 13, Fiber: 9, Sugar: 12, Sodium: 80},
		antiInflam:  7,
	},
	{
		title:       "Spinach Mushroom Omelette",
		slots:       []recipe.MealType{recipe.MealTypeBreakfast},
		difficulty:  recipe.DifficultyLevelEasy,
		prep:        5,
		cook:        8,
		tags:        []string{"vegetarian", "gluten_free"},
		ingredients: []string{"eggs", "spinach", "mushrooms", "olive oil"},
		nutrition:   recipe.NutritionInfo{Calories: 320, Protein: 21, Carbohydrates: 6, Fat: 23, Fiber: 3, Sugar: 2, Sodium: 380},
		antiInflam:  4,
	},
	{
		title:       "Buttered White Toast",
		slots:       []recipe.MealType{recipe.MealTypeBreakfast, recipe.MealTypeSnack},
		difficulty:  recipe.DifficultyLevelEasy,
		prep:        2,
		cook:        3,
		tags:        []string{"vegetarian"},
		ingredients: []string{"white bread", "butter", "jam"},
		nutrition:   recipe.NutritionInfo{Calories: 310, Protein: 6, Carbohydrates: 45, Fat: 12, Fiber: 1, Sugar: 14, Sodium: 420},
		antiInflam:  -5,
	},
	{
		title:       "Lentil Kale Soup",
		slots:       []recipe.MealType{recipe.MealTypeLunch, recipe.MealTypeDinner},
		difficulty:  recipe.DifficultyLevelEasy,
		prep:        15,
		cook:        35,
		tags:        []string{"vegan", "gluten_free"},
		ingredients: []string{"lentils", "kale", "carrots", "onion", "garlic", "turmeric"},
		nutrition:   recipe.NutritionInfo{Calories: 420, Protein: 24, Carbohydrates: 62, Fat: 7, Fiber: 18, Sugar: 8, Sodium: 520},
		antiInflam:  8,
	},
	{
		title:       "Quinoa Chickpea Bowl",
		slots:       []recipe.MealType{recipe.MealTypeLunch},
		difficulty:  recipe.DifficultyLevelMedium,
		prep:        15,
		cook:        20,
		tags:        []string{"vegan", "gluten_free"},
		ingredients: []string{"quinoa", "chickpeas", "sweet potato", "spinach", "tahini"},
		nutrition:   recipe.NutritionInfo{Calories: 560, Protein: 20, Carbohydrates: 78, Fat: 18, Fiber: 15, Sugar: 9, Sodium: 340},
		antiInflam:  6,
	},
	{
		title:       "Grilled Cheese Sandwich",
		slots:       []recipe.MealType{recipe.MealTypeLunch},
		difficulty:  recipe.DifficultyLevelEasy,
		prep:        5,
		cook:        8,
		tags:        []string{"vegetarian"},
		ingredients: []string{"white bread", "cheddar", "butter"},
		nutrition:   recipe.NutritionInfo{Calories: 520, Protein: 19, Carbohydrates: 38, Fat: 32, Fiber: 2, Sugar: 4, Sodium: 980},
		antiInflam:  -6,
	},
	{
		title:       "Baked Salmon with Broccoli",
		slots:       []recipe.MealType{recipe.MealTypeDinner},
		difficulty:  recipe.DifficultyLevelMedium,
		prep:        10,
		cook:        20,
		tags:        []string{"gluten_free", "pescatarian"},
		ingredients: []string{"salmon", "broccoli", "lemon", "garlic", "olive oil"},
		nutrition:   recipe.NutritionInfo{Calories: 610, Protein: 42, Carbohydrates: 14, Fat: 38, Fiber: 6, Sugar: 4, Sodium: 410},
		antiInflam:  9,
	},
	{
		title:       "Sardine Tomato Pasta",
		slots:       []recipe.MealType{recipe.MealTypeDinner},
		difficulty:  recipe.DifficultyLevelMedium,
		prep:        10,
		cook:        15,
		tags:        []string{"pescatarian"},
		ingredients: []string{"whole wheat pasta", "sardines", "tomatoes", "garlic", "parsley"},
		nutrition:   recipe.NutritionInfo{Calories: 640, Protein: 33, Carbohydrates: 74, Fat: 21, Fiber: 10, Sugar: 7, Sodium: 690},
		antiInflam:  5,
	},
	{
		title:       "Beef Stew",
		slots:       []recipe.MealType{recipe.MealTypeDinner},
		difficulty:  recipe.DifficultyLevelHard,
		prep:        25,
		cook:        150,
		tags:        []string{"gluten_free"},
		ingredients: []string{"beef chuck", "potatoes", "carrots", "onion", "red wine"},
		nutrition:   recipe.NutritionInfo{Calories: 720, Protein: 45, Carbohydrates: 40, Fat: 36, Fiber: 6, Sugar: 8, Sodium: 880},
		antiInflam:  -2,
	},
	{
		title:       "Apple Almond Butter Slices",
		slots:       []recipe.MealType{recipe.MealTypeSnack},
		difficulty:  recipe.DifficultyLevelEasy,
		prep:        5,
		cook:        0,
		tags:        []string{"vegan", "gluten_free"},
		ingredients: []string{"apple", "almond butter", "cinnamon"},
		nutrition:   recipe.NutritionInfo{Calories: 250, Protein: 7, Carbohydrates: 28, Fat: 14, Fiber: 7, Sugar: 19, Sodium: 5},
		antiInflam:  4,
	},
	{
		title:       "Greek Yogurt Berry Cup",
		slots:       []recipe.MealType{recipe.MealTypeSnack, recipe.MealTypeBreakfast},
		difficulty:  recipe.DifficultyLevelEasy,
		prep:        3,
		cook:        0,
		tags:        []string{"vegetarian", "gluten_free"},
		ingredients: []string{"greek yogurt", "blueberries", "chia seeds", "honey"},
		nutrition:   recipe.NutritionInfo{Calories: 230, Protein: 17, Carbohydrates: 26, Fat: 6, Fiber: 5, Sugar: 18, Sodium: 65},
		antiInflam:  5,
	},
}

// DemoCatalog returns the seeded recipes with stable IDs
func DemoCatalog() []recipe.Recipe {
	out := make([]recipe.Recipe, 0, len(demoRecipes))
	for _, d := range demoRecipes {
		r := recipe.Recipe{
			ID:                    uuid.NewSHA1(seedNamespace, []byte(d.title)).String(),
			Title:                 d.title,
			MealTypes:             d.slots,
			Difficulty:            d.difficulty,
			DietaryTags:           d.tags,
			PrepTimeMinutes:       d.prep,
			CookTimeMinutes:       d.cook,
			Nutrition:             d.nutrition,
			AntiInflammatoryScore: d.antiInflam,
		}
		for _, name := range d.ingredients {
			r.Ingredients = append(r.Ingredients, recipe.Ingredient{Name: name, Quantity: 1, Unit: recipe.MeasurementUnitPiece})
		}
		out = append(out, r)
	}
	return out
}
