// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	"github.com/alchemorsel/menuplanner/internal/ports/outbound"
)

// RecipeRepository implements the recipe catalog using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

var _ outbound.RecipeRepository = (*RecipeRepository)(nil)

// FindCandidates returns recipes tagged with any of the requested meal types
func (r *RecipeRepository) FindCandidates(ctx context.Context, criteria outbound.CandidateCriteria) ([]recipe.Recipe, error) {
	if len(criteria.MealTypes) == 0 {
		return []recipe.Recipe{}, nil
	}

	slots := make([]string, 0, len(criteria.MealTypes))
	for _, mt := range criteria.MealTypes {
		slots = append(slots, string(recipe.NormalizeMealType(string(mt))))
	}

	tagged := r.db.Model(&RecipeMealTypeModel{}).
		Select("recipe_id").
		Where("meal_type IN ?", slots)

	query := r.db.WithContext(ctx).
		Preload("MealTypes").
		Where("id IN (?)", tagged)

	if criteria.Limit > 0 {
		query = query.Limit(criteria.Limit)
	}

	var models []RecipeModel
	if err := query.Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}
	return toRecipes(models), nil
}

// Save validates and upserts a recipe together with its meal type tags
func (r *RecipeRepository) Save(ctx context.Context, rec recipe.Recipe) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return upsertRecipe(tx, rec)
	})
}

// BulkSave upserts recipes in one transaction. Nothing is written if any
// record fails validation.
func (r *RecipeRepository) BulkSave(ctx context.Context, recipes []recipe.Recipe) error {
	for _, rec := range recipes {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("recipe %q: %w", rec.ID, err)
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range recipes {
			if err := upsertRecipe(tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// Count counts catalog recipes
func (r *RecipeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&RecipeModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count recipes: %w", err)
	}
	return count, nil
}

func upsertRecipe(tx *gorm.DB, rec recipe.Recipe) error {
	model := RecipeToModel(rec)

	if err := tx.Where("recipe_id = ?", model.ID).Delete(&RecipeMealTypeModel{}).Error; err != nil {
		return fmt.Errorf("clear meal types for %s: %w", model.ID, err)
	}
	if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(model).Error; err != nil {
		return fmt.Errorf("save recipe %s: %w", model.ID, err)
	}
	return nil
}

func toRecipes(models []RecipeModel) []recipe.Recipe {
	out := make([]recipe.Recipe, len(models))
	for i := range models {
		out[i] = ModelToRecipe(&models[i])
	}
	return out
}
