package gorm

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/alchemorsel/menuplanner/internal/domain/menu"
	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	"github.com/alchemorsel/menuplanner/internal/ports/outbound"
)

// MealHistoryRepository records served menus using GORM
type MealHistoryRepository struct {
	db *gorm.DB
}

// NewMealHistoryRepository creates a new meal history repository
func NewMealHistoryRepository(db *gorm.DB) *MealHistoryRepository {
	return &MealHistoryRepository{db: db}
}

var _ outbound.MealHistoryRepository = (*MealHistoryRepository)(nil)

// RecentMeals returns the distinct recipes served to the user in
// [since, until), most recent first. Recipes since removed from the catalog
// are skipped.
func (r *MealHistoryRepository) RecentMeals(ctx context.Context, userID string, since, until time.Time) ([]recipe.Recipe, error) {
	var served []ServedMealModel
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND served_at >= ? AND served_at < ?", userID, since.UTC(), until.UTC()).
		Order("served_at DESC").
		Order("position ASC").
		Find(&served)
	if result.Error != nil {
		return nil, fmt.Errorf("find served meals for %s: %w", userID, result.Error)
	}
	if len(served) == 0 {
		return []recipe.Recipe{}, nil
	}

	order := make([]string, 0, len(served))
	seen := make(map[string]bool, len(served))
	for _, s := range served {
		if !seen[s.RecipeID] {
			seen[s.RecipeID] = true
			order = append(order, s.RecipeID)
		}
	}

	var models []RecipeModel
	if err := r.db.WithContext(ctx).Preload("MealTypes").Where("id IN ?", order).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("load served recipes: %w", err)
	}
	byID := make(map[string]*RecipeModel, len(models))
	for i := range models {
		byID[models[i].ID] = &models[i]
	}

	out := make([]recipe.Recipe, 0, len(order))
	for _, id := range order {
		if m, ok := byID[id]; ok {
			out = append(out, ModelToRecipe(m))
		}
	}
	return out, nil
}

// RecordServedMenu stores one row per selected recipe. Empty menus are a no-op.
func (r *MealHistoryRepository) RecordServedMenu(ctx context.Context, userID string, m menu.Menu, servedAt time.Time) error {
	var rows []ServedMealModel
	position := 0
	for _, slot := range m.SlotOrder {
		for _, picked := range m.Slots[slot] {
			rows = append(rows, ServedMealModel{
				UserID:   userID,
				ServedAt: servedAt.UTC(),
				MenuID:   m.ID,
				RecipeID: picked.ID,
				MealType: string(slot),
				Position: position,
			})
			position++
		}
	}
	if len(rows) == 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("record served menu %s: %w", m.ID, err)
	}
	return nil
}
