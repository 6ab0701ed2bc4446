// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/alchemorsel/menuplanner/internal/domain/menu"
	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	"github.com/alchemorsel/menuplanner/internal/domain/user"
)

// MenuService defines the menu planning use cases
type MenuService interface {
	// Commands
	GenerateMenu(ctx context.Context, cmd GenerateMenuCommand) (*MenuDTO, error)
	ApplyLearningDelta(ctx context.Context, delta user.LearningDelta) (*LearningProfileDTO, error)

	// Queries
	GetCachedMenu(ctx context.Context, userID string, date time.Time) (*MenuDTO, error)
}

// GenerateMenuCommand contains data for generating a menu
type GenerateMenuCommand struct {
	UserID                string
	Date                  time.Time // defaults to now; selects the season and cache key
	MealTypes             []recipe.MealType
	OptimizeForBiomarkers *bool
	SeasonalWeight        *float64
	NoveltyWeight         *float64
	MaxPerSlot            int
	LocalIngredients      []string

	// PersistLearning merges the resulting delta into the stored profile.
	PersistLearning bool
	// SkipCache forces regeneration even when a cached menu exists.
	SkipCache bool
}

// MenuDTO is the application-level view of a generated menu
type MenuDTO struct {
	UserID        string             `json:"user_id"`
	Date          string             `json:"date"`
	GeneratedAt   time.Time          `json:"generated_at"`
	FromCache     bool               `json:"from_cache"`
	Menu          menu.Menu          `json:"menu"`
	Predictions   menu.Prediction    `json:"predictions"`
	Insights      []menu.Insight     `json:"insights"`
	LearningDelta user.LearningDelta `json:"learning_delta"`
	Persisted     bool               `json:"learning_persisted"`
}

// LearningProfileDTO is the merged learning profile after a delta
type LearningProfileDTO struct {
	UserID                 string             `json:"user_id"`
	MealPreferencesLearned map[string]float64 `json:"meal_preferences_learned"`
	NoveltyTolerance       float64            `json:"novelty_tolerance"`
	DietaryComplianceScore float64            `json:"dietary_compliance_score"`
	PreferenceConfidence   float64            `json:"preference_confidence"`
	InteractionCount       int                `json:"interaction_count"`
}
