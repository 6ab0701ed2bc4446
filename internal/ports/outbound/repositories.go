// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/alchemorsel/menuplanner/internal/domain/menu"
	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	"github.com/alchemorsel/menuplanner/internal/domain/user"
)

// RecipeRepository is the read side of the recipe catalog. The engine never
// writes recipes; Save exists for seeding and catalog imports.
type RecipeRepository interface {
	// FindCandidates returns a fully materialized pool of recipes tagged with
	// any of the meal types, ordered by ID. A limit <= 0 means no limit.
	FindCandidates(ctx context.Context, criteria CandidateCriteria) ([]recipe.Recipe, error)

	Save(ctx context.Context, r recipe.Recipe) error
	BulkSave(ctx context.Context, recipes []recipe.Recipe) error
	Count(ctx context.Context) (int64, error)
}

// CandidateCriteria narrows the candidate pool before scoring
type CandidateCriteria struct {
	MealTypes []recipe.MealType
	Limit     int
}

// UserProfileRepository stores health profiles and learning state
type UserProfileRepository interface {
	FindProfile(ctx context.Context, userID string) (*user.Profile, error)
	SaveProfile(ctx context.Context, p user.Profile) error

	// FindLearningProfile returns the default profile for users without
	// learning history.
	FindLearningProfile(ctx context.Context, userID string) (user.LearningProfile, error)

	// MergeLearningDelta applies the delta to the stored profile atomically and
	// returns the merged result.
	MergeLearningDelta(ctx context.Context, delta user.LearningDelta) (user.LearningProfile, error)
}

// MealHistoryRepository records what was served
type MealHistoryRepository interface {
	// RecentMeals returns recipes served to the user in [since, until).
	RecentMeals(ctx context.Context, userID string, since, until time.Time) ([]recipe.Recipe, error)
	RecordServedMenu(ctx context.Context, userID string, m menu.Menu, servedAt time.Time) error
}

// ErrCacheMiss is returned by CacheRepository.Get for absent or expired keys
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
