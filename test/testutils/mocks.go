// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/alchemorsel/menuplanner/internal/domain/menu"
	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	"github.com/alchemorsel/menuplanner/internal/domain/user"
	"github.com/alchemorsel/menuplanner/internal/ports/outbound"
)

// MockRecipeRepository provides a mock implementation of RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

var _ outbound.RecipeRepository = (*MockRecipeRepository)(nil)

// FindCandidates returns the candidate pool
func (m *MockRecipeRepository) FindCandidates(ctx context.Context, criteria outbound.CandidateCriteria) ([]recipe.Recipe, error) {
	args := m.Called(ctx, criteria)
	recipes, _ := args.Get(0).([]recipe.Recipe)
	return recipes, args.Error(1)
}

// Save saves a recipe
func (m *MockRecipeRepository) Save(ctx context.Context, r recipe.Recipe) error {
	return m.Called(ctx, r).Error(0)
}

// BulkSave saves recipes
func (m *MockRecipeRepository) BulkSave(ctx context.Context, recipes []recipe.Recipe) error {
	return m.Called(ctx, recipes).Error(0)
}

// Count counts recipes
func (m *MockRecipeRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserProfileRepository provides a mock implementation of UserProfileRepository
type MockUserProfileRepository struct {
	mock.Mock
}

var _ outbound.UserProfileRepository = (*MockUserProfileRepository)(nil)

// FindProfile finds a user profile
func (m *MockUserProfileRepository) FindProfile(ctx context.Context, userID string) (*user.Profile, error) {
	args := m.Called(ctx, userID)
	if p, ok := args.Get(0).(*user.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// SaveProfile saves a user profile
func (m *MockUserProfileRepository) SaveProfile(ctx context.Context, p user.Profile) error {
	return m.Called(ctx, p).Error(0)
}

// FindLearningProfile finds the learning profile
func (m *MockUserProfileRepository) FindLearningProfile(ctx context.Context, userID string) (user.LearningProfile, error) {
	args := m.Called(ctx, userID)
	lp, _ := args.Get(0).(user.LearningProfile)
	return lp, args.Error(1)
}

// MergeLearningDelta merges a learning delta
func (m *MockUserProfileRepository) MergeLearningDelta(ctx context.Context, delta user.LearningDelta) (user.LearningProfile, error) {
	args := m.Called(ctx, delta)
	lp, _ := args.Get(0).(user.LearningProfile)
	return lp, args.Error(1)
}

// MockMealHistoryRepository provides a mock implementation of MealHistoryRepository
type MockMealHistoryRepository struct {
	mock.Mock
}

var _ outbound.MealHistoryRepository = (*MockMealHistoryRepository)(nil)

// RecentMeals returns recent meals
func (m *MockMealHistoryRepository) RecentMeals(ctx context.Context, userID string, since, until time.Time) ([]recipe.Recipe, error) {
	args := m.Called(ctx, userID, since, until)
	recipes, _ := args.Get(0).([]recipe.Recipe)
	return recipes, args.Error(1)
}

// RecordServedMenu records a served menu
func (m *MockMealHistoryRepository) RecordServedMenu(ctx context.Context, userID string, served menu.Menu, servedAt time.Time) error {
	return m.Called(ctx, userID, served, servedAt).Error(0)
}
