package gorm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alchemorsel/menuplanner/internal/domain/user"
	"github.com/alchemorsel/menuplanner/internal/ports/outbound"
)

// UserProfileRepository stores health profiles and learning state using GORM
type UserProfileRepository struct {
	db *gorm.DB
}

// NewUserProfileRepository creates a new user profile repository
func NewUserProfileRepository(db *gorm.DB) *UserProfileRepository {
	return &UserProfileRepository{db: db}
}

var _ outbound.UserProfileRepository = (*UserProfileRepository)(nil)

// FindProfile finds a health profile by user ID
func (r *UserProfileRepository) FindProfile(ctx context.Context, userID string) (*user.Profile, error) {
	var model ProfileModel

	result := r.db.WithContext(ctx).First(&model, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("find profile %s: %w", userID, result.Error)
	}

	p := ModelToProfile(&model)
	return &p, nil
}

// SaveProfile validates and upserts a health profile
func (r *UserProfileRepository) SaveProfile(ctx context.Context, p user.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	model := ProfileToModel(p)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model)
	if result.Error != nil {
		return fmt.Errorf("save profile %s: %w", p.UserID, result.Error)
	}
	return nil
}

// FindLearningProfile returns the stored learning profile, or the default one
// for users without learning history
func (r *UserProfileRepository) FindLearningProfile(ctx context.Context, userID string) (user.LearningProfile, error) {
	return findLearning(r.db.WithContext(ctx), userID)
}

// MergeLearningDelta applies delta to the stored learning profile inside a
// transaction and returns the merged profile. The user must have a health
// profile.
func (r *UserProfileRepository) MergeLearningDelta(ctx context.Context, delta user.LearningDelta) (user.LearningProfile, error) {
	var merged user.LearningProfile

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owners int64
		if err := tx.Model(&ProfileModel{}).Where("user_id = ?", delta.UserID).Count(&owners).Error; err != nil {
			return fmt.Errorf("check profile %s: %w", delta.UserID, err)
		}
		if owners == 0 {
			return user.ErrUserNotFound
		}

		current, err := findLearning(tx.Clauses(clause.Locking{Strength: "UPDATE"}), delta.UserID)
		if err != nil {
			return err
		}
		merged = current.Apply(delta)

		result := tx.Clauses(clause.OnConflict{UpdateAll: true}).
			Create(LearningToModel(delta.UserID, merged))
		if result.Error != nil {
			return fmt.Errorf("save learning profile %s: %w", delta.UserID, result.Error)
		}
		return nil
	})
	if err != nil {
		return user.LearningProfile{}, err
	}
	return merged, nil
}

func findLearning(db *gorm.DB, userID string) (user.LearningProfile, error) {
	var model LearningProfileModel
	result := db.Where("user_id = ?", userID).Limit(1).Find(&model)
	if result.Error != nil {
		return user.LearningProfile{}, fmt.Errorf("find learning profile %s: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return user.DefaultLearningProfile(), nil
	}
	return ModelToLearning(&model), nil
}
