package repository

import (
	"context"
	"errors"

	"arbor/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow data operations.
// Mutations recount the target's follower_count and the follower's
// following_count in the same transaction.
type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) error
	Get(ctx context.Context, userID, targetUserID uint) (*models.Follow, error)
	UpdateModeration(ctx context.Context, userID, targetUserID uint, state models.Moderation) (*models.Follow, error)
	Delete(ctx context.Context, userID, targetUserID uint) error
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, follow *models.Follow) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(follow).Error; err != nil {
			return models.NewInternalError("error_creating_follow", err)
		}
		return recountFollowCounts(ctx, tx, follow.UserID, follow.TargetUserID)
	})
	return asAppError(err, "error_creating_follow")
}

func (r *followRepository) Get(ctx context.Context, userID, targetUserID uint) (*models.Follow, error) {
	var follow models.Follow
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_user_id = ?", userID, targetUserID).
		First(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("follow_not_found")
		}
		return nil, models.NewInternalError("error_loading_follow", err)
	}
	return &follow, nil
}

func (r *followRepository) UpdateModeration(ctx context.Context, userID, targetUserID uint, state models.Moderation) (*models.Follow, error) {
	var follow models.Follow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND target_user_id = ?", userID, targetUserID).
			First(&follow).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("follow_not_found")
			}
			return models.NewInternalError("error_loading_follow", err)
		}
		if err := tx.Model(&models.Follow{}).
			Where("user_id = ? AND target_user_id = ?", userID, targetUserID).
			Update("target_user_moderation", state).Error; err != nil {
			return models.NewInternalError("error_updating_follow", err)
		}
		follow.TargetUserModeration = state
		return recountFollowCounts(ctx, tx, userID, targetUserID)
	})
	if err != nil {
		return nil, asAppError(err, "error_updating_follow")
	}
	return &follow, nil
}

func (r *followRepository) Delete(ctx context.Context, userID, targetUserID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND target_user_id = ?", userID, targetUserID).
			Delete(&models.Follow{})
		if result.Error != nil {
			return models.NewInternalError("error_deleting_follow", result.Error)
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("follow_not_found")
		}
		return recountFollowCounts(ctx, tx, userID, targetUserID)
	})
	return asAppError(err, "error_deleting_follow")
}
