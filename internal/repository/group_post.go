package repository

import (
	"context"
	"errors"

	"arbor/internal/models"

	"gorm.io/gorm"
)

// GroupPostRepository defines the interface for group-post data
// operations. Every mutation runs in one transaction together with the
// recount of the owning group's post_count and the referenced post's
// group_count: the relationship change is never committed without its
// dependent counters.
type GroupPostRepository interface {
	Create(ctx context.Context, groupPost *models.GroupPost) error
	Get(ctx context.Context, groupID, postID uint) (*models.GroupPost, error)
	UpdateModeration(ctx context.Context, groupID, postID uint, state models.Moderation) (*models.GroupPost, error)
	Delete(ctx context.Context, groupID, postID uint) error
	ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]models.GroupPost, error)
}

type groupPostRepository struct {
	db *gorm.DB
}

// NewGroupPostRepository creates a new group-post repository.
func NewGroupPostRepository(db *gorm.DB) GroupPostRepository {
	return &groupPostRepository{db: db}
}

func (r *groupPostRepository) Create(ctx context.Context, groupPost *models.GroupPost) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(groupPost).Error; err != nil {
			return models.NewInternalError("error_creating_group_post", err)
		}
		return recountGroupPostCounts(ctx, tx, groupPost.GroupID, groupPost.PostID)
	})
	return asAppError(err, "error_creating_group_post")
}

func (r *groupPostRepository) Get(ctx context.Context, groupID, postID uint) (*models.GroupPost, error) {
	var groupPost models.GroupPost
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND post_id = ?", groupID, postID).
		First(&groupPost).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("group_post_not_found")
		}
		return nil, models.NewInternalError("error_loading_group_post", err)
	}
	return &groupPost, nil
}

func (r *groupPostRepository) UpdateModeration(ctx context.Context, groupID, postID uint, state models.Moderation) (*models.GroupPost, error) {
	var groupPost models.GroupPost
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ? AND post_id = ?", groupID, postID).
			First(&groupPost).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("group_post_not_found")
			}
			return models.NewInternalError("error_loading_group_post", err)
		}
		if err := tx.Model(&models.GroupPost{}).
			Where("group_id = ? AND post_id = ?", groupID, postID).
			Update("group_moderation", state).Error; err != nil {
			return models.NewInternalError("error_updating_group_post", err)
		}
		groupPost.GroupModeration = state
		return recountGroupPostCounts(ctx, tx, groupID, postID)
	})
	if err != nil {
		return nil, asAppError(err, "error_updating_group_post")
	}
	return &groupPost, nil
}

func (r *groupPostRepository) Delete(ctx context.Context, groupID, postID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("group_id = ? AND post_id = ?", groupID, postID).
			Delete(&models.GroupPost{})
		if result.Error != nil {
			return models.NewInternalError("error_deleting_group_post", result.Error)
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("group_post_not_found")
		}
		return recountGroupPostCounts(ctx, tx, groupID, postID)
	})
	return asAppError(err, "error_deleting_group_post")
}

func (r *groupPostRepository) ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]models.GroupPost, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var groupPosts []models.GroupPost
	if err := r.db.WithContext(ctx).
		Preload("Post").
		Preload("Post.User").
		Where("group_id = ? AND group_moderation IN ?", groupID, models.PassingModerations).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&groupPosts).Error; err != nil {
		return nil, models.NewInternalError("error_listing_group_posts", err)
	}
	return groupPosts, nil
}
