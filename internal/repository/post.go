package repository

import (
	"context"
	"errors"

	"arbor/internal/models"

	"gorm.io/gorm"
)

// PostListFilter narrows List results.
type PostListFilter struct {
	// Visibilities restricts results to the given levels; empty means no
	// visibility restriction (caller is a moderator).
	Visibilities []models.Visibility
	// AuthorID restricts results to a single author when non-nil.
	AuthorID *uint
	// ParentPostID restricts results to replies of a post when non-nil.
	ParentPostID *uint
	Limit        int
	Offset       int
}

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	UpdateModeration(ctx context.Context, id uint, state models.Moderation) (*models.Post, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter PostListFilter) ([]*models.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts the post and refreshes the author's post_count and, for
// replies, the parent's reply counters in one transaction.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return models.NewInternalError("error_creating_post", err)
		}
		if post.UserID != nil {
			if err := recountUserPostCount(ctx, tx, *post.UserID); err != nil {
				return err
			}
		}
		if post.ParentPostID != nil {
			if err := recountPostReplyCounts(ctx, tx, *post.ParentPostID); err != nil {
				return err
			}
		}
		return nil
	})
	return asAppError(err, "error_creating_post")
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post_not_found")
		}
		return nil, models.NewInternalError("error_loading_post", err)
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError("error_updating_post", err)
	}
	return nil
}

// UpdateModeration transitions the post's moderation state and refreshes
// the counters that depend on its passing status.
func (r *postRepository) UpdateModeration(ctx context.Context, id uint, state models.Moderation) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("post_not_found")
			}
			return models.NewInternalError("error_loading_post", err)
		}
		if err := tx.Model(&post).Update("moderation", state).Error; err != nil {
			return models.NewInternalError("error_updating_post", err)
		}
		if post.UserID != nil {
			if err := recountUserPostCount(ctx, tx, *post.UserID); err != nil {
				return err
			}
		}
		if post.ParentPostID != nil {
			if err := recountPostReplyCounts(ctx, tx, *post.ParentPostID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "error_updating_post")
	}
	return &post, nil
}

// Delete removes the post and refreshes the dependent counters in one
// transaction.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("post_not_found")
			}
			return models.NewInternalError("error_loading_post", err)
		}
		if err := tx.Delete(&post).Error; err != nil {
			return models.NewInternalError("error_deleting_post", err)
		}
		if post.UserID != nil {
			if err := recountUserPostCount(ctx, tx, *post.UserID); err != nil {
				return err
			}
		}
		if post.ParentPostID != nil {
			if err := recountPostReplyCounts(ctx, tx, *post.ParentPostID); err != nil {
				return err
			}
		}
		return nil
	})
	return asAppError(err, "error_deleting_post")
}

func (r *postRepository) List(ctx context.Context, filter PostListFilter) ([]*models.Post, error) {
	query := r.db.WithContext(ctx).Preload("User")

	if len(filter.Visibilities) > 0 {
		query = query.Where("visibility IN ?", filter.Visibilities)
	}
	if filter.AuthorID != nil {
		query = query.Where("user_id = ?", *filter.AuthorID)
	}
	if filter.ParentPostID != nil {
		query = query.Where("parent_post_id = ?", *filter.ParentPostID)
	} else {
		query = query.Where("parent_post_id IS NULL")
	}
	query = query.Where("moderation IN ?", models.PassingModerations)

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var posts []*models.Post
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError("error_listing_posts", err)
	}
	return posts, nil
}
