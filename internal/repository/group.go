package repository

import (
	"context"
	"errors"

	"arbor/internal/models"

	"gorm.io/gorm"
)

// GroupRepository defines the interface for group data operations.
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	GetByShortname(ctx context.Context, shortname string) (*models.Group, error)
	Update(ctx context.Context, group *models.Group) error
	List(ctx context.Context, visibilities []models.Visibility, limit, offset int) ([]models.Group, error)
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository.
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		return models.NewInternalError("error_creating_group", err)
	}
	return nil
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("group_not_found")
		}
		return nil, models.NewInternalError("error_loading_group", err)
	}
	return &group, nil
}

func (r *groupRepository) GetByShortname(ctx context.Context, shortname string) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).Where("shortname = ?", shortname).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("group_not_found")
		}
		return nil, models.NewInternalError("error_loading_group", err)
	}
	return &group, nil
}

func (r *groupRepository) Update(ctx context.Context, group *models.Group) error {
	if err := r.db.WithContext(ctx).Save(group).Error; err != nil {
		return models.NewInternalError("error_updating_group", err)
	}
	return nil
}

func (r *groupRepository) List(ctx context.Context, visibilities []models.Visibility, limit, offset int) ([]models.Group, error) {
	query := r.db.WithContext(ctx)
	if len(visibilities) > 0 {
		query = query.Where("visibility IN ?", visibilities)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var groups []models.Group
	if err := query.
		Order("member_count DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&groups).Error; err != nil {
		return nil, models.NewInternalError("error_listing_groups", err)
	}
	return groups, nil
}
